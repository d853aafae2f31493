package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveEntityTab(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		canonical string
		tabPath   string
		ok        bool
	}{
		{"каноническое имя", "client_orders", "client_orders", "/client-orders", true},
		{"алиас единственного числа", "client_order", "client_orders", "/client-orders", true},
		{"исторический алиас ТНВЭД", "tnved_code", "tnved_codes", "/directories", true},
		{"алиас маршрута", "logistic_route", "logistics_routes", "/logistics", true},
		{"пробелы по краям", "  clients  ", "clients", "/clients", true},
		{"неизвестная сущность", "warehouse_racks", "warehouse_racks", "", false},
		{"пустая строка", "", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			canonical, tabPath, ok := ResolveEntityTab(tc.input)
			assert.Equal(t, tc.canonical, canonical)
			assert.Equal(t, tc.tabPath, tabPath)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

// Все алиасы обязаны вести на сущность, известную таблице вкладок.
func TestEntityAliasesResolve(t *testing.T) {
	for alias := range entityAliases {
		_, _, ok := ResolveEntityTab(alias)
		assert.True(t, ok, "алиас %q ведёт в никуда", alias)
	}
}
