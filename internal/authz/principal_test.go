package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint64) *uint64 { return &v }

func TestIsAdmin(t *testing.T) {
	testCases := []struct {
		name     string
		p        Principal
		expected bool
	}{
		{"явный флаг", Principal{Admin: true}, true},
		{"слаг admin", Principal{Role: "admin"}, true},
		{"слаг в другом регистре", Principal{Role: "ADMIN"}, true},
		{"слаг с пробелами", Principal{Role: "  Admin  "}, true},
		{"role_id == 1", Principal{RoleID: uintPtr(1)}, true},
		{"обычная роль", Principal{Role: "buyer", RoleID: uintPtr(2)}, false},
		{"без роли", Principal{}, false},
		{"administrator — не admin", Principal{Role: "administrator"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsAdmin(tc.p))
		})
	}
}

// Каждый сигнал работает независимо от остальных двух.
func TestIsAdminSignalsAreIndependent(t *testing.T) {
	assert.True(t, IsAdmin(Principal{Admin: true, Role: "manager", RoleID: uintPtr(5)}))
	assert.True(t, IsAdmin(Principal{Role: "admin", RoleID: uintPtr(5)}))
	assert.True(t, IsAdmin(Principal{Role: "manager", RoleID: uintPtr(1)}))
}
