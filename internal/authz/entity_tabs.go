package authz

import "strings"

// entityAliases сводит исторические имена сущностей к каноническим.
// Журнал активности годами писался разными версиями фронта, поэтому
// встречаются оба варианта.
var entityAliases = map[string]string{
	"tnved_code":     "tnved_codes",
	"client_order":   "client_orders",
	"order_item":     "order_items",
	"offer":          "offers",
	"original_part":  "original_parts",
	"supplier_part":  "supplier_parts",
	"manufacturer":   "manufacturers",
	"logistic_route": "logistics_routes",
}

// entityTabs — статическая привязка "таблица → владеющая вкладка".
// Сущность, которой здесь нет, не подключена к системе прав и по умолчанию
// доступна только администратору.
var entityTabs = map[string]string{
	"clients":          "/clients",
	"suppliers":        "/suppliers",
	"original_parts":   "/parts",
	"supplier_parts":   "/parts",
	"manufacturers":    "/directories",
	"tnved_codes":      "/directories",
	"client_orders":    "/client-orders",
	"order_items":      "/client-orders",
	"offers":           "/client-orders",
	"order_events":     "/client-orders",
	"logistics_routes": "/logistics",
}

// ResolveEntityTab нормализует имя сущности, снимает алиас и возвращает
// каноническое имя с путём владеющей вкладки. Чистая и тотальная функция:
// неизвестный вход — это (вход, "", false), никогда не паника.
func ResolveEntityTab(name string) (canonical string, tabPath string, ok bool) {
	canonical = strings.TrimSpace(name)

	if alias, found := entityAliases[canonical]; found {
		canonical = alias
	}

	tabPath, ok = entityTabs[canonical]
	return canonical, tabPath, ok
}
