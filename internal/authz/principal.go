package authz

import "strings"

// Principal — проверенная личность запроса: кто, с какой ролью и с каким
// снимком прав вошёл. Собирается один раз в auth-middleware из claims токена.
type Principal struct {
	UserID uint64
	// Role — слаг роли в свободной форме, сравнивается без учёта регистра.
	Role   string
	RoleID *uint64
	// TabIDs — снимок id вкладок, доступных роли на момент входа.
	TabIDs map[uint64]struct{}
	// Admin — явный флаг администратора из хранилища/claims.
	Admin bool
}

// IsAdmin — тройной признак администратора: слаг роли "admin" (без учёта
// регистра), role_id == 1 или явный флаг. Сигналы независимы, достаточно
// любого из них; дальше все проверки вкладок и ролей пропускаются.
func IsAdmin(p Principal) bool {
	if p.Admin {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(p.Role), "admin") {
		return true
	}
	if p.RoleID != nil && *p.RoleID == 1 {
		return true
	}
	return false
}
