package authz

import (
	"context"
	"net/http"
	"strings"

	apperrors "procurement-system/pkg/errors"

	"go.uber.org/zap"
)

// ResourceKey — цель проверки доступа: путь вкладки, её имя или список
// допустимых ключей (достаточно совпадения по любому). Внутри всегда список.
type ResourceKey struct {
	keys []string
}

func Tab(key string) ResourceKey {
	return ResourceKey{keys: []string{key}}
}

func AnyOf(keys ...string) ResourceKey {
	return ResourceKey{keys: keys}
}

func (k ResourceKey) Keys() []string {
	return k.keys
}

// Исходы проверки. Внешне оба — 403, но причины различаются в логах
// и диагностике: "роль не определена" против "права на вкладку нет".
var (
	ErrRoleUndetermined = apperrors.NewForbiddenError("доступ запрещён: роль пользователя не определена")
	ErrTabForbidden     = apperrors.NewForbiddenError("доступ запрещён: нет права на этот раздел")
)

// adminOnlyPathPrefixes — разделы, закрытые для всех, кроме администратора,
// независимо от строк role_permissions. Проверяется до обращения к таблице.
var adminOnlyPathPrefixes = []string{
	"/tabs",
	"/roles",
	"/role-permissions",
	"/users",
	"/settings",
}

// PermissionStore отвечает на два вопроса: есть ли у роли право видеть вкладку
// по любому из ключей и какой id у вкладки с такими ключами.
type PermissionStore interface {
	HasViewPermission(ctx context.Context, roleID uint64, keys []string) (bool, error)
	ResolveTabID(ctx context.Context, keys []string) (uint64, bool, error)
}

// Evaluator решает, может ли принципал действовать в разделе.
// Проверка только читает; любая ошибка запроса к БД — это 500, не грант.
type Evaluator struct {
	store  PermissionStore
	logger *zap.Logger
}

func NewEvaluator(store PermissionStore, logger *zap.Logger) *Evaluator {
	return &Evaluator{store: store, logger: logger}
}

// Authorize — основной путь: живой запрос к role_permissions.
// Порядок этапов фиксирован: админ-байпас, затем закрытые префиксы,
// затем неопределённая роль, затем поиск гранта.
func (e *Evaluator) Authorize(ctx context.Context, p Principal, key ResourceKey) error {
	if IsAdmin(p) {
		return nil
	}

	if hasAdminOnlyPrefix(key.Keys()) {
		e.logger.Warn("попытка доступа к административному разделу",
			zap.Uint64("userID", p.UserID),
			zap.Strings("keys", key.Keys()),
		)
		return ErrTabForbidden
	}

	if p.RoleID == nil {
		return ErrRoleUndetermined
	}

	allowed, err := e.store.HasViewPermission(ctx, *p.RoleID, key.Keys())
	if err != nil {
		return apperrors.NewHttpError(http.StatusInternalServerError, "внутренняя ошибка сервера", err, nil)
	}
	if !allowed {
		return ErrTabForbidden
	}
	return nil
}

// AuthorizeBySnapshot — вариант для прав, снятых в токен при входе: вкладка
// резолвится в id, дальше — членство в снимке принципала, без строк БД.
func (e *Evaluator) AuthorizeBySnapshot(ctx context.Context, p Principal, key ResourceKey) error {
	if IsAdmin(p) {
		return nil
	}

	if hasAdminOnlyPrefix(key.Keys()) {
		return ErrTabForbidden
	}

	if p.RoleID == nil {
		return ErrRoleUndetermined
	}

	tabID, found, err := e.store.ResolveTabID(ctx, key.Keys())
	if err != nil {
		return apperrors.NewHttpError(http.StatusInternalServerError, "внутренняя ошибка сервера", err, nil)
	}
	if !found {
		return ErrTabForbidden
	}
	if _, ok := p.TabIDs[tabID]; !ok {
		return ErrTabForbidden
	}
	return nil
}

// AuthorizeEntity — доступ по имени сущности, когда вызывающий не знает
// вкладку (журналы по entity_type). Сущность без привязки к вкладке закрыта
// для всех, кроме администратора.
func (e *Evaluator) AuthorizeEntity(ctx context.Context, p Principal, entityName string) error {
	if IsAdmin(p) {
		return nil
	}

	_, tabPath, ok := ResolveEntityTab(entityName)
	if !ok {
		e.logger.Warn("сущность не привязана к вкладке, доступ только администратору",
			zap.String("entity", entityName),
			zap.Uint64("userID", p.UserID),
		)
		return ErrTabForbidden
	}
	return e.Authorize(ctx, p, Tab(tabPath))
}

func hasAdminOnlyPrefix(keys []string) bool {
	for _, k := range keys {
		if !strings.HasPrefix(k, "/") {
			continue
		}
		for _, prefix := range adminOnlyPathPrefixes {
			// Граница сегмента: /tabs и /tabs/5 закрыты, /tabs-archive — нет.
			if k == prefix || strings.HasPrefix(k, prefix+"/") {
				return true
			}
		}
	}
	return false
}
