package authz

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	apperrors "procurement-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore — управляемая замена role_permissions для тестов.
type fakeStore struct {
	allowed   bool
	tabID     uint64
	found     bool
	err       error
	lastKeys  []string
	lastRole  uint64
	callCount int
}

func (f *fakeStore) HasViewPermission(ctx context.Context, roleID uint64, keys []string) (bool, error) {
	f.callCount++
	f.lastRole = roleID
	f.lastKeys = keys
	return f.allowed, f.err
}

func (f *fakeStore) ResolveTabID(ctx context.Context, keys []string) (uint64, bool, error) {
	f.callCount++
	f.lastKeys = keys
	return f.tabID, f.found, f.err
}

func newTestEvaluator(store *fakeStore) *Evaluator {
	return NewEvaluator(store, zap.NewNop())
}

func TestAuthorizeAdminBypassSkipsStore(t *testing.T) {
	store := &fakeStore{}
	e := newTestEvaluator(store)

	err := e.Authorize(context.Background(), Principal{Admin: true}, Tab("/tabs"))
	require.NoError(t, err)
	assert.Zero(t, store.callCount, "админ не должен ходить в хранилище")
}

func TestAuthorizeAdminOnlyPrefixDeniesBeforeLookup(t *testing.T) {
	store := &fakeStore{allowed: true}
	e := newTestEvaluator(store)
	p := Principal{Role: "buyer", RoleID: uintPtr(2)}

	for _, path := range []string{"/tabs", "/roles", "/role-permissions", "/users", "/settings", "/tabs/5"} {
		err := e.Authorize(context.Background(), p, Tab(path))
		assert.ErrorIs(t, err, ErrTabForbidden, path)
	}
	assert.Zero(t, store.callCount, "закрытый префикс отбивается до запроса")

	// Похожий путь с другим сегментом закрытым не считается.
	err := e.Authorize(context.Background(), p, Tab("/tabs-archive"))
	assert.NoError(t, err)
	assert.Equal(t, 1, store.callCount, "проверка уходит в обычный поиск прав")
}

func TestAuthorizeRoleUndetermined(t *testing.T) {
	store := &fakeStore{allowed: true}
	e := newTestEvaluator(store)

	err := e.Authorize(context.Background(), Principal{Role: "buyer"}, Tab("/client-orders"))
	assert.ErrorIs(t, err, ErrRoleUndetermined)
	assert.Zero(t, store.callCount)
}

func TestAuthorizeGrantAndDeny(t *testing.T) {
	store := &fakeStore{allowed: true}
	e := newTestEvaluator(store)
	p := Principal{Role: "buyer", RoleID: uintPtr(2)}

	require.NoError(t, e.Authorize(context.Background(), p, AnyOf("client_orders", "/client-orders")))
	assert.Equal(t, uint64(2), store.lastRole)
	assert.Equal(t, []string{"client_orders", "/client-orders"}, store.lastKeys)

	store.allowed = false
	assert.ErrorIs(t, e.Authorize(context.Background(), p, Tab("/client-orders")), ErrTabForbidden)
}

// Ошибка хранилища — это 500, а не грант и не 403.
func TestAuthorizeStoreErrorIsInternal(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("connection refused")}
	e := newTestEvaluator(store)
	p := Principal{Role: "buyer", RoleID: uintPtr(2)}

	err := e.Authorize(context.Background(), p, Tab("/client-orders"))
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
}

func TestAuthorizeBySnapshot(t *testing.T) {
	store := &fakeStore{tabID: 7, found: true}
	e := newTestEvaluator(store)

	p := Principal{
		Role:   "buyer",
		RoleID: uintPtr(2),
		TabIDs: map[uint64]struct{}{7: {}},
	}
	require.NoError(t, e.AuthorizeBySnapshot(context.Background(), p, Tab("/client-orders")))

	p.TabIDs = map[uint64]struct{}{3: {}}
	assert.ErrorIs(t, e.AuthorizeBySnapshot(context.Background(), p, Tab("/client-orders")), ErrTabForbidden)

	store.found = false
	assert.ErrorIs(t, e.AuthorizeBySnapshot(context.Background(), p, Tab("/nothing")), ErrTabForbidden)
}

func TestAuthorizeEntityFallsBackToAdminOnly(t *testing.T) {
	store := &fakeStore{allowed: true}
	e := newTestEvaluator(store)

	// неизвестная сущность: обычной роли отказ, админу проход
	p := Principal{Role: "buyer", RoleID: uintPtr(2)}
	assert.ErrorIs(t, e.AuthorizeEntity(context.Background(), p, "unknown_table"), ErrTabForbidden)
	require.NoError(t, e.AuthorizeEntity(context.Background(), Principal{Admin: true}, "unknown_table"))

	// известная сущность идёт обычным путём через вкладку
	require.NoError(t, e.AuthorizeEntity(context.Background(), p, "client_order"))
	assert.Equal(t, []string{"/client-orders"}, store.lastKeys)
}
