package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"procurement-system/internal/authz"
	"procurement-system/internal/dto"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	apperrors "procurement-system/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubTabRepo struct {
	repositories.TabRepositoryInterface
	all       []entities.Tab
	byRole    map[uint64][]entities.Tab
	roleCalls []uint64
	createErr error
}

func (s *stubTabRepo) GetTabs(ctx context.Context) ([]entities.Tab, error) {
	return s.all, nil
}

func (s *stubTabRepo) GetTabsForRole(ctx context.Context, roleID uint64) ([]entities.Tab, error) {
	s.roleCalls = append(s.roleCalls, roleID)
	return s.byRole[roleID], nil
}

func (s *stubTabRepo) CreateTab(ctx context.Context, tab entities.Tab) (*entities.Tab, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	tab.ID = uint64(len(s.all) + 1)
	s.all = append(s.all, tab)
	return &tab, nil
}

func (s *stubTabRepo) FindTabByPathOrName(ctx context.Context, key string) (*entities.Tab, error) {
	for i := range s.all {
		if s.all[i].TabName == key || s.all[i].Path == key {
			return &s.all[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func TestGetTabsForViewer(t *testing.T) {
	repo := &stubTabRepo{
		all: []entities.Tab{
			{ID: 1, TabName: "client_orders", Path: "/client-orders"},
			{ID: 2, TabName: "tabs", Path: "/tabs"},
		},
		byRole: map[uint64][]entities.Tab{
			2: {{ID: 1, TabName: "client_orders", Path: "/client-orders"}},
		},
	}
	svc := NewTabService(repo, stubTxManager{}, zap.NewNop())

	t.Run("админ видит всё", func(t *testing.T) {
		tabs, err := svc.GetTabsForViewer(context.Background(), authz.Principal{Admin: true})
		require.NoError(t, err)
		assert.Len(t, tabs, 2)
		assert.Empty(t, repo.roleCalls)
	})

	t.Run("роль видит только свои вкладки", func(t *testing.T) {
		roleID := uint64(2)
		tabs, err := svc.GetTabsForViewer(context.Background(), authz.Principal{Role: "buyer", RoleID: &roleID})
		require.NoError(t, err)
		require.Len(t, tabs, 1)
		assert.Equal(t, "/client-orders", tabs[0].Path)
	})

	t.Run("без роли — пустой список, не ошибка", func(t *testing.T) {
		tabs, err := svc.GetTabsForViewer(context.Background(), authz.Principal{Role: "ghost"})
		require.NoError(t, err)
		assert.Empty(t, tabs)
	})
}

func TestCreateTabConflictEmbedsCurrentRow(t *testing.T) {
	existing := entities.Tab{ID: 7, TabName: "clients", Path: "/clients"}

	requireConflictWith := func(t *testing.T, err error) dto.TabDTO {
		t.Helper()
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
		require.NotNil(t, httpErr.Details, "409 должен нести текущее состояние спорной строки")
		current, ok := httpErr.Details.(dto.TabDTO)
		require.True(t, ok)
		return current
	}

	t.Run("конфликт по имени при свободном пути", func(t *testing.T) {
		repo := &stubTabRepo{
			all:       []entities.Tab{existing},
			createErr: &pgconn.PgError{Code: "23505", ConstraintName: "tabs_tab_name_key"},
		}
		svc := NewTabService(repo, stubTxManager{}, zap.NewNop())

		_, err := svc.CreateTab(context.Background(), dto.CreateTabDTO{TabName: "clients", Path: "/clients-v2"})
		current := requireConflictWith(t, err)
		assert.Equal(t, existing.ID, current.ID)
		assert.Equal(t, "/clients", current.Path)
	})

	t.Run("конфликт по пути", func(t *testing.T) {
		repo := &stubTabRepo{
			all:       []entities.Tab{existing},
			createErr: &pgconn.PgError{Code: "23505", ConstraintName: "tabs_path_key"},
		}
		svc := NewTabService(repo, stubTxManager{}, zap.NewNop())

		_, err := svc.CreateTab(context.Background(), dto.CreateTabDTO{TabName: "customers", Path: "/clients"})
		current := requireConflictWith(t, err)
		assert.Equal(t, existing.ID, current.ID)
	})

	t.Run("не дубликат — ошибка проходит как есть", func(t *testing.T) {
		repo := &stubTabRepo{
			createErr: &pgconn.PgError{Code: "40P01"},
		}
		svc := NewTabService(repo, stubTxManager{}, zap.NewNop())

		_, err := svc.CreateTab(context.Background(), dto.CreateTabDTO{TabName: "clients", Path: "/clients"})
		require.Error(t, err)
		var httpErr *apperrors.HttpError
		assert.False(t, errors.As(err, &httpErr))
	})
}
