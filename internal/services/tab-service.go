package services

import (
	"context"

	"procurement-system/internal/authz"
	"procurement-system/internal/dto"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	apperrors "procurement-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TabServiceInterface interface {
	GetTabsForViewer(ctx context.Context, p authz.Principal) ([]dto.TabDTO, error)
	FindTab(ctx context.Context, id uint64) (*dto.TabDTO, error)
	CreateTab(ctx context.Context, in dto.CreateTabDTO) (*dto.TabDTO, error)
	UpdateTab(ctx context.Context, id uint64, in dto.UpdateTabDTO) (*dto.TabDTO, error)
	DeleteTab(ctx context.Context, id uint64) error
	ReorderTabs(ctx context.Context, in dto.ReorderTabsDTO) error
}

type TabService struct {
	tabRepo   repositories.TabRepositoryInterface
	txManager repositories.TxManagerInterface
	logger    *zap.Logger
}

func NewTabService(
	tabRepo repositories.TabRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) TabServiceInterface {
	return &TabService{tabRepo: tabRepo, txManager: txManager, logger: logger}
}

func tabToDTO(t entities.Tab) dto.TabDTO {
	return dto.TabDTO{
		ID:        t.ID,
		TabName:   t.TabName,
		Path:      t.Path,
		Icon:      t.Icon,
		SortOrder: t.SortOrder,
		IsActive:  t.IsActive,
	}
}

// GetTabsForViewer: админ видит все вкладки, остальные — только те, на которые
// у их роли есть право просмотра. Пользователь без роли получает пустой
// список, а не ошибку: меню просто нечем наполнять.
func (s *TabService) GetTabsForViewer(ctx context.Context, p authz.Principal) ([]dto.TabDTO, error) {
	var (
		tabs []entities.Tab
		err  error
	)
	switch {
	case authz.IsAdmin(p):
		tabs, err = s.tabRepo.GetTabs(ctx)
	case p.RoleID == nil:
		return []dto.TabDTO{}, nil
	default:
		tabs, err = s.tabRepo.GetTabsForRole(ctx, *p.RoleID)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]dto.TabDTO, 0, len(tabs))
	for _, t := range tabs {
		dtos = append(dtos, tabToDTO(t))
	}
	return dtos, nil
}

func (s *TabService) FindTab(ctx context.Context, id uint64) (*dto.TabDTO, error) {
	tab, err := s.tabRepo.FindTab(ctx, id)
	if err != nil {
		return nil, err
	}
	result := tabToDTO(*tab)
	return &result, nil
}

// conflictWithCurrent оборачивает нарушение уникальности в 409 и кладёт в
// ответ занявшую имя или путь строку, чтобы фронт показал, с кем столкнулись.
// Уникальных ключа два (tab_name и path), поэтому пробуем оба: конфликт по
// имени при свободном пути тоже должен вернуть занявшую строку.
func (s *TabService) conflictWithCurrent(ctx context.Context, err error, keys ...string) error {
	if repositories.ClassifyStoreError(err) != repositories.StoreErrDuplicate {
		return err
	}
	for _, key := range keys {
		current, findErr := s.tabRepo.FindTabByPathOrName(ctx, key)
		if findErr != nil || current == nil {
			continue
		}
		return apperrors.NewConflictError("вкладка с таким именем или путём уже существует", tabToDTO(*current))
	}
	return apperrors.NewConflictError("вкладка с таким именем или путём уже существует", nil)
}

func (s *TabService) CreateTab(ctx context.Context, in dto.CreateTabDTO) (*dto.TabDTO, error) {
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	tab, err := s.tabRepo.CreateTab(ctx, entities.Tab{
		TabName:   in.TabName,
		Path:      in.Path,
		Icon:      in.Icon,
		SortOrder: in.SortOrder,
		IsActive:  isActive,
	})
	if err != nil {
		return nil, s.conflictWithCurrent(ctx, err, in.TabName, in.Path)
	}
	result := tabToDTO(*tab)
	return &result, nil
}

func (s *TabService) UpdateTab(ctx context.Context, id uint64, in dto.UpdateTabDTO) (*dto.TabDTO, error) {
	current, err := s.tabRepo.FindTab(ctx, id)
	if err != nil {
		return nil, err
	}

	isActive := current.IsActive
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	tab, err := s.tabRepo.UpdateTab(ctx, id, entities.Tab{
		TabName:   in.TabName,
		Path:      in.Path,
		Icon:      in.Icon,
		SortOrder: in.SortOrder,
		IsActive:  isActive,
	})
	if err != nil {
		return nil, s.conflictWithCurrent(ctx, err, in.TabName, in.Path)
	}
	result := tabToDTO(*tab)
	return &result, nil
}

// DeleteTab убирает вкладку вместе с выданными на неё правами, одной
// транзакцией: висячих записей role_permissions не остаётся.
func (s *TabService) DeleteTab(ctx context.Context, id uint64) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.tabRepo.DeleteTabInTx(ctx, tx, id)
	})
}

func (s *TabService) ReorderTabs(ctx context.Context, in dto.ReorderTabsDTO) error {
	entries := make([]repositories.TabSortEntry, 0, len(in.Items))
	for _, item := range in.Items {
		entries = append(entries, repositories.TabSortEntry{ID: item.ID, SortOrder: item.SortOrder})
	}
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.tabRepo.UpdateSortOrderInTx(ctx, tx, entries)
	})
}
