package services

import (
	"context"

	"procurement-system/internal/dto"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	apperrors "procurement-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RolePermissionServiceInterface interface {
	GetRolePermissions(ctx context.Context, limit uint64, offset uint64) ([]dto.RolePermissionDTO, uint64, error)
	Upsert(ctx context.Context, in dto.UpsertRolePermissionDTO) (*dto.RolePermissionDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type RolePermissionService struct {
	rpRepo    repositories.RolePermissionRepositoryInterface
	txManager repositories.TxManagerInterface
	logger    *zap.Logger
}

func NewRolePermissionService(
	rpRepo repositories.RolePermissionRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) RolePermissionServiceInterface {
	return &RolePermissionService{rpRepo: rpRepo, txManager: txManager, logger: logger}
}

func rolePermissionToDTO(rp entities.RolePermission) dto.RolePermissionDTO {
	return dto.RolePermissionDTO{
		ID:      rp.ID,
		RoleID:  rp.RoleID,
		TabID:   rp.TabID,
		CanView: rp.CanView,
	}
}

func (s *RolePermissionService) GetRolePermissions(ctx context.Context, limit uint64, offset uint64) ([]dto.RolePermissionDTO, uint64, error) {
	perms, total, err := s.rpRepo.GetRolePermissions(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.RolePermissionDTO, 0, len(perms))
	for _, rp := range perms {
		dtos = append(dtos, rolePermissionToDTO(rp))
	}
	return dtos, total, nil
}

// Upsert перезаписывает грант пары (роль, вкладка): удаление и вставка в одной
// транзакции, дубликат возникнуть не может. Несуществующая роль или вкладка
// отбивается внешним ключом как 409.
func (s *RolePermissionService) Upsert(ctx context.Context, in dto.UpsertRolePermissionDTO) (*dto.RolePermissionDTO, error) {
	var saved *entities.RolePermission
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		rp, err := s.rpRepo.UpsertInTx(ctx, tx, entities.RolePermission{
			RoleID:  in.RoleID,
			TabID:   in.TabID,
			CanView: in.CanView,
		})
		if err != nil {
			if repositories.ClassifyStoreError(err) == repositories.StoreErrFKViolation {
				return apperrors.NewConflictError("роль или вкладка не существует", nil)
			}
			return err
		}
		saved = rp
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := rolePermissionToDTO(*saved)
	return &result, nil
}

func (s *RolePermissionService) Delete(ctx context.Context, id uint64) error {
	return s.rpRepo.DeleteRolePermission(ctx, id)
}
