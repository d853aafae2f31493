package repositories

import (
	"context"
	"fmt"

	"procurement-system/internal/entities"
	apperrors "procurement-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const rolePermissionTable = "role_permissions"
const rolePermissionFields = "id, role_id, tab_id, can_view, created_at, updated_at"

type RolePermissionRepositoryInterface interface {
	GetRolePermissions(ctx context.Context, limit uint64, offset uint64) ([]entities.RolePermission, uint64, error)
	GetByRoleID(ctx context.Context, roleID uint64) ([]entities.RolePermission, error)
	UpsertInTx(ctx context.Context, tx pgx.Tx, rp entities.RolePermission) (*entities.RolePermission, error)
	DeleteRolePermission(ctx context.Context, id uint64) error
}

type RolePermissionRepository struct {
	storage *pgxpool.Pool
}

func NewRolePermissionRepository(storage *pgxpool.Pool) RolePermissionRepositoryInterface {
	return &RolePermissionRepository{storage: storage}
}

func (r *RolePermissionRepository) GetRolePermissions(ctx context.Context, limit uint64, offset uint64) ([]entities.RolePermission, uint64, error) {
	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", rolePermissionTable)
	if err := r.storage.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета role_permissions: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id LIMIT $1 OFFSET $2`, rolePermissionFields, rolePermissionTable)
	rows, err := r.storage.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка запроса role_permissions: %w", err)
	}
	defer rows.Close()

	var rolePermissions []entities.RolePermission
	for rows.Next() {
		var rp entities.RolePermission
		if err := rows.Scan(
			&rp.ID, &rp.RoleID, &rp.TabID, &rp.CanView, &rp.CreatedAt, &rp.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования role_permission: %w", err)
		}
		rolePermissions = append(rolePermissions, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return rolePermissions, total, nil
}

func (r *RolePermissionRepository) GetByRoleID(ctx context.Context, roleID uint64) ([]entities.RolePermission, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE role_id = $1 ORDER BY tab_id`, rolePermissionFields, rolePermissionTable)
	rows, err := r.storage.Query(ctx, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса прав роли: %w", err)
	}
	defer rows.Close()

	var rolePermissions []entities.RolePermission
	for rows.Next() {
		var rp entities.RolePermission
		if err := rows.Scan(
			&rp.ID, &rp.RoleID, &rp.TabID, &rp.CanView, &rp.CreatedAt, &rp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования права роли: %w", err)
		}
		rolePermissions = append(rolePermissions, rp)
	}
	return rolePermissions, rows.Err()
}

// UpsertInTx держит инвариант "не больше одной строки на (role_id, tab_id)":
// сначала удаляем существующую строку пары, затем вставляем новую. Дубликаты
// не накапливаются даже на схемах без уникального индекса по паре.
func (r *RolePermissionRepository) UpsertInTx(ctx context.Context, tx pgx.Tx, rp entities.RolePermission) (*entities.RolePermission, error) {
	if _, err := tx.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE role_id = $1 AND tab_id = $2`, rolePermissionTable),
		rp.RoleID, rp.TabID,
	); err != nil {
		return nil, fmt.Errorf("ошибка удаления старого права: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (role_id, tab_id, can_view)
		VALUES ($1, $2, $3)
		RETURNING %s`, rolePermissionTable, rolePermissionFields)

	var created entities.RolePermission
	if err := tx.QueryRow(ctx, query, rp.RoleID, rp.TabID, rp.CanView).Scan(
		&created.ID, &created.RoleID, &created.TabID, &created.CanView, &created.CreatedAt, &created.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("ошибка при создании role_permission: %w", err)
	}
	return &created, nil
}

func (r *RolePermissionRepository) DeleteRolePermission(ctx context.Context, id uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", rolePermissionTable)
	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
