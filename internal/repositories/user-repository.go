package repositories

import (
	"context"
	"errors"
	"fmt"

	"procurement-system/internal/entities"
	apperrors "procurement-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const userSelectFields = `u.id, u.fio, u.login, u.password_hash, u.role_id, r.name, u.is_admin,
	u.created_at, u.updated_at`

type UserRepositoryInterface interface {
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByLogin(ctx context.Context, login string) (*entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func (r *UserRepository) scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	if err := row.Scan(
		&u.ID, &u.Fio, &u.Login, &u.PasswordHash, &u.RoleID, &u.RoleName, &u.IsAdmin,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users u
		LEFT JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`, userSelectFields)

	user, err := r.scanUser(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindUserByLogin(ctx context.Context, login string) (*entities.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users u
		LEFT JOIN roles r ON r.id = u.role_id
		WHERE u.login = $1`, userSelectFields)

	user, err := r.scanUser(r.storage.QueryRow(ctx, query, login))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска пользователя по логину: %w", err)
	}
	return user, nil
}
