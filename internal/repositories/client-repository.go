package repositories

import (
	"context"
	"errors"
	"fmt"

	"procurement-system/internal/entities"
	apperrors "procurement-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const clientTable = "clients"
const clientFields = "id, name, inn, email, phone, version, created_at, updated_at"

type ClientRepositoryInterface interface {
	FindClient(ctx context.Context, id uint64) (*entities.Client, error)
	UpdateClient(ctx context.Context, id uint64, expectedVersion int, client entities.Client) (*entities.Client, error)
}

type ClientRepository struct {
	storage *pgxpool.Pool
}

func NewClientRepository(storage *pgxpool.Pool) ClientRepositoryInterface {
	return &ClientRepository{storage: storage}
}

func (r *ClientRepository) scanClient(row pgx.Row) (*entities.Client, error) {
	var c entities.Client
	if err := row.Scan(
		&c.ID, &c.Name, &c.Inn, &c.Email, &c.Phone, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) FindClient(ctx context.Context, id uint64) (*entities.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, clientFields, clientTable)
	client, err := r.scanClient(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return client, nil
}

// UpdateClient — оптимистичная блокировка: запись меняется, только если версия
// не ушла вперёд. При расхождении возвращаем 409 с актуальным состоянием
// строки, чтобы клиент мог перечитать и слить изменения.
// Заказы и офферы версий не имеют — это сознательная асимметрия.
func (r *ClientRepository) UpdateClient(ctx context.Context, id uint64, expectedVersion int, client entities.Client) (*entities.Client, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, inn = $2, email = $3, phone = $4,
			version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND version = $6
		RETURNING %s`, clientTable, clientFields)

	updated, err := r.scanClient(r.storage.QueryRow(ctx, query,
		client.Name, client.Inn, client.Email, client.Phone, id, expectedVersion))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ошибка при обновлении клиента: %w", err)
	}

	// Версия не совпала либо клиента нет — различаем по повторному чтению.
	current, findErr := r.FindClient(ctx, id)
	if findErr != nil {
		return nil, findErr
	}
	return nil, apperrors.NewConflictError("карточка клиента изменена другим пользователем", current)
}
