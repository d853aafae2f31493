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

const orderItemTable = "order_items"
const orderItemFields = `id, order_id, line_number, original_part_id, requested_qty, uom,
	status, decision_offer_id, created_at, updated_at`

type OrderItemRepositoryInterface interface {
	FindItem(ctx context.Context, id uint64) (*entities.OrderItem, error)
	FindItemTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.OrderItem, error)
	GetItemsByOrder(ctx context.Context, orderID uint64) ([]entities.OrderItem, error)
	CreateItemInTx(ctx context.Context, tx pgx.Tx, item entities.OrderItem) (uint64, error)
	UpdateItemInTx(ctx context.Context, tx pgx.Tx, id uint64, item entities.OrderItem) error
	DeleteItemInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	SetDecisionInTx(ctx context.Context, tx pgx.Tx, itemID uint64, offerID uint64, status string) error
}

type OrderItemRepository struct {
	storage *pgxpool.Pool
}

func NewOrderItemRepository(storage *pgxpool.Pool) OrderItemRepositoryInterface {
	return &OrderItemRepository{storage: storage}
}

func scanOrderItem(row pgx.Row) (*entities.OrderItem, error) {
	var it entities.OrderItem
	if err := row.Scan(
		&it.ID, &it.OrderID, &it.LineNumber, &it.OriginalPartID, &it.RequestedQty, &it.Uom,
		&it.Status, &it.DecisionOfferID, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *OrderItemRepository) FindItem(ctx context.Context, id uint64) (*entities.OrderItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, orderItemFields, orderItemTable)
	item, err := scanOrderItem(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *OrderItemRepository) FindItemTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.OrderItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, orderItemFields, orderItemTable)
	item, err := scanOrderItem(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *OrderItemRepository) GetItemsByOrder(ctx context.Context, orderID uint64) ([]entities.OrderItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE order_id = $1 ORDER BY line_number`, orderItemFields, orderItemTable)
	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения позиций заказа: %w", err)
	}
	defer rows.Close()

	items := make([]entities.OrderItem, 0)
	for rows.Next() {
		var it entities.OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.LineNumber, &it.OriginalPartID, &it.RequestedQty, &it.Uom,
			&it.Status, &it.DecisionOfferID, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования позиции: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CreateItemInTx сам выдаёт номер строки: следующий за максимальным в заказе.
// COALESCE на пустом заказе даёт 1.
func (r *OrderItemRepository) CreateItemInTx(ctx context.Context, tx pgx.Tx, item entities.OrderItem) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (order_id, line_number, original_part_id, requested_qty, uom, status)
		VALUES ($1,
			(SELECT COALESCE(MAX(line_number), 0) + 1 FROM %s WHERE order_id = $1),
			$2, $3, $4, $5)
		RETURNING id`, orderItemTable, orderItemTable)

	status := item.Status
	if status == "" {
		status = entities.OrderItemStatusOpen
	}

	var id uint64
	if err := tx.QueryRow(ctx, query,
		item.OrderID, item.OriginalPartID, item.RequestedQty, item.Uom, status,
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *OrderItemRepository) UpdateItemInTx(ctx context.Context, tx pgx.Tx, id uint64, item entities.OrderItem) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET original_part_id = $1, requested_qty = $2, uom = $3, status = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5`, orderItemTable)

	result, err := tx.Exec(ctx, query,
		item.OriginalPartID, item.RequestedQty, item.Uom, item.Status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *OrderItemRepository) DeleteItemInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, orderItemTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *OrderItemRepository) SetDecisionInTx(ctx context.Context, tx pgx.Tx, itemID uint64, offerID uint64, status string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET decision_offer_id = $1, status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3`, orderItemTable)

	result, err := tx.Exec(ctx, query, offerID, status, itemID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
