package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"procurement-system/internal/entities"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const clientOrderTable = "client_orders"
const clientOrderFields = `id, order_number, client_id, status, responsible_user_id, currency,
	incoterms, payment_terms, contact_name, contact_email, contact_phone,
	created_at, updated_at, deleted_at`

// allowedClientOrderFilters — белый список фильтрации (защита от SQL Injection)
var allowedClientOrderFilters = map[string]string{
	"id":                  "id",
	"client_id":           "client_id",
	"status":              "status",
	"currency":            "currency",
	"responsible_user_id": "responsible_user_id",
}

var allowedClientOrderSortFields = map[string]bool{
	"id":           true,
	"order_number": true,
	"status":       true,
	"created_at":   true,
	"updated_at":   true,
}

type ClientOrderRepositoryInterface interface {
	GetClientOrders(ctx context.Context, filter types.Filter) ([]entities.ClientOrder, uint64, error)
	FindClientOrder(ctx context.Context, id uint64) (*entities.ClientOrder, error)
	FindClientOrderTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ClientOrder, error)
	CreateOrderInTx(ctx context.Context, tx pgx.Tx, order entities.ClientOrder) (uint64, error)
	UpdateOrderInTx(ctx context.Context, tx pgx.Tx, id uint64, order entities.ClientOrder) error
	SoftDeleteOrderInTx(ctx context.Context, tx pgx.Tx, id uint64) error
}

type ClientOrderRepository struct {
	storage *pgxpool.Pool
}

func NewClientOrderRepository(storage *pgxpool.Pool) ClientOrderRepositoryInterface {
	return &ClientOrderRepository{storage: storage}
}

func scanClientOrder(row pgx.Row) (*entities.ClientOrder, error) {
	var o entities.ClientOrder
	if err := row.Scan(
		&o.ID, &o.OrderNumber, &o.ClientID, &o.Status, &o.ResponsibleUserID, &o.Currency,
		&o.Incoterms, &o.PaymentTerms, &o.ContactName, &o.ContactEmail, &o.ContactPhone,
		&o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ClientOrderRepository) GetClientOrders(ctx context.Context, filter types.Filter) ([]entities.ClientOrder, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select(clientOrderFields).
		From(clientOrderTable).
		Where(sq.Eq{"deleted_at": nil})

	countBuilder := psql.Select("COUNT(*)").From(clientOrderTable).Where(sq.Eq{"deleted_at": nil})

	for field, raw := range filter.Filter {
		column, ok := allowedClientOrderFilters[field]
		if !ok {
			continue
		}
		values := strings.Split(fmt.Sprintf("%v", raw), ",")
		base = base.Where(sq.Eq{column: values})
		countBuilder = countBuilder.Where(sq.Eq{column: values})
	}

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		cond := sq.Or{
			sq.ILike{"order_number": like},
			sq.ILike{"contact_name": like},
		}
		base = base.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	orderApplied := false
	for field, dir := range filter.Sort {
		if !allowedClientOrderSortFields[field] {
			continue
		}
		base = base.OrderBy(fmt.Sprintf("%s %s", field, strings.ToUpper(dir)))
		orderApplied = true
	}
	if !orderApplied {
		base = base.OrderBy("created_at DESC")
	}

	base = base.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчета заказов: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заказов: %w", err)
	}

	query, args, err := base.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса заказов: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка заказов: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.ClientOrder, 0)
	for rows.Next() {
		var o entities.ClientOrder
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.ClientID, &o.Status, &o.ResponsibleUserID, &o.Currency,
			&o.Incoterms, &o.PaymentTerms, &o.ContactName, &o.ContactEmail, &o.ContactPhone,
			&o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования заказа в списке: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

func (r *ClientOrderRepository) FindClientOrder(ctx context.Context, id uint64) (*entities.ClientOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL`, clientOrderFields, clientOrderTable)
	order, err := scanClientOrder(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// FindClientOrderTx читает заказ на соединении открытой транзакции: второй
// коннект внутри бизнес-операции создавал бы межсоединительные ожидания блокировок.
func (r *ClientOrderRepository) FindClientOrderTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ClientOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL`, clientOrderFields, clientOrderTable)
	order, err := scanClientOrder(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *ClientOrderRepository) CreateOrderInTx(ctx context.Context, tx pgx.Tx, order entities.ClientOrder) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (order_number, client_id, status, responsible_user_id, currency,
			incoterms, payment_terms, contact_name, contact_email, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`, clientOrderTable)

	var id uint64
	if err := tx.QueryRow(ctx, query,
		order.OrderNumber, order.ClientID, order.Status, order.ResponsibleUserID, order.Currency,
		order.Incoterms, order.PaymentTerms, order.ContactName, order.ContactEmail, order.ContactPhone,
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ClientOrderRepository) UpdateOrderInTx(ctx context.Context, tx pgx.Tx, id uint64, order entities.ClientOrder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, responsible_user_id = $2, currency = $3, incoterms = $4,
			payment_terms = $5, contact_name = $6, contact_email = $7, contact_phone = $8,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $9 AND deleted_at IS NULL`, clientOrderTable)

	result, err := tx.Exec(ctx, query,
		order.Status, order.ResponsibleUserID, order.Currency, order.Incoterms,
		order.PaymentTerms, order.ContactName, order.ContactEmail, order.ContactPhone, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDeleteOrderInTx прячет заказ и жёстко удаляет его позиции: жизненный
// цикл позиции привязан к заказу. Офферы остаются для аудита.
func (r *ClientOrderRepository) SoftDeleteOrderInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET deleted_at = CURRENT_TIMESTAMP WHERE id = $1 AND deleted_at IS NULL`, clientOrderTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("ошибка удаления позиций заказа: %w", err)
	}
	return nil
}
