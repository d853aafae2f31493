package repositories

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"procurement-system/internal/entities"
	"procurement-system/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

const orderEventTable = "order_events"
const orderEventFields = `id, order_id, order_item_id, offer_id, type, from_status, to_status,
	payload, created_by, created_at`

var allowedOrderEventFilters = map[string]string{
	"type":          "type",
	"order_item_id": "order_item_id",
	"offer_id":      "offer_id",
	"created_by":    "created_by",
}

type OrderEventRepositoryInterface interface {
	Insert(ctx context.Context, q Querier, ev entities.OrderEvent) error
	GetByOrder(ctx context.Context, orderID uint64, filter types.Filter) ([]entities.OrderEvent, uint64, error)
}

type OrderEventRepository struct {
	storage *pgxpool.Pool
}

func NewOrderEventRepository(storage *pgxpool.Pool) OrderEventRepositoryInterface {
	return &OrderEventRepository{storage: storage}
}

// Insert пишет на том Querier, который дали: внутри бизнес-транзакции это её
// же соединение (событие коммитится атомарно с мутацией), снаружи — пул.
func (r *OrderEventRepository) Insert(ctx context.Context, q Querier, ev entities.OrderEvent) error {
	if q == nil {
		q = r.storage
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (order_id, order_item_id, offer_id, type, from_status, to_status, payload, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, orderEventTable)

	_, err := q.Exec(ctx, query,
		ev.OrderID, ev.OrderItemID, ev.OfferID, ev.Type, ev.FromStatus, ev.ToStatus, ev.Payload, ev.CreatedBy)
	return err
}

func (r *OrderEventRepository) GetByOrder(ctx context.Context, orderID uint64, filter types.Filter) ([]entities.OrderEvent, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select(orderEventFields).From(orderEventTable).Where(sq.Eq{"order_id": orderID})
	countBuilder := psql.Select("COUNT(*)").From(orderEventTable).Where(sq.Eq{"order_id": orderID})

	for field, raw := range filter.Filter {
		column, ok := allowedOrderEventFilters[field]
		if !ok {
			continue
		}
		values := strings.Split(fmt.Sprintf("%v", raw), ",")
		base = base.Where(sq.Eq{column: values})
		countBuilder = countBuilder.Where(sq.Eq{column: values})
	}

	base = base.OrderBy("created_at ASC, id ASC").
		Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчета событий: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета событий: %w", err)
	}

	query, args, err := base.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса событий: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения журнала заказа: %w", err)
	}
	defer rows.Close()

	events := make([]entities.OrderEvent, 0)
	for rows.Next() {
		var ev entities.OrderEvent
		if err := rows.Scan(
			&ev.ID, &ev.OrderID, &ev.OrderItemID, &ev.OfferID, &ev.Type,
			&ev.FromStatus, &ev.ToStatus, &ev.Payload, &ev.CreatedBy, &ev.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования события: %w", err)
		}
		events = append(events, ev)
	}
	return events, total, rows.Err()
}
