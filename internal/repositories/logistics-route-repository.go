package repositories

import (
	"context"
	"errors"

	"procurement-system/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LogisticsRouteRepositoryInterface interface {
	FindRoute(ctx context.Context, id uint64) (*entities.LogisticsRoute, error)
}

type LogisticsRouteRepository struct {
	storage *pgxpool.Pool
}

func NewLogisticsRouteRepository(storage *pgxpool.Pool) LogisticsRouteRepositoryInterface {
	return &LogisticsRouteRepository{storage: storage}
}

// FindRoute возвращает (nil, nil), если маршрута нет: для ценового движка
// нерезолвящийся маршрут — штатная ситуация, а не ошибка.
func (r *LogisticsRouteRepository) FindRoute(ctx context.Context, id uint64) (*entities.LogisticsRoute, error) {
	query := `SELECT id, name, cost, eta_days, currency FROM logistics_routes WHERE id = $1`

	var route entities.LogisticsRoute
	if err := r.storage.QueryRow(ctx, query, id).Scan(
		&route.ID, &route.Name, &route.Cost, &route.EtaDays, &route.Currency,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}
