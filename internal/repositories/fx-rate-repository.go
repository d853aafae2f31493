package repositories

import (
	"context"
	"errors"

	apperrors "procurement-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FxRateRepositoryInterface interface {
	GetRate(ctx context.Context, fromCurrency, toCurrency string) (float64, error)
}

type FxRateRepository struct {
	storage *pgxpool.Pool
}

func NewFxRateRepository(storage *pgxpool.Pool) FxRateRepositoryInterface {
	return &FxRateRepository{storage: storage}
}

func (r *FxRateRepository) GetRate(ctx context.Context, fromCurrency, toCurrency string) (float64, error) {
	if fromCurrency == toCurrency {
		return 1, nil
	}

	query := `
		SELECT rate FROM fx_rates
		WHERE from_currency = $1 AND to_currency = $2
		ORDER BY updated_at DESC
		LIMIT 1`

	var rate float64
	if err := r.storage.QueryRow(ctx, query, fromCurrency, toCurrency).Scan(&rate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, err
	}
	return rate, nil
}
