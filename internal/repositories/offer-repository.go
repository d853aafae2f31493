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

const offerTable = "offers"

// supplier_name подтягивается из suppliers ради маскирования на чтении;
// в самой таблице offers его нет.
const offerSelectFields = `o.id, o.order_item_id, o.supplier_id, s.name, o.supplier_part_id,
	o.supplier_public_code, o.supplier_price, o.supplier_currency, o.fx_rate,
	o.logistics_cost, o.logistics_route_id, o.lead_time_days, o.eta_days_effective,
	o.markup_pct, o.markup_abs, o.client_price, o.client_currency,
	o.status, o.client_visible, o.created_by_user_id, o.created_at, o.updated_at`

type OfferRepositoryInterface interface {
	FindOffer(ctx context.Context, id uint64) (*entities.Offer, error)
	FindOfferTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Offer, error)
	GetOffersByItem(ctx context.Context, itemID uint64) ([]entities.Offer, error)
	GetOffersByOrder(ctx context.Context, orderID uint64) ([]entities.Offer, error)
	CreateOfferInTx(ctx context.Context, tx pgx.Tx, offer entities.Offer) (uint64, error)
	UpdateOfferInTx(ctx context.Context, tx pgx.Tx, id uint64, offer entities.Offer) error
	SetClientVisibleInTx(ctx context.Context, tx pgx.Tx, id uint64, visible bool) error
	DeleteOfferInTx(ctx context.Context, tx pgx.Tx, id uint64) error
}

type OfferRepository struct {
	storage *pgxpool.Pool
}

func NewOfferRepository(storage *pgxpool.Pool) OfferRepositoryInterface {
	return &OfferRepository{storage: storage}
}

func scanOffer(row pgx.Row) (*entities.Offer, error) {
	var o entities.Offer
	if err := row.Scan(
		&o.ID, &o.OrderItemID, &o.SupplierID, &o.SupplierName, &o.SupplierPartID,
		&o.SupplierPublicCode, &o.SupplierPrice, &o.SupplierCurrency, &o.FxRate,
		&o.LogisticsCost, &o.LogisticsRouteID, &o.LeadTimeDays, &o.EtaDaysEffective,
		&o.MarkupPct, &o.MarkupAbs, &o.ClientPrice, &o.ClientCurrency,
		&o.Status, &o.ClientVisible, &o.CreatedByUserID, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func offerSelectQuery(where string) string {
	return fmt.Sprintf(`
		SELECT %s
		FROM %s o
		LEFT JOIN suppliers s ON s.id = o.supplier_id
		%s`, offerSelectFields, offerTable, where)
}

func (r *OfferRepository) FindOffer(ctx context.Context, id uint64) (*entities.Offer, error) {
	offer, err := scanOffer(r.storage.QueryRow(ctx, offerSelectQuery("WHERE o.id = $1"), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return offer, nil
}

func (r *OfferRepository) FindOfferTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Offer, error) {
	offer, err := scanOffer(tx.QueryRow(ctx, offerSelectQuery("WHERE o.id = $1"), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return offer, nil
}

func (r *OfferRepository) getOffers(ctx context.Context, where string, arg interface{}) ([]entities.Offer, error) {
	rows, err := r.storage.Query(ctx, offerSelectQuery(where), arg)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения офферов: %w", err)
	}
	defer rows.Close()

	offers := make([]entities.Offer, 0)
	for rows.Next() {
		var o entities.Offer
		if err := rows.Scan(
			&o.ID, &o.OrderItemID, &o.SupplierID, &o.SupplierName, &o.SupplierPartID,
			&o.SupplierPublicCode, &o.SupplierPrice, &o.SupplierCurrency, &o.FxRate,
			&o.LogisticsCost, &o.LogisticsRouteID, &o.LeadTimeDays, &o.EtaDaysEffective,
			&o.MarkupPct, &o.MarkupAbs, &o.ClientPrice, &o.ClientCurrency,
			&o.Status, &o.ClientVisible, &o.CreatedByUserID, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования оффера: %w", err)
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *OfferRepository) GetOffersByItem(ctx context.Context, itemID uint64) ([]entities.Offer, error) {
	return r.getOffers(ctx, "WHERE o.order_item_id = $1 ORDER BY o.id", itemID)
}

func (r *OfferRepository) GetOffersByOrder(ctx context.Context, orderID uint64) ([]entities.Offer, error) {
	return r.getOffers(ctx, `WHERE o.order_item_id IN (SELECT id FROM order_items WHERE order_id = $1)
		ORDER BY o.order_item_id, o.id`, orderID)
}

func (r *OfferRepository) CreateOfferInTx(ctx context.Context, tx pgx.Tx, offer entities.Offer) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (order_item_id, supplier_id, supplier_part_id, supplier_public_code,
			supplier_price, supplier_currency, fx_rate, logistics_cost, logistics_route_id,
			lead_time_days, eta_days_effective, markup_pct, markup_abs,
			client_price, client_currency, status, client_visible, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id`, offerTable)

	var id uint64
	if err := tx.QueryRow(ctx, query,
		offer.OrderItemID, offer.SupplierID, offer.SupplierPartID, offer.SupplierPublicCode,
		offer.SupplierPrice, offer.SupplierCurrency, offer.FxRate, offer.LogisticsCost, offer.LogisticsRouteID,
		offer.LeadTimeDays, offer.EtaDaysEffective, offer.MarkupPct, offer.MarkupAbs,
		offer.ClientPrice, offer.ClientCurrency, offer.Status, offer.ClientVisible, offer.CreatedByUserID,
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *OfferRepository) UpdateOfferInTx(ctx context.Context, tx pgx.Tx, id uint64, offer entities.Offer) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET supplier_id = $1, supplier_part_id = $2, supplier_public_code = $3,
			supplier_price = $4, supplier_currency = $5, fx_rate = $6,
			logistics_cost = $7, logistics_route_id = $8, lead_time_days = $9,
			eta_days_effective = $10, markup_pct = $11, markup_abs = $12,
			client_price = $13, client_currency = $14, status = $15, client_visible = $16,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $17`, offerTable)

	result, err := tx.Exec(ctx, query,
		offer.SupplierID, offer.SupplierPartID, offer.SupplierPublicCode,
		offer.SupplierPrice, offer.SupplierCurrency, offer.FxRate,
		offer.LogisticsCost, offer.LogisticsRouteID, offer.LeadTimeDays,
		offer.EtaDaysEffective, offer.MarkupPct, offer.MarkupAbs,
		offer.ClientPrice, offer.ClientCurrency, offer.Status, offer.ClientVisible, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *OfferRepository) SetClientVisibleInTx(ctx context.Context, tx pgx.Tx, id uint64, visible bool) error {
	result, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET client_visible = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, offerTable),
		visible, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *OfferRepository) DeleteOfferInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, offerTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
