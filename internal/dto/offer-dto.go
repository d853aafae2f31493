package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"procurement-system/internal/entities"
)

type OfferDTO struct {
	ID                 uint64   `json:"id"`
	OrderItemID        uint64   `json:"order_item_id"`
	SupplierID         *uint64  `json:"supplier_id"`
	SupplierName       *string  `json:"supplier_name"`
	SupplierPartID     *uint64  `json:"supplier_part_id,omitempty"`
	SupplierPublicCode *string  `json:"supplier_public_code,omitempty"`
	SupplierPrice      *float64 `json:"supplier_price,omitempty"`
	SupplierCurrency   *string  `json:"supplier_currency,omitempty"`
	FxRate             *float64 `json:"fx_rate,omitempty"`
	LogisticsCost      *float64 `json:"logistics_cost,omitempty"`
	LogisticsRouteID   *uint64  `json:"logistics_route_id,omitempty"`
	LeadTimeDays       *int     `json:"lead_time_days,omitempty"`
	EtaDaysEffective   *int     `json:"eta_days_effective,omitempty"`
	MarkupPct          *float64 `json:"markup_pct,omitempty"`
	MarkupAbs          *float64 `json:"markup_abs,omitempty"`
	ClientPrice        *float64 `json:"client_price"`
	ClientCurrency     *string  `json:"client_currency,omitempty"`
	Status             string   `json:"status"`
	ClientVisible      bool     `json:"client_visible"`
	CreatedAt          string   `json:"created_at"`
}

// CreateOfferDTO / UpdateOfferDTO: денежные поля принимаем как FlexFloat —
// фронт исторически шлёт и числа, и строки с запятой. Отличие "поле не
// прислано" от "прислан null" для client_price не важно: и то и другое
// означает "посчитай по формуле", явное число — "зафиксируй как есть".
type CreateOfferDTO struct {
	SupplierID         null.Uint64 `json:"supplier_id"`
	SupplierPartID     null.Uint64 `json:"supplier_part_id"`
	SupplierPublicCode null.String `json:"supplier_public_code"`
	SupplierPrice      FlexFloat   `json:"supplier_price"`
	SupplierCurrency   null.String `json:"supplier_currency"`
	FxRate             FlexFloat   `json:"fx_rate"`
	LogisticsCost      FlexFloat   `json:"logistics_cost"`
	LogisticsRouteID   null.Uint64 `json:"logistics_route_id"`
	LeadTimeDays       null.Int    `json:"lead_time_days"`
	MarkupPct          FlexFloat   `json:"markup_pct"`
	MarkupAbs          FlexFloat   `json:"markup_abs"`
	ClientPrice        FlexFloat   `json:"client_price"`
	ClientCurrency     null.String `json:"client_currency"`
	Status             null.String `json:"status"`
	ClientVisible      null.Bool   `json:"client_visible"`
}

type UpdateOfferDTO struct {
	SupplierID         null.Uint64 `json:"supplier_id"`
	SupplierPartID     null.Uint64 `json:"supplier_part_id"`
	SupplierPublicCode null.String `json:"supplier_public_code"`
	SupplierPrice      FlexFloat   `json:"supplier_price"`
	SupplierCurrency   null.String `json:"supplier_currency"`
	FxRate             FlexFloat   `json:"fx_rate"`
	LogisticsCost      FlexFloat   `json:"logistics_cost"`
	LogisticsRouteID   null.Uint64 `json:"logistics_route_id"`
	LeadTimeDays       null.Int    `json:"lead_time_days"`
	MarkupPct          FlexFloat   `json:"markup_pct"`
	MarkupAbs          FlexFloat   `json:"markup_abs"`
	ClientPrice        FlexFloat   `json:"client_price"`
	ClientCurrency     null.String `json:"client_currency"`
	Status             null.String `json:"status"`
	ClientVisible      null.Bool   `json:"client_visible"`
}

func OfferToDTO(o entities.Offer) OfferDTO {
	return OfferDTO{
		ID:                 o.ID,
		OrderItemID:        o.OrderItemID,
		SupplierID:         o.SupplierID,
		SupplierName:       o.SupplierName,
		SupplierPartID:     o.SupplierPartID,
		SupplierPublicCode: o.SupplierPublicCode,
		SupplierPrice:      o.SupplierPrice,
		SupplierCurrency:   o.SupplierCurrency,
		FxRate:             o.FxRate,
		LogisticsCost:      o.LogisticsCost,
		LogisticsRouteID:   o.LogisticsRouteID,
		LeadTimeDays:       o.LeadTimeDays,
		EtaDaysEffective:   o.EtaDaysEffective,
		MarkupPct:          o.MarkupPct,
		MarkupAbs:          o.MarkupAbs,
		ClientPrice:        o.ClientPrice,
		ClientCurrency:     o.ClientCurrency,
		Status:             o.Status,
		ClientVisible:      o.ClientVisible,
		CreatedAt:          o.CreatedAt.Format(time.RFC3339),
	}
}
