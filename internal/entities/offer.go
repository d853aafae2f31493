package entities

import "time"

// Offer — ценовое предложение поставщика на одну строку заказа.
// Производные поля (ClientPrice, EtaDaysEffective) пересчитываются из входных,
// но явно присланное клиентом значение ClientPrice всегда побеждает формулу.
type Offer struct {
	ID                 uint64
	OrderItemID        uint64
	SupplierID         *uint64
	SupplierName       *string
	SupplierPartID     *uint64
	SupplierPublicCode *string
	SupplierPrice      *float64
	SupplierCurrency   *string
	FxRate             *float64
	LogisticsCost      *float64
	LogisticsRouteID   *uint64
	LeadTimeDays       *int
	EtaDaysEffective   *int
	MarkupPct          *float64
	MarkupAbs          *float64
	ClientPrice        *float64
	ClientCurrency     *string
	Status             string
	ClientVisible      bool
	CreatedByUserID    uint64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Статусы оффера — свободная прогрессия, закрытым перечислением не является.
const (
	OfferStatusDraft    = "draft"
	OfferStatusProposed = "proposed"
	OfferStatusApproved = "approved"
	OfferStatusRejected = "rejected"
)

// LogisticsRoute — справочник маршрутов: фиксированная стоимость и срок.
type LogisticsRoute struct {
	ID       uint64
	Name     string
	Cost     *float64
	EtaDays  *int
	Currency *string
}
