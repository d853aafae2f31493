package entities

import "time"

// ClientOrder — заказ клиента. Статусы заказов и позиций работают по принципу
// last-write-wins: их правят совместно и в реальном времени, версионирование
// здесь намеренно не используется (в отличие от клиентов, см. Client.Version).
type ClientOrder struct {
	ID                uint64
	OrderNumber       string
	ClientID          uint64
	Status            string
	ResponsibleUserID *uint64
	Currency          string
	Incoterms         *string
	PaymentTerms      *string
	ContactName       *string
	ContactEmail      *string
	ContactPhone      *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

// OrderItem — строка заказа. LineNumber монотонно растёт в пределах заказа.
// DecisionOfferID, если задан, обязан ссылаться на оффер этой же строки.
type OrderItem struct {
	ID              uint64
	OrderID         uint64
	LineNumber      int
	OriginalPartID  uint64
	RequestedQty    float64
	Uom             string
	Status          string
	DecisionOfferID *uint64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Статусы строки заказа. Прямое редактирование статуса допускает любые
// значения; переход фиксируется событием только когда статус реально меняется.
const (
	OrderItemStatusOpen     = "open"
	OrderItemStatusApproved = "approved"
)

const (
	OrderStatusDraft = "draft"
)
