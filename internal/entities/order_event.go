package entities

import "time"

// OrderEvent — неизменяемая запись журнала. Никому не принадлежит: ссылается
// по id и переживает жёсткое удаление связанных сущностей.
type OrderEvent struct {
	ID          uint64
	OrderID     uint64
	OrderItemID *uint64
	OfferID     *uint64
	Type        string
	FromStatus  *string
	ToStatus    *string
	Payload     map[string]interface{}
	CreatedBy   uint64
	CreatedAt   time.Time
}

// Типы событий журнала.
const (
	EventOfferSelected     = "offer_selected"
	EventItemStatusChange  = "item_status_change"
	EventOfferStatusChange = "offer_status_change"
	EventOrderStatusChange = "order_status_change"
	EventOrderCreated      = "order_created"
	EventFieldDiff         = "field_diff"
)
