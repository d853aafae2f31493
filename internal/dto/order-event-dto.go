package dto

import (
	"time"

	"procurement-system/internal/entities"
)

type OrderEventDTO struct {
	ID          uint64                 `json:"id"`
	OrderID     uint64                 `json:"order_id"`
	OrderItemID *uint64                `json:"order_item_id,omitempty"`
	OfferID     *uint64                `json:"offer_id,omitempty"`
	Type        string                 `json:"type"`
	FromStatus  *string                `json:"from_status,omitempty"`
	ToStatus    *string                `json:"to_status,omitempty"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	CreatedBy   uint64                 `json:"created_by"`
	CreatedAt   string                 `json:"created_at"`
}

func OrderEventToDTO(ev entities.OrderEvent) OrderEventDTO {
	return OrderEventDTO{
		ID:          ev.ID,
		OrderID:     ev.OrderID,
		OrderItemID: ev.OrderItemID,
		OfferID:     ev.OfferID,
		Type:        ev.Type,
		FromStatus:  ev.FromStatus,
		ToStatus:    ev.ToStatus,
		Payload:     ev.Payload,
		CreatedBy:   ev.CreatedBy,
		CreatedAt:   ev.CreatedAt.Format(time.RFC3339),
	}
}
