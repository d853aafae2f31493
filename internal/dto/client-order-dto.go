package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"procurement-system/internal/entities"
)

type ClientOrderDTO struct {
	ID                uint64         `json:"id"`
	OrderNumber       string         `json:"order_number"`
	ClientID          uint64         `json:"client_id"`
	Status            string         `json:"status"`
	ResponsibleUserID *uint64        `json:"responsible_user_id,omitempty"`
	Currency          string         `json:"currency"`
	Incoterms         *string        `json:"incoterms,omitempty"`
	PaymentTerms      *string        `json:"payment_terms,omitempty"`
	ContactName       *string        `json:"contact_name,omitempty"`
	ContactEmail      *string        `json:"contact_email,omitempty"`
	ContactPhone      *string        `json:"contact_phone,omitempty"`
	CreatedAt         string         `json:"created_at"`
	Items             []OrderItemDTO `json:"items,omitempty"`
}

type OrderItemDTO struct {
	ID              uint64     `json:"id"`
	OrderID         uint64     `json:"order_id"`
	LineNumber      int        `json:"line_number"`
	OriginalPartID  uint64     `json:"original_part_id"`
	RequestedQty    float64    `json:"requested_qty"`
	Uom             string     `json:"uom"`
	Status          string     `json:"status"`
	DecisionOfferID *uint64    `json:"decision_offer_id,omitempty"`
	Offers          []OfferDTO `json:"offers,omitempty"`
}

type CreateOrderItemDTO struct {
	OriginalPartID uint64  `json:"original_part_id" validate:"required"`
	RequestedQty   float64 `json:"requested_qty" validate:"required,gt=0"`
	Uom            string  `json:"uom" validate:"required"`
}

type CreateClientOrderDTO struct {
	OrderNumber       string               `json:"order_number" validate:"required"`
	ClientID          uint64               `json:"client_id" validate:"required"`
	Status            string               `json:"status"`
	ResponsibleUserID *uint64              `json:"responsible_user_id"`
	Currency          string               `json:"currency" validate:"required,len=3"`
	Incoterms         null.String          `json:"incoterms"`
	PaymentTerms      null.String          `json:"payment_terms"`
	ContactName       null.String          `json:"contact_name"`
	ContactEmail      null.String          `json:"contact_email"`
	ContactPhone      null.String          `json:"contact_phone"`
	Items             []CreateOrderItemDTO `json:"items" validate:"dive"`
}

type UpdateClientOrderDTO struct {
	Status            null.String `json:"status"`
	ResponsibleUserID null.Uint64 `json:"responsible_user_id"`
	Currency          null.String `json:"currency"`
	Incoterms         null.String `json:"incoterms"`
	PaymentTerms      null.String `json:"payment_terms"`
	ContactName       null.String `json:"contact_name"`
	ContactEmail      null.String `json:"contact_email"`
	ContactPhone      null.String `json:"contact_phone"`
}

type UpdateOrderItemDTO struct {
	OriginalPartID null.Uint64 `json:"original_part_id"`
	RequestedQty   FlexFloat   `json:"requested_qty"`
	Uom            null.String `json:"uom"`
	Status         null.String `json:"status"`
}

type DecisionDTO struct {
	OfferID uint64 `json:"offer_id" validate:"required"`
}

func ClientOrderToDTO(o entities.ClientOrder) ClientOrderDTO {
	return ClientOrderDTO{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		ClientID:          o.ClientID,
		Status:            o.Status,
		ResponsibleUserID: o.ResponsibleUserID,
		Currency:          o.Currency,
		Incoterms:         o.Incoterms,
		PaymentTerms:      o.PaymentTerms,
		ContactName:       o.ContactName,
		ContactEmail:      o.ContactEmail,
		ContactPhone:      o.ContactPhone,
		CreatedAt:         o.CreatedAt.Format(time.RFC3339),
	}
}

func OrderItemToDTO(it entities.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:              it.ID,
		OrderID:         it.OrderID,
		LineNumber:      it.LineNumber,
		OriginalPartID:  it.OriginalPartID,
		RequestedQty:    it.RequestedQty,
		Uom:             it.Uom,
		Status:          it.Status,
		DecisionOfferID: it.DecisionOfferID,
	}
}
