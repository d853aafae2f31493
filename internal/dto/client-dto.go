package dto

import "github.com/aarondl/null/v8"

type ClientDTO struct {
	ID      uint64  `json:"id"`
	Name    string  `json:"name"`
	Inn     *string `json:"inn,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Version int     `json:"version"`
}

// UpdateClientDTO требует версию: карточки клиентов защищены оптимистичной
// блокировкой, в отличие от заказов.
type UpdateClientDTO struct {
	Name    null.String `json:"name"`
	Inn     null.String `json:"inn"`
	Email   null.String `json:"email"`
	Phone   null.String `json:"phone"`
	Version int         `json:"version" validate:"min=1"`
}
