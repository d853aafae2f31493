package entities

import "time"

// Client — карточка клиента. Version — счётчик оптимистичной блокировки:
// клиентов правят из карточки, конкурентное редактирование должно давать 409,
// а не молча затирать чужие изменения.
type Client struct {
	ID        uint64
	Name      string
	Inn       *string
	Email     *string
	Phone     *string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}
