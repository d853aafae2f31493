package entities

import "time"

type User struct {
	ID           uint64
	Fio          string
	Login        string
	PasswordHash string
	RoleID       *uint64
	RoleName     *string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role struct {
	ID        uint64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
