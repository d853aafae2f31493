package entities

import "time"

// Tab — единица RBAC-гранулярности: именованный раздел с каноническим путём.
// Путь всегда начинается с "/", в нижнем регистре, без пробелов.
type Tab struct {
	ID        uint64
	TabName   string
	Path      string
	Icon      *string
	SortOrder int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RolePermission — единственная форма гранта: наличие строки с CanView=true.
// Отсутствие строки или CanView=false означает запрет.
type RolePermission struct {
	ID        uint64
	RoleID    uint64
	TabID     uint64
	CanView   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
