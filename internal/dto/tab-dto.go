package dto

type TabDTO struct {
	ID        uint64  `json:"id"`
	TabName   string  `json:"tab_name"`
	Path      string  `json:"path"`
	Icon      *string `json:"icon,omitempty"`
	SortOrder int     `json:"sort_order"`
	IsActive  bool    `json:"is_active"`
}

type CreateTabDTO struct {
	TabName   string  `json:"tab_name" validate:"required"`
	Path      string  `json:"path" validate:"required,startswith=/"`
	Icon      *string `json:"icon"`
	SortOrder int     `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

type UpdateTabDTO struct {
	TabName   string  `json:"tab_name" validate:"required"`
	Path      string  `json:"path" validate:"required,startswith=/"`
	Icon      *string `json:"icon"`
	SortOrder int     `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

type TabSortItemDTO struct {
	ID        uint64 `json:"id" validate:"required"`
	SortOrder int    `json:"sort_order"`
}

type ReorderTabsDTO struct {
	Items []TabSortItemDTO `json:"items" validate:"required,min=1,dive"`
}
