package dto

type RolePermissionDTO struct {
	ID      uint64 `json:"id"`
	RoleID  uint64 `json:"role_id"`
	TabID   uint64 `json:"tab_id"`
	CanView bool   `json:"can_view"`
}

type UpsertRolePermissionDTO struct {
	RoleID  uint64 `json:"role_id" validate:"required"`
	TabID   uint64 `json:"tab_id" validate:"required"`
	CanView bool   `json:"can_view"`
}
