package catalog

import "educenter/internal/domain"

// ---------- ROOMS ----------

type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required" validate:"required,max=255"`
	Capacity int    `json:"capacity" validate:"gte=0"`
}

// ---------- EMPLOYEES ----------

type CreateEmployeeRequest struct {
	Name  string              `json:"name" binding:"required" validate:"required,max=255"`
	Kind  domain.EmployeeKind `json:"kind" binding:"required" validate:"required,oneof=teacher assistant"`
	Phone string              `json:"phone" validate:"omitempty,e164"`
	Email string              `json:"email" validate:"omitempty,email"`
}
