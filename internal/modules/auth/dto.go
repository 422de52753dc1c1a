package auth

import "educenter/internal/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string          `json:"name" binding:"required" validate:"required,min=2"`
	Email    string          `json:"email" binding:"required,email" validate:"required,email"`
	Phone    string          `json:"phone" validate:"omitempty,e164"`
	Password string          `json:"password" binding:"required,min=8" validate:"required,min=8"`
	Role     domain.UserRole `json:"role" binding:"required" validate:"required,oneof=admin staff teacher"`
}

type UserPublic struct {
	ID       int64  `json:"id"`
	CenterID int64  `json:"center_id"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:       u.ID,
		CenterID: u.CenterID,
		Role:     string(u.Role),
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
	}
}

type LoginResult struct {
	User        UserPublic `json:"user"`
	AccessToken string     `json:"token"`
}
