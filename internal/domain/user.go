package domain

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleStaff   UserRole = "staff"
	RoleTeacher UserRole = "teacher"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleTeacher:
		return true
	}
	return false
}

// Center is a tenant. Every other row belongs to exactly one center.
type Center struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Timezone  string    `json:"timezone" gorm:"size:64;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Center) TableName() string { return "centers" }

type User struct {
	ID                  int64      `json:"id" gorm:"primaryKey"`
	CenterID            int64      `json:"center_id" gorm:"not null;index"`
	Email               string     `json:"email" gorm:"size:255;not null;uniqueIndex" validate:"required,email"`
	PasswordHash        string     `json:"-" gorm:"not null"`
	Role                UserRole   `json:"role" gorm:"size:16;not null"`
	Name                string     `json:"name" gorm:"size:255"`
	Phone               string     `json:"phone,omitempty" gorm:"size:32"`
	FailedLoginAttempts int        `json:"-" gorm:"not null;default:0"`
	LockedUntil         *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }
