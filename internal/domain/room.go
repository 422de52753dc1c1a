package domain

import "time"

type Room struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	CenterID  int64     `json:"center_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"size:255;not null" validate:"required"`
	Capacity  int       `json:"capacity" validate:"gte=0"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Room) TableName() string { return "rooms" }
