package domain

import "time"

type EmployeeKind string

const (
	EmployeeTeacher   EmployeeKind = "teacher"
	EmployeeAssistant EmployeeKind = "assistant"
)

// Employee is a teacher or teaching assistant that sessions can be booked against.
type Employee struct {
	ID        int64        `json:"id" gorm:"primaryKey"`
	CenterID  int64        `json:"center_id" gorm:"not null;index"`
	Name      string       `json:"name" gorm:"size:255;not null"`
	Kind      EmployeeKind `json:"kind" gorm:"size:16;not null"`
	Phone     string       `json:"phone,omitempty" gorm:"size:32"`
	Email     string       `json:"email,omitempty" gorm:"size:255"`
	IsActive  bool         `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Employee) TableName() string { return "employees" }
