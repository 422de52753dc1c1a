package domain

import "time"

// DateLayout is the calendar-date format used for session dates and invoice due dates.
const DateLayout = "2006-01-02"

type ResourceRole string

const (
	RoleTeacherSlot   ResourceRole = "teacher"
	RoleAssistantSlot ResourceRole = "assistant"
	RoleRoomSlot      ResourceRole = "room"
)

func (r ResourceRole) Valid() bool {
	switch r {
	case RoleTeacherSlot, RoleAssistantSlot, RoleRoomSlot:
		return true
	}
	return false
}

// Booking is a time-blocked claim on one resource. It is built per request and
// never stored on its own: a ClassSession row carries up to three of them.
type Booking struct {
	SessionID  int64        `json:"session_id,omitempty"`
	Index      int          `json:"index"`
	Role       ResourceRole `json:"role"`
	ResourceID int64        `json:"resource_id"`
	Date       string       `json:"date"`
	Start      time.Time    `json:"start"`
	End        time.Time    `json:"end"`
}

// ClassSession is a scheduled lesson. AssistantID and RoomID are optional.
type ClassSession struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	CenterID    int64     `json:"center_id" gorm:"not null;index:idx_sessions_center_date"`
	ClassName   string    `json:"class_name" gorm:"size:255;not null"`
	SessionDate string    `json:"session_date" gorm:"size:10;not null;index:idx_sessions_center_date"`
	StartAt     time.Time `json:"start_at" gorm:"not null"`
	EndAt       time.Time `json:"end_at" gorm:"not null"`
	Timezone    string    `json:"timezone" gorm:"size:64;not null"`
	TeacherID   int64     `json:"teacher_id" gorm:"not null;index"`
	AssistantID *int64    `json:"assistant_id,omitempty" gorm:"index"`
	RoomID      *int64    `json:"room_id,omitempty" gorm:"index"`
	Notes       string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ClassSession) TableName() string { return "class_sessions" }

// Bookings expands the session into one booking per assigned resource.
func (s ClassSession) Bookings(index int) []Booking {
	base := Booking{
		SessionID: s.ID,
		Index:     index,
		Date:      s.SessionDate,
		Start:     s.StartAt,
		End:       s.EndAt,
	}

	out := make([]Booking, 0, 3)
	teacher := base
	teacher.Role = RoleTeacherSlot
	teacher.ResourceID = s.TeacherID
	out = append(out, teacher)

	if s.AssistantID != nil {
		b := base
		b.Role = RoleAssistantSlot
		b.ResourceID = *s.AssistantID
		out = append(out, b)
	}
	if s.RoomID != nil {
		b := base
		b.Role = RoleRoomSlot
		b.ResourceID = *s.RoomID
		out = append(out, b)
	}
	return out
}

// ResourceRef names one bookable resource.
type ResourceRef struct {
	Role ResourceRole `json:"role"`
	ID   int64        `json:"id"`
}
