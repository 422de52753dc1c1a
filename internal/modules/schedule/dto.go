package schedule

import (
	"time"

	"educenter/internal/domain"
)

// SessionInput is one session in wall-clock terms. Date, StartTime and EndTime
// are read in the request's time zone.
type SessionInput struct {
	ClassName   string `json:"class_name" binding:"required" validate:"required,max=255"`
	Date        string `json:"date" binding:"required" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" binding:"required" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" binding:"required" validate:"required,datetime=15:04"`
	TeacherID   int64  `json:"teacher_id" binding:"required" validate:"required,gt=0"`
	AssistantID *int64 `json:"assistant_id" validate:"omitempty,gt=0"`
	RoomID      *int64 `json:"room_id" validate:"omitempty,gt=0"`
	Notes       string `json:"notes"`
}

type CreateSessionsRequest struct {
	Timezone string         `json:"timezone"`
	Sessions []SessionInput `json:"sessions" binding:"required,min=1,dive" validate:"required,min=1,max=200,dive"`
}

type UpdateSessionRequest struct {
	Timezone string `json:"timezone"`
	SessionInput
}

type ListSessionsQuery struct {
	From      string `form:"from"`
	To        string `form:"to"`
	TeacherID int64  `form:"teacher_id"`
	RoomID    int64  `form:"room_id"`
}

// CheckResponse is returned by the dry-run endpoint.
type CheckResponse struct {
	OK        bool           `json:"ok"`
	Conflicts []ConflictView `json:"conflicts"`
}

// ConflictView is the wire form of a Conflict, with times rendered in the
// caller's zone.
type ConflictView struct {
	Index             int                 `json:"index"`
	Role              domain.ResourceRole `json:"role"`
	ResourceID        int64               `json:"resource_id"`
	ConflictSessionID int64               `json:"conflict_session_id,omitempty"`
	ConflictIndex     *int                `json:"conflict_index,omitempty"`
	ConflictStart     string              `json:"conflict_start"`
	ConflictEnd       string              `json:"conflict_end"`
	Date              string              `json:"date"`
	Message           string              `json:"message"`
}

func viewConflicts(res ConflictResult, loc *time.Location) []ConflictView {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]ConflictView, 0, len(res.Conflicts))
	for _, c := range res.Conflicts {
		v := ConflictView{
			Index:         c.Proposed.Index,
			Role:          c.Role,
			ResourceID:    c.ResourceID,
			ConflictStart: c.Existing.Start.In(loc).Format(clockLayout),
			ConflictEnd:   c.Existing.End.In(loc).Format(clockLayout),
			Date:          c.Existing.Date,
			Message:       c.Message(loc),
		}
		if c.WithinBatch {
			idx := c.Existing.Index
			v.ConflictIndex = &idx
		} else {
			v.ConflictSessionID = c.Existing.SessionID
		}
		out = append(out, v)
	}
	return out
}
