package schedule

import (
	"context"

	"educenter/internal/domain"
)

// SessionRepository persists class sessions. The guard passed to CreateBatch
// and Update runs inside the write transaction against the sessions already
// stored on the affected dates; a non-nil error aborts the write.
type SessionRepository interface {
	ListByDates(ctx context.Context, centerID int64, dates []string) ([]domain.ClassSession, error)
	CreateBatch(ctx context.Context, centerID int64, sessions []*domain.ClassSession, guard func(existing []domain.ClassSession) error) error
	Update(ctx context.Context, s *domain.ClassSession, guard func(existing []domain.ClassSession) error) error
	GetByID(ctx context.Context, centerID, id int64) (*domain.ClassSession, error)
	Delete(ctx context.Context, centerID, id int64) error
	List(ctx context.Context, centerID int64, from, to string, teacherID, roomID int64) ([]domain.ClassSession, error)
}

// ResourceResolver reports which of the referenced resources do not exist in
// the center or have the wrong kind.
type ResourceResolver interface {
	ResolveResources(ctx context.Context, centerID int64, refs []domain.ResourceRef) (missing []domain.ResourceRef, err error)
}

type EventPublisher interface {
	Publish(centerID int64, eventType string, payload any)
}
