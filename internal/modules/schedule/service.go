package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"educenter/internal/database"
	"educenter/internal/domain"
	"educenter/internal/logger"
	"educenter/internal/metrics"
	"educenter/internal/pkg/validator"
)

const (
	EventSessionCreated = "session.created"
	EventSessionUpdated = "session.updated"
	EventSessionDeleted = "session.deleted"
)

type Service struct {
	sessions    SessionRepository
	resources   ResourceResolver
	events      EventPublisher
	defaultZone *time.Location
}

func NewService(sessions SessionRepository, resources ResourceResolver, events EventPublisher, defaultZone *time.Location) *Service {
	if defaultZone == nil {
		defaultZone = time.UTC
	}
	return &Service{
		sessions:    sessions,
		resources:   resources,
		events:      events,
		defaultZone: defaultZone,
	}
}

// batch is a request resolved to absolute instants and expanded to bookings.
type batch struct {
	loc      *time.Location
	sessions []*domain.ClassSession
	bookings []domain.Booking
	dates    []string
}

func (s *Service) prepare(ctx context.Context, actor domain.Actor, zone string, inputs []SessionInput, id int64) (*batch, error) {
	loc, err := LoadZone(zone, s.defaultZone)
	if err != nil {
		return nil, err
	}

	b := &batch{loc: loc}
	seenDates := make(map[string]bool)
	var refs []domain.ResourceRef

	for i, in := range inputs {
		start, end, err := ResolveRange(in.Date, in.StartTime, in.EndTime, loc)
		if err != nil {
			return nil, fmt.Errorf("session %d: %w", i+1, err)
		}
		sess := &domain.ClassSession{
			ID:          id,
			CenterID:    actor.CenterID,
			ClassName:   strings.TrimSpace(in.ClassName),
			SessionDate: in.Date,
			StartAt:     start,
			EndAt:       end,
			Timezone:    loc.String(),
			TeacherID:   in.TeacherID,
			AssistantID: in.AssistantID,
			RoomID:      in.RoomID,
			Notes:       in.Notes,
			CreatedBy:   actor.UserID,
		}
		b.sessions = append(b.sessions, sess)
		b.bookings = append(b.bookings, sess.Bookings(i)...)

		if !seenDates[in.Date] {
			seenDates[in.Date] = true
			b.dates = append(b.dates, in.Date)
		}
		refs = append(refs, domain.ResourceRef{Role: domain.RoleTeacherSlot, ID: in.TeacherID})
		if in.AssistantID != nil {
			refs = append(refs, domain.ResourceRef{Role: domain.RoleAssistantSlot, ID: *in.AssistantID})
		}
		if in.RoomID != nil {
			refs = append(refs, domain.ResourceRef{Role: domain.RoleRoomSlot, ID: *in.RoomID})
		}
	}
	sort.Strings(b.dates)

	missing, err := s.resources.ResolveResources(ctx, actor.CenterID, refs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, fmt.Sprintf("%s %d", m.Role, m.ID))
		}
		return nil, invalidf("unknown resources: %s", strings.Join(names, ", "))
	}
	return b, nil
}

// guard runs the detector against stored sessions and turns a positive
// result into a *ConflictError.
func (b *batch) guard(existing []domain.ClassSession) error {
	stored := make([]domain.Booking, 0, len(existing)*3)
	for _, e := range existing {
		stored = append(stored, e.Bookings(-1)...)
	}
	res, err := CheckConflicts(b.bookings, stored)
	if err != nil {
		return err
	}
	if res.HasConflict() {
		for _, c := range res.Conflicts {
			metrics.ScheduleConflicts.WithLabelValues(string(c.Role)).Inc()
		}
		return &ConflictError{Result: res, Location: b.loc}
	}
	return nil
}

func (s *Service) CreateSessions(ctx context.Context, actor domain.Actor, req CreateSessionsRequest) ([]domain.ClassSession, error) {
	if !actor.CanManage() {
		return nil, ErrForbidden
	}
	if errs := validator.Validate(req); errs != nil {
		return nil, invalidf("%s", validator.Format(errs))
	}

	b, err := s.prepare(ctx, actor, req.Timezone, req.Sessions, 0)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.CreateBatch(ctx, actor.CenterID, b.sessions, b.guard); err != nil {
		return nil, translateWriteError(err)
	}

	metrics.SessionsCreated.Add(float64(len(b.sessions)))
	logger.WithContext(ctx).Info("sessions created", "count", len(b.sessions), "dates", b.dates)

	out := make([]domain.ClassSession, 0, len(b.sessions))
	for _, sess := range b.sessions {
		out = append(out, *sess)
		s.publish(actor.CenterID, EventSessionCreated, *sess)
	}
	return out, nil
}

// CheckSessions runs the full create pipeline without writing.
func (s *Service) CheckSessions(ctx context.Context, actor domain.Actor, req CreateSessionsRequest) (*CheckResponse, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, invalidf("%s", validator.Format(errs))
	}

	b, err := s.prepare(ctx, actor, req.Timezone, req.Sessions, 0)
	if err != nil {
		return nil, err
	}

	existing, err := s.sessions.ListByDates(ctx, actor.CenterID, b.dates)
	if err != nil {
		return nil, err
	}

	err = b.guard(existing)
	var cerr *ConflictError
	switch {
	case err == nil:
		return &CheckResponse{OK: true, Conflicts: []ConflictView{}}, nil
	case errors.As(err, &cerr):
		return &CheckResponse{OK: false, Conflicts: viewConflicts(cerr.Result, b.loc)}, nil
	default:
		return nil, err
	}
}

func (s *Service) UpdateSession(ctx context.Context, actor domain.Actor, id int64, req UpdateSessionRequest) (*domain.ClassSession, error) {
	if !actor.CanManage() {
		return nil, ErrForbidden
	}
	if errs := validator.Validate(req); errs != nil {
		return nil, invalidf("%s", validator.Format(errs))
	}

	current, err := s.GetSession(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	b, err := s.prepare(ctx, actor, req.Timezone, []SessionInput{req.SessionInput}, id)
	if err != nil {
		return nil, err
	}

	sess := b.sessions[0]
	sess.CreatedBy = current.CreatedBy
	sess.CreatedAt = current.CreatedAt

	if err := s.sessions.Update(ctx, sess, b.guard); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, translateWriteError(err)
	}

	s.publish(actor.CenterID, EventSessionUpdated, *sess)
	return sess, nil
}

func (s *Service) DeleteSession(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.CanManage() {
		return ErrForbidden
	}
	if err := s.sessions.Delete(ctx, actor.CenterID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.publish(actor.CenterID, EventSessionDeleted, map[string]int64{"id": id})
	return nil
}

func (s *Service) GetSession(ctx context.Context, actor domain.Actor, id int64) (*domain.ClassSession, error) {
	sess, err := s.sessions.GetByID(ctx, actor.CenterID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

func (s *Service) ListSessions(ctx context.Context, actor domain.Actor, q ListSessionsQuery) ([]domain.ClassSession, error) {
	for _, d := range []string{q.From, q.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(domain.DateLayout, d); err != nil {
			return nil, invalidf("date %q is not YYYY-MM-DD", d)
		}
	}
	if q.From != "" && q.To != "" && q.From > q.To {
		return nil, invalidf("from %s is after to %s", q.From, q.To)
	}
	return s.sessions.List(ctx, actor.CenterID, q.From, q.To, q.TeacherID, q.RoomID)
}

func (s *Service) publish(centerID int64, eventType string, payload any) {
	if s.events == nil {
		return
	}
	s.events.Publish(centerID, eventType, payload)
}

// translateWriteError maps database constraint violations raised by a
// concurrent writer to ErrOverbooking.
func translateWriteError(err error) error {
	var cerr *ConflictError
	if errors.As(err, &cerr) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case database.ConstraintTeacherOverlap, database.ConstraintAssistantOverlap, database.ConstraintRoomOverlap:
			return fmt.Errorf("%w: %s", ErrOverbooking, pgErr.ConstraintName)
		}
		if pgErr.Code == pgExclusionViolation {
			return ErrOverbooking
		}
	}
	return err
}

const pgExclusionViolation = "23P01"
