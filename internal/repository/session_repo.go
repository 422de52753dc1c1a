package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"educenter/internal/domain"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) ListByDates(ctx context.Context, centerID int64, dates []string) ([]domain.ClassSession, error) {
	return findByDates(r.db.WithContext(ctx), centerID, dates)
}

// findByDates loads the center's sessions on the given dates. Within a
// transaction the rows are locked so a concurrent writer on the same dates
// waits for the guard to finish.
func findByDates(tx *gorm.DB, centerID int64, dates []string) ([]domain.ClassSession, error) {
	out := make([]domain.ClassSession, 0)
	if len(dates) == 0 {
		return out, nil
	}
	err := tx.
		Where("center_id = ? AND session_date IN ?", centerID, dates).
		Order("start_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func lockByDates(tx *gorm.DB, centerID int64, dates []string) ([]domain.ClassSession, error) {
	return findByDates(tx.Clauses(clause.Locking{Strength: "UPDATE"}), centerID, dates)
}

func sessionDates(sessions []*domain.ClassSession) []string {
	seen := make(map[string]bool, len(sessions))
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		if !seen[s.SessionDate] {
			seen[s.SessionDate] = true
			out = append(out, s.SessionDate)
		}
	}
	sort.Strings(out)
	return out
}

// CreateBatch inserts all sessions or none. guard sees the sessions already
// stored on the batch's dates and can veto the insert.
func (r *SessionRepository) CreateBatch(ctx context.Context, centerID int64, sessions []*domain.ClassSession, guard func([]domain.ClassSession) error) error {
	if len(sessions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := lockByDates(tx, centerID, sessionDates(sessions))
		if err != nil {
			return err
		}
		if err := guard(existing); err != nil {
			return err
		}
		for _, s := range sessions {
			s.CenterID = centerID
		}
		return tx.Create(sessions).Error
	})
}

func (r *SessionRepository) Update(ctx context.Context, s *domain.ClassSession, guard func([]domain.ClassSession) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.ClassSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND center_id = ?", s.ID, s.CenterID).
			First(&current).Error; err != nil {
			return err
		}

		existing, err := lockByDates(tx, s.CenterID, []string{s.SessionDate})
		if err != nil {
			return err
		}
		if err := guard(existing); err != nil {
			return err
		}

		return tx.Model(&domain.ClassSession{}).
			Where("id = ? AND center_id = ?", s.ID, s.CenterID).
			Select("class_name", "session_date", "start_at", "end_at", "timezone",
				"teacher_id", "assistant_id", "room_id", "notes", "updated_at").
			Updates(s).Error
	})
}

func (r *SessionRepository) GetByID(ctx context.Context, centerID, id int64) (*domain.ClassSession, error) {
	var s domain.ClassSession
	if err := r.db.WithContext(ctx).Where("id = ? AND center_id = ?", id, centerID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, centerID, id int64) error {
	tx := r.db.WithContext(ctx).Where("id = ? AND center_id = ?", id, centerID).Delete(&domain.ClassSession{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List filters by inclusive date range and optionally by teacher or room.
// Zero values disable a filter.
func (r *SessionRepository) List(ctx context.Context, centerID int64, from, to string, teacherID, roomID int64) ([]domain.ClassSession, error) {
	q := r.db.WithContext(ctx).Where("center_id = ?", centerID)
	if from != "" {
		q = q.Where("session_date >= ?", from)
	}
	if to != "" {
		q = q.Where("session_date <= ?", to)
	}
	if teacherID > 0 {
		q = q.Where("teacher_id = ?", teacherID)
	}
	if roomID > 0 {
		q = q.Where("room_id = ?", roomID)
	}

	out := make([]domain.ClassSession, 0)
	if err := q.Order("session_date ASC, start_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
