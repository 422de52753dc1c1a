package repository

import (
	"context"

	"gorm.io/gorm"

	"educenter/internal/domain"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// ListByCenter lists employees, optionally only those of one kind.
func (r *EmployeeRepository) ListByCenter(ctx context.Context, centerID int64, kind domain.EmployeeKind) ([]domain.Employee, error) {
	q := r.db.WithContext(ctx).Where("center_id = ?", centerID)
	if kind != "" {
		q = q.Where("kind = ?", string(kind))
	}
	out := make([]domain.Employee, 0)
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ExistingIDs returns the subset of ids that are active employees of the
// center with the given kind.
func (r *EmployeeRepository) ExistingIDs(ctx context.Context, centerID int64, kind domain.EmployeeKind, ids []int64) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	tx := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("center_id = ? AND kind = ? AND is_active = ? AND id IN ?", centerID, string(kind), true, ids).
		Pluck("id", &out)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return out, nil
}
