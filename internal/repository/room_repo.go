package repository

import (
	"context"

	"gorm.io/gorm"

	"educenter/internal/domain"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *RoomRepository) ListByCenter(ctx context.Context, centerID int64) ([]domain.Room, error) {
	out := make([]domain.Room, 0)
	tx := r.db.WithContext(ctx).
		Where("center_id = ?", centerID).
		Order("name ASC").
		Find(&out)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return out, nil
}

// ExistingIDs returns the subset of ids that are active rooms of the center.
func (r *RoomRepository) ExistingIDs(ctx context.Context, centerID int64, ids []int64) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	tx := r.db.WithContext(ctx).
		Model(&domain.Room{}).
		Where("center_id = ? AND is_active = ? AND id IN ?", centerID, true, ids).
		Pluck("id", &out)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return out, nil
}
