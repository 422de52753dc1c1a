package repository

import (
	"context"

	"gorm.io/gorm"

	"educenter/internal/domain"
)

type CenterRepository struct {
	db *gorm.DB
}

func NewCenterRepository(db *gorm.DB) *CenterRepository {
	return &CenterRepository{db: db}
}

func (r *CenterRepository) Create(ctx context.Context, c *domain.Center) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CenterRepository) GetByID(ctx context.Context, id int64) (*domain.Center, error) {
	var c domain.Center
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CenterRepository) GetByName(ctx context.Context, name string) (*domain.Center, error) {
	var c domain.Center
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
