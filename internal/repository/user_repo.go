package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"educenter/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID                  int64      `gorm:"column:id;primaryKey"`
	CenterID            int64      `gorm:"column:center_id"`
	Email               string     `gorm:"column:email"`
	PasswordHash        string     `gorm:"column:password_hash"`
	Role                string     `gorm:"column:role"`
	Name                string     `gorm:"column:name"`
	Phone               *string    `gorm:"column:phone"`
	FailedLoginAttempts int        `gorm:"column:failed_login_attempts"`
	LockedUntil         *time.Time `gorm:"column:locked_until"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var phone string
	if m.Phone != nil {
		phone = *m.Phone
	}

	return &domain.User{
		ID:                  m.ID,
		CenterID:            m.CenterID,
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		Role:                domain.UserRole(m.Role),
		Name:                m.Name,
		Phone:               phone,
		FailedLoginAttempts: m.FailedLoginAttempts,
		LockedUntil:         m.LockedUntil,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	email := strings.TrimSpace(strings.ToLower(u.Email))

	var phone *string
	if u.Phone != "" {
		v := u.Phone
		phone = &v
	}

	return userModel{
		ID:                  u.ID,
		CenterID:            u.CenterID,
		Email:               email,
		PasswordHash:        u.PasswordHash,
		Role:                string(u.Role),
		Name:                u.Name,
		Phone:               phone,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LockedUntil:         u.LockedUntil,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count)
	if tx.Error != nil {
		return false, tx.Error
	}
	return count > 0, nil
}

// UpdateLoginState persists the lockout counters only.
func (r *UserRepository) UpdateLoginState(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"failed_login_attempts": u.FailedLoginAttempts,
			"locked_until":          u.LockedUntil,
			"updated_at":            time.Now().UTC(),
		}).Error
}
