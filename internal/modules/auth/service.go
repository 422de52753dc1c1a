package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"educenter/internal/domain"
	"educenter/internal/logger"
	"educenter/internal/pkg/validator"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

type Service struct {
	users UserRepository
	jwt   TokenIssuer
	now   func() time.Time
}

func NewService(users UserRepository, jwt TokenIssuer) *Service {
	return &Service{users: users, jwt: jwt, now: time.Now}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		// An expired lockout starts a fresh count.
		if user.LockedUntil != nil {
			user.FailedLoginAttempts = 0
			user.LockedUntil = nil
		}
		user.FailedLoginAttempts++
		locked := user.FailedLoginAttempts >= maxFailedLoginAttempts
		if locked {
			until := now.Add(lockoutDuration).UTC()
			user.LockedUntil = &until
		}
		if updateErr := s.users.UpdateLoginState(ctx, user); updateErr != nil {
			return nil, updateErr
		}
		if locked {
			logger.WithContext(ctx).Warn("account locked after failed logins", "user_id", user.ID)
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
		if err := s.users.UpdateLoginState(ctx, user); err != nil {
			return nil, err
		}
	}

	token, err := s.jwt.GenerateToken(user.ID, user.CenterID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: toPublic(user), AccessToken: token}, nil
}

// Register creates a staff account in the admin's own center.
func (s *Service) Register(ctx context.Context, actor domain.Actor, req RegisterRequest) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if errs := validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, validator.Format(errs))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		CenterID:     actor.CenterID,
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		Name:         strings.TrimSpace(req.Name),
		Phone:        req.Phone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("user registered", "new_user_id", u.ID, "role", u.Role)
	u.PasswordHash = ""
	return u, nil
}

func (s *Service) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if u.CenterID != actor.CenterID {
		return nil, ErrUnauthorized
	}
	return u, nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
