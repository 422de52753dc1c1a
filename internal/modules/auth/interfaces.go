package auth

import (
	"context"

	"educenter/internal/domain"
)

// UserRepository is the subset of user storage the auth service needs.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateLoginState(ctx context.Context, u *domain.User) error
}

type TokenIssuer interface {
	GenerateToken(userID, centerID int64, role string) (string, error)
}
