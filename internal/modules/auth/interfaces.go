package auth

import (
	"context"

	"staybook/internal/domain"
)

// UserRepository holds only the methods the auth service uses.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, email, role string) (string, error)
}
