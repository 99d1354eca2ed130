package user

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, email, fullName, passwordHash string) (int, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id int) (User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
}

// OTPRepository stores hashed one-time password reset codes.
type OTPRepository interface {
	Save(ctx context.Context, userID int, codeHash string, expiresAt time.Time) error
	// Consume returns the user the code belongs to and invalidates it.
	Consume(ctx context.Context, codeHash string) (int, error)
}
