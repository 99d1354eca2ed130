package postgres

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

type OTPRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewOTPRepository(db *Storage, log *slog.Logger) *OTPRepository {
	return &OTPRepository{
		db:  db,
		log: log,
	}
}

func (r *OTPRepository) Save(ctx context.Context, userID int, codeHash string, expiresAt time.Time) error {
	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO password_resets (user_id, code_hash, expires_at)
         VALUES ($1, decode($2, 'hex'), $3)`,
		userID, codeHash, expiresAt)
	return err
}

// Consume deletes the matching unexpired code and returns its owner. A
// code can only be consumed once.
func (r *OTPRepository) Consume(ctx context.Context, codeHash string) (int, error) {
	var userID int
	err := r.db.Pool().QueryRow(ctx,
		`DELETE FROM password_resets
         WHERE code_hash = decode($1, 'hex') AND expires_at > NOW()
         RETURNING user_id`,
		codeHash).Scan(&userID)

	if err != nil {
		return 0, fmt.Errorf("invalid code")
	}
	return userID, nil
}
