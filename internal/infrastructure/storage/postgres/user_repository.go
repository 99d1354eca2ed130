package postgres

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"fieldvoice/internal/domain/user"
)

type UserRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewUserRepository(db *Storage, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
	}
}

func (r *UserRepository) Create(ctx context.Context, email, fullName, passwordHash string) (int, error) {
	var userID int
	err := r.db.Pool().QueryRow(ctx,
		`INSERT INTO users (email, full_name, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		email, fullName, passwordHash).Scan(&userID)
	return userID, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.db.Pool().QueryRow(ctx,
		`SELECT id, email, full_name, password_hash FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.FullName, &u.Password)
	if err != nil {
		return u, user.ErrNotFound
	}

	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (user.User, error) {
	var u user.User
	err := r.db.Pool().QueryRow(ctx,
		`SELECT id, email, full_name, password_hash FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.FullName, &u.Password)
	if err != nil {
		return u, user.ErrNotFound
	}

	return u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	tag, err := r.db.Pool().Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}
