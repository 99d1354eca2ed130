package user

import "errors"

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidAuth  = errors.New("invalid credentials")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidOTP   = errors.New("invalid or expired code")
)
