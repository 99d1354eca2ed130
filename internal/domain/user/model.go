package user

import "time"

type User struct {
	ID        int
	Email     string
	FullName  string
	Password  string // bcrypt hash
	CreatedAt time.Time
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName"`
}
