package user

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	MinPasswordLen = 8
	MaxEmailLen    = 254
)

// Validator checks account input before it reaches storage.
type Validator interface {
	ValidateRegister(email, password string) error
	ValidateEmail(email string) error
	ValidatePassword(password string) error
}

type CredentialsValidator struct {
	requireDigit bool
	requireUpper bool
	requireLower bool
}

func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{
		requireDigit: true,
		requireUpper: true,
		requireLower: true,
	}
}

func (v *CredentialsValidator) ValidateRegister(email, password string) error {
	if err := v.ValidateEmail(email); err != nil {
		return fmt.Errorf("email validation failed: %w", err)
	}
	if err := v.ValidatePassword(password); err != nil {
		return fmt.Errorf("password validation failed: %w", err)
	}
	return nil
}

func (v *CredentialsValidator) ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must be at most %d characters", MaxEmailLen)
	}

	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return fmt.Errorf("email must contain a local part and a domain")
	}
	if strings.ContainsAny(email, " \t") {
		return fmt.Errorf("email must not contain whitespace")
	}
	if !strings.Contains(email[at+1:], ".") {
		return fmt.Errorf("email domain is incomplete")
	}
	return nil
}

func (v *CredentialsValidator) ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}

	hasLower := false
	hasUpper := false
	hasDigit := false

	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}

		if hasLower && hasUpper && hasDigit {
			break
		}
	}

	if v.requireLower && !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if v.requireUpper && !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if v.requireDigit && !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}
	return nil
}
