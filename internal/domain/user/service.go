package user

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

const (
	otpLength      = 6
	otpTTL         = 10 * time.Minute
	resetTokenTTL  = 15 * time.Minute
	resetTokenSize = 32
)

type Servicer interface {
	Register(ctx context.Context, req RegisterRequest) (int, error)
	Authenticate(ctx context.Context, email, password string) (User, error)
	Get(ctx context.Context, id int) (User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

// Notifier delivers one-time codes to the account owner.
type Notifier interface {
	SendOTP(ctx context.Context, email, code string) error
}

// LogNotifier writes codes to the log instead of sending them. Used in
// local and dev environments where no mail transport is configured.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) SendOTP(_ context.Context, email, code string) error {
	n.Log.Info("password reset code issued", "email", email, "code", code)
	return nil
}

type Service struct {
	repo      Repository
	otps      OTPRepository
	notifier  Notifier
	validator Validator
	log       *slog.Logger
}

func NewService(repo Repository, otps OTPRepository, notifier Notifier, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		otps:      otps,
		notifier:  notifier,
		validator: validator,
		log:       log,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (int, error) {
	if err := s.validator.ValidateRegister(req.Email, req.Password); err != nil {
		s.log.Debug("registration validation failed", "email", req.Email, "error", err)
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return 0, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, req.Email, req.FullName, string(hash))
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	if err := s.validator.ValidateEmail(email); err != nil {
		return User{}, ErrInvalidAuth
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return u, ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return u, ErrInvalidAuth
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id int) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// RequestPasswordReset issues a one-time numeric code for the account and
// hands it to the notifier. An unknown email is reported as success so the
// endpoint does not leak which accounts exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Debug("password reset requested for unknown email", "email", email)
		return nil
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	if err := s.otps.Save(ctx, u.ID, hashCode(code), time.Now().Add(otpTTL)); err != nil {
		return fmt.Errorf("save code: %w", err)
	}

	if err := s.notifier.SendOTP(ctx, email, code); err != nil {
		return fmt.Errorf("send code: %w", err)
	}

	s.log.Info("password reset code sent", "user_id", u.ID)
	return nil
}

// VerifyOTP consumes a one-time code and returns a short-lived reset
// token for the final password change.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	userID, err := s.otps.Consume(ctx, hashCode(code))
	if err != nil {
		return "", ErrInvalidOTP
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil || u.Email != email {
		return "", ErrInvalidOTP
	}

	tokenBytes := make([]byte, resetTokenSize)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)

	if err := s.otps.Save(ctx, userID, hashCode(token), time.Now().Add(resetTokenTTL)); err != nil {
		return "", fmt.Errorf("save reset token: %w", err)
	}

	return token, nil
}

// ResetPassword sets a new password using a reset token from VerifyOTP.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if err := s.validator.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	userID, err := s.otps.Consume(ctx, hashCode(resetToken))
	if err != nil {
		return ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info("password reset completed", "user_id", userID)
	return nil
}

func generateOTP() (string, error) {
	code := ""
	for i := 0; i < otpLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code += n.String()
	}
	return code, nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
