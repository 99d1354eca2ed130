package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, email, fullName, passwordHash string) (int, error) {
	args := m.Called(ctx, email, fullName, passwordHash)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) Save(ctx context.Context, userID int, codeHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, codeHash, expiresAt)
	return args.Error(0)
}

func (m *MockOTPRepository) Consume(ctx context.Context, codeHash string) (int, error) {
	args := m.Called(ctx, codeHash)
	return args.Int(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendOTP(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func newServiceForTest() (*Service, *MockRepository, *MockOTPRepository, *MockNotifier) {
	repo := new(MockRepository)
	otps := new(MockOTPRepository)
	notifier := new(MockNotifier)
	svc := NewService(repo, otps, notifier, NewCredentialsValidator(), slog.Default())
	return svc, repo, otps, notifier
}

func TestRegister(t *testing.T) {
	svc, repo, _, _ := newServiceForTest()
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "pm@example.com").Return(User{}, ErrNotFound)
	repo.On("Create", ctx, "pm@example.com", "Ada Lovelace", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("Sup3rSecret")) == nil
	})).Return(1, nil)

	id, err := svc.Register(ctx, RegisterRequest{
		Email:    "pm@example.com",
		Password: "Sup3rSecret",
		FullName: "Ada Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	repo.AssertExpectations(t)
}

func TestRegisterEmailTaken(t *testing.T) {
	svc, repo, _, _ := newServiceForTest()
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "pm@example.com").Return(User{ID: 1}, nil)

	_, err := svc.Register(ctx, RegisterRequest{Email: "pm@example.com", Password: "Sup3rSecret"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterInvalidInput(t *testing.T) {
	svc, repo, _, _ := newServiceForTest()

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "pm@example.com", Password: "weak"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3rSecret"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := User{ID: 1, Email: "pm@example.com", Password: string(hash)}

	tests := []struct {
		name        string
		email       string
		password    string
		repoUser    User
		repoErr     error
		expectedErr error
	}{
		{
			name:     "valid credentials",
			email:    "pm@example.com",
			password: "Sup3rSecret",
			repoUser: stored,
		},
		{
			name:        "wrong password",
			email:       "pm@example.com",
			password:    "wrong",
			repoUser:    stored,
			expectedErr: ErrInvalidAuth,
		},
		{
			name:        "unknown email",
			email:       "other@example.com",
			password:    "Sup3rSecret",
			repoErr:     ErrNotFound,
			expectedErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newServiceForTest()
			ctx := context.Background()
			repo.On("FindByEmail", ctx, tt.email).Return(tt.repoUser, tt.repoErr)

			u, err := svc.Authenticate(ctx, tt.email, tt.password)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, stored.ID, u.ID)
		})
	}
}

func TestAuthenticateMalformedEmail(t *testing.T) {
	svc, repo, _, _ := newServiceForTest()

	_, err := svc.Authenticate(context.Background(), "not-an-email", "Sup3rSecret")
	assert.ErrorIs(t, err, ErrInvalidAuth)
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestRequestPasswordReset(t *testing.T) {
	svc, repo, otps, notifier := newServiceForTest()
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "pm@example.com").Return(User{ID: 1, Email: "pm@example.com"}, nil)

	var savedHash, sentCode string
	otps.On("Save", ctx, 1, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { savedHash = args.String(2) }).
		Return(nil)
	notifier.On("SendOTP", ctx, "pm@example.com", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { sentCode = args.String(2) }).
		Return(nil)

	require.NoError(t, svc.RequestPasswordReset(ctx, "pm@example.com"))

	// Only the hash is stored; the code itself goes to the notifier.
	assert.Len(t, sentCode, otpLength)
	assert.Equal(t, hashCode(sentCode), savedHash)
	assert.NotEqual(t, sentCode, savedHash)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	svc, repo, otps, notifier := newServiceForTest()
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "ghost@example.com").Return(User{}, ErrNotFound)

	// Unknown accounts are reported as success so the endpoint does not
	// leak which emails are registered.
	assert.NoError(t, svc.RequestPasswordReset(ctx, "ghost@example.com"))
	otps.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "SendOTP", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyOTP(t *testing.T) {
	svc, repo, otps, _ := newServiceForTest()
	ctx := context.Background()

	otps.On("Consume", ctx, hashCode("123456")).Return(1, nil)
	repo.On("FindByID", ctx, 1).Return(User{ID: 1, Email: "pm@example.com"}, nil)

	var savedTokenHash string
	otps.On("Save", ctx, 1, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { savedTokenHash = args.String(2) }).
		Return(nil)

	token, err := svc.VerifyOTP(ctx, "pm@example.com", "123456")
	require.NoError(t, err)
	assert.Len(t, token, resetTokenSize*2)
	assert.Equal(t, hashCode(token), savedTokenHash)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	svc, _, otps, _ := newServiceForTest()
	ctx := context.Background()

	otps.On("Consume", ctx, mock.AnythingOfType("string")).Return(0, ErrInvalidOTP)

	_, err := svc.VerifyOTP(ctx, "pm@example.com", "000000")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyOTPEmailMismatch(t *testing.T) {
	svc, repo, otps, _ := newServiceForTest()
	ctx := context.Background()

	otps.On("Consume", ctx, hashCode("123456")).Return(1, nil)
	repo.On("FindByID", ctx, 1).Return(User{ID: 1, Email: "pm@example.com"}, nil)

	_, err := svc.VerifyOTP(ctx, "other@example.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidOTP)
	otps.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword(t *testing.T) {
	svc, repo, otps, _ := newServiceForTest()
	ctx := context.Background()

	otps.On("Consume", ctx, hashCode("reset-token")).Return(1, nil)
	repo.On("UpdatePassword", ctx, 1, mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("N3wPassword")) == nil
	})).Return(nil)

	require.NoError(t, svc.ResetPassword(ctx, "reset-token", "N3wPassword"))
	repo.AssertExpectations(t)
}

func TestResetPasswordWeakPassword(t *testing.T) {
	svc, _, otps, _ := newServiceForTest()

	err := svc.ResetPassword(context.Background(), "reset-token", "weak")
	assert.ErrorIs(t, err, ErrInvalidInput)
	otps.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	svc, repo, otps, _ := newServiceForTest()
	ctx := context.Background()

	otps.On("Consume", ctx, mock.AnythingOfType("string")).Return(0, ErrInvalidOTP)

	err := svc.ResetPassword(ctx, "stale-token", "N3wPassword")
	assert.ErrorIs(t, err, ErrInvalidOTP)
	repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}
