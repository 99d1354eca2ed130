package user

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"fieldvoice/internal/app/server/api/http/middleware/auth"
	"fieldvoice/internal/domain/session"
	"fieldvoice/internal/domain/user"
)

type Handler struct {
	service          user.Servicer
	session          session.Servicer
	log              *slog.Logger
	middleware       huma.Middlewares
	authedMiddleware huma.Middlewares
}

func NewHandler(service user.Servicer, session session.Servicer, log *slog.Logger, middleware, authedMiddleware huma.Middlewares) *Handler {
	return &Handler{
		service:          service,
		session:          session,
		log:              log,
		middleware:       middleware,
		authedMiddleware: authedMiddleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.forgotPasswordOp(), h.forgotPassword)
	huma.Register(api, h.verifyOTPOp(), h.verifyOTP)
	huma.Register(api, h.resetPasswordOp(), h.resetPassword)
	huma.Register(api, h.meOp(), h.me)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	userID, err := h.service.Register(ctx, input.Body)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			return nil, huma.Error409Conflict(err.Error())
		case errors.Is(err, user.ErrInvalidInput):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		default:
			h.log.Error("registration failed", "error", err)
			return nil, huma.Error500InternalServerError("registration failed")
		}
	}

	return &registerOutput{
		Body: RegisterResponse{ID: userID, Message: "account created"},
	}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	u, err := h.service.Authenticate(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}

	token, err := h.session.Create(ctx, u.ID)
	if err != nil {
		h.log.Error("failed to create session", "user_id", u.ID, "error", err)
		return nil, huma.Error500InternalServerError("failed to create session")
	}

	return &loginOutput{
		Body: LoginResponse{Token: token, Email: u.Email},
	}, nil
}

func (h *Handler) forgotPassword(ctx context.Context, input *forgotPasswordInput) (*messageOutput, error) {
	if err := h.service.RequestPasswordReset(ctx, input.Body.Email); err != nil {
		h.log.Error("password reset request failed", "error", err)
		return nil, huma.Error500InternalServerError("failed to process reset request")
	}

	// Identical response for known and unknown accounts.
	return &messageOutput{
		Body: MessageResponse{Message: "if the account exists, a reset code has been sent"},
	}, nil
}

func (h *Handler) verifyOTP(ctx context.Context, input *verifyOTPInput) (*verifyOTPOutput, error) {
	resetToken, err := h.service.VerifyOTP(ctx, input.Body.Email, input.Body.OTP)
	if err != nil {
		return nil, huma.Error401Unauthorized("invalid or expired code")
	}

	return &verifyOTPOutput{
		Body: VerifyOTPResponse{ResetToken: resetToken},
	}, nil
}

func (h *Handler) resetPassword(ctx context.Context, input *resetPasswordInput) (*messageOutput, error) {
	err := h.service.ResetPassword(ctx, input.Body.ResetToken, input.Body.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidInput):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		case errors.Is(err, user.ErrInvalidOTP):
			return nil, huma.Error401Unauthorized("invalid or expired reset token")
		default:
			h.log.Error("password reset failed", "error", err)
			return nil, huma.Error500InternalServerError("failed to reset password")
		}
	}

	return &messageOutput{
		Body: MessageResponse{Message: "password updated"},
	}, nil
}

func (h *Handler) me(ctx context.Context, _ *meInput) (*meOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	u, err := h.service.Get(ctx, userID)
	if err != nil {
		return nil, huma.Error404NotFound("account not found")
	}

	return &meOutput{
		Body: MeResponse{Email: u.Email, FullName: u.FullName},
	}, nil
}
