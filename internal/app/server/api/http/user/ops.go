package user

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) registerOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-register",
		Method:      http.MethodPost,
		Path:        "/api/auth/register",
		Summary:     "Register a new account",
		Tags:        []string{"auth"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in and receive a session token",
		Tags:        []string{"auth"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) forgotPasswordOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-forgot-password",
		Method:      http.MethodPost,
		Path:        "/api/auth/forgot-password",
		Summary:     "Request a password reset code",
		Tags:        []string{"auth"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) verifyOTPOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-verify-otp",
		Method:      http.MethodPost,
		Path:        "/api/auth/verify-otp",
		Summary:     "Verify a password reset code",
		Tags:        []string{"auth"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) resetPasswordOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-reset-password",
		Method:      http.MethodPost,
		Path:        "/api/auth/reset-password",
		Summary:     "Set a new password with a reset token",
		Tags:        []string{"auth"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) meOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-me",
		Method:      http.MethodGet,
		Path:        "/api/auth/me",
		Summary:     "Return the account bound to the session token",
		Tags:        []string{"auth"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.authedMiddleware,
	}
}
