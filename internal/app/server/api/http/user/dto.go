package user

import "fieldvoice/internal/domain/user"

type registerInput struct {
	Body user.RegisterRequest
}

type registerOutput struct {
	Body RegisterResponse
}

type RegisterResponse struct {
	ID      int    `json:"userId"`
	Message string `json:"message"`
}

type loginInput struct {
	Body user.Credentials
}

type loginOutput struct {
	Body LoginResponse
}

type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type forgotPasswordInput struct {
	Body struct {
		Email string `json:"email" validate:"required"`
	}
}

type verifyOTPInput struct {
	Body struct {
		Email string `json:"email" validate:"required"`
		OTP   string `json:"otp" validate:"required"`
	}
}

type verifyOTPOutput struct {
	Body VerifyOTPResponse
}

type VerifyOTPResponse struct {
	ResetToken string `json:"resetToken"`
}

type resetPasswordInput struct {
	Body struct {
		ResetToken  string `json:"resetToken" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required"`
	}
}

type messageOutput struct {
	Body MessageResponse
}

type MessageResponse struct {
	Message string `json:"message"`
}

type meInput struct{}

type meOutput struct {
	Body MeResponse
}

type MeResponse struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}
