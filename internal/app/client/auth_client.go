package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"
)

// AuthClient talks to the account backend. Error responses carry a
// "message" field which is surfaced verbatim to the user.
type AuthClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func NewAuthClient(baseURL string, log *slog.Logger) *AuthClient {
	return &AuthClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		log:       log,
		baseURL:   baseURL,
		userAgent: "FieldVoice-Client/1.0",
	}
}

// SetToken sets the bearer token used for authenticated requests.
func (a *AuthClient) SetToken(token string) {
	a.token = token
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type SessionResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type UserInfo struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Login exchanges credentials for a session token.
func (a *AuthClient) Login(ctx context.Context, creds Credentials) (*SessionResponse, error) {
	resp, err := a.doRequest(ctx, http.MethodPost, "/login", creds)
	if err != nil {
		return nil, err
	}

	var session SessionResponse
	if err := a.parseResponse(resp, &session); err != nil {
		return nil, err
	}

	a.SetToken(session.Token)
	return &session, nil
}

// Register creates a new account.
func (a *AuthClient) Register(ctx context.Context, req RegisterRequest) error {
	resp, err := a.doRequest(ctx, http.MethodPost, "/register", req)
	if err != nil {
		return err
	}
	return a.parseResponse(resp, nil)
}

// ForgotPassword asks the backend to send a one-time code to the account
// email.
func (a *AuthClient) ForgotPassword(ctx context.Context, email string) error {
	resp, err := a.doRequest(ctx, http.MethodPost, "/forgot-password", map[string]string{"email": email})
	if err != nil {
		return err
	}
	return a.parseResponse(resp, nil)
}

// VerifyOTP checks a one-time code and returns a short-lived reset token.
func (a *AuthClient) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	resp, err := a.doRequest(ctx, http.MethodPost, "/verify-otp", map[string]string{
		"email": email,
		"otp":   code,
	})
	if err != nil {
		return "", err
	}

	var result struct {
		ResetToken string `json:"resetToken"`
	}
	if err := a.parseResponse(resp, &result); err != nil {
		return "", err
	}
	return result.ResetToken, nil
}

// ResetPassword sets a new password using a reset token from VerifyOTP.
func (a *AuthClient) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	resp, err := a.doRequest(ctx, http.MethodPost, "/reset-password", map[string]string{
		"resetToken":  resetToken,
		"newPassword": newPassword,
	})
	if err != nil {
		return err
	}
	return a.parseResponse(resp, nil)
}

// Me returns the account bound to the current token.
func (a *AuthClient) Me(ctx context.Context) (*UserInfo, error) {
	resp, err := a.doRequest(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return nil, err
	}

	var info UserInfo
	if err := a.parseResponse(resp, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (a *AuthClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", a.userAgent)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	a.log.Debug("sending auth request", "method", method, "url", req.URL.String())

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

func (a *AuthClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	a.log.Debug("auth response received", "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error: %s", errResp.Message)
		}
		return fmt.Errorf("server error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
