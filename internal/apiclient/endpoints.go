package apiclient

import (
	"context"
	"net/http"
)

// Remote API paths.
const (
	PathLogin         = "/api/auth/login"
	PathRegister      = "/api/auth/register"
	PathSendVerifyOTP = "/api/auth/send-verify-otp"
	PathVerifyAccount = "/api/auth/verify-account"
	PathSendLoginOTP  = "/api/auth/send-login-otp"
	PathOTPLogin      = "/api/auth/otp-login"
	PathSendResetOTP  = "/api/auth/send-reset-otp"
	PathResetPassword = "/api/auth/reset-password"
	PathRefreshToken  = "/api/auth/refresh-token"
	PathGoogle        = "/api/auth/google"
)

func (s *Session) Login(ctx context.Context, email, password string) (*Response, error) {
	return s.Do(ctx, http.MethodPost, PathLogin, LoginRequest{Email: email, Password: password})
}

func (s *Session) Register(ctx context.Context, name, email, password string) (*Response, error) {
	return s.Do(ctx, http.MethodPost, PathRegister, RegisterRequest{Name: name, Email: email, Password: password})
}

func (s *Session) SendVerifyOTP(ctx context.Context, email string) (*Response, error) {
	return s.Do(ctx, http.MethodPost, PathSendVerifyOTP, EmailRequest{Email: email})
}

func (s *Session) VerifyAccount(ctx context.Context, email, otp string) (*Response, error) {
	return s.Do(ctx, http.MethodPost, PathVerifyAccount, OTPRequest{Email: email, OTP: otp})
}

func (s *Session) SendLoginOTP(ctx context.Context, email string) (*Response, error) {
	return s.Do(ctx, http.MethodPost, PathSendLoginOTP, EmailRequest{Email: email})
}

func (s *Session) OTPLogin(ctx context.Context, email, otp string) (*Response, error) {
	return s.Do(ctx, http.MethodPost, PathOTPLogin, OTPRequest{Email: email, OTP: otp})
}

func (s *Session) SendResetOTP(ctx context.Context, email string) (*Response, error) {
	return s.Do(ctx, http.MethodPost, PathSendResetOTP, EmailRequest{Email: email})
}

func (s *Session) ResetPassword(ctx context.Context, email, otp, newPassword string) (*Response, error) {
	return s.Do(ctx, http.MethodPost, PathResetPassword, ResetPasswordRequest{Email: email, OTP: otp, NewPassword: newPassword})
}

// RefreshToken asks the API to renew the current session.
func (s *Session) RefreshToken(ctx context.Context) (*Response, error) {
	return s.Do(ctx, http.MethodGet, PathRefreshToken, nil)
}

// GoogleLoginURL is where the browser is sent for third-party login.
func (c *Client) GoogleLoginURL() string {
	return c.URL(PathGoogle)
}
