package tmsapi

import (
	"context"
	"net/http"
)

// Status probes the current session. Idempotent; the server answers for
// anonymous callers too, with IsLoggedIn false.
func (c *Client) Status(ctx context.Context) (SessionInfo, error) {
	var s SessionInfo
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/status", nil, &s); err != nil {
		return SessionInfo{}, err
	}
	if err := s.validate(); err != nil {
		return SessionInfo{}, err
	}
	return s, nil
}

type LoginResult struct {
	Message string `json:"message"`
	User    string `json:"user"`
	IsAdmin bool   `json:"isAdmin"`
}

// Login authenticates and stores the session cookie in the client's jar.
// Wrong credentials come back as *APIError with status 401.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	req := map[string]string{"username": username, "password": password}
	var res LoginResult
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/login", req, &res); err != nil {
		return LoginResult{}, err
	}
	return res, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil)
	return err
}

// SendOTP starts registration. A 409 means the email, phone or username is
// already taken; the server says which in the message.
func (c *Client) SendOTP(ctx context.Context, email, username, phone string) (string, error) {
	req := map[string]string{"email": email, "username": username, "phone": phone}
	var res messageBody
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/send_otp", req, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// VerifyRegister completes registration. The server answers 201 on success;
// anything else fails closed.
func (c *Client) VerifyRegister(ctx context.Context, email, otp, password string) (string, error) {
	req := map[string]string{"email": email, "otp": otp, "password": password}
	var res messageBody
	status, err := c.doJSON(ctx, http.MethodPost, "/api/verify_register", req, &res)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", &APIError{Status: status, Message: res.Message}
	}
	return res.Message, nil
}
