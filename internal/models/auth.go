package models

import "time"

// LoginRequest carries the operator password.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse is returned upon successful authentication.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrorResponse is a simple error shape for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
