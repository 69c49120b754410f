package service

import "errors"

// Sentinel errors the HTTP layer maps onto status codes.
var (
	ErrInvalidInput       = errors.New("service: invalid input")
	ErrInvalidCredentials = errors.New("service: invalid credentials")
	ErrEmailTaken         = errors.New("service: email already registered")
	ErrUserNotFound       = errors.New("service: user not found")
	ErrUnverified         = errors.New("service: account not verified")
	ErrTokenInvalid       = errors.New("service: identity token invalid")

	ErrBrokerNotConfigured = errors.New("service: broker credentials not configured")
	ErrBrokerNotAuthorized = errors.New("service: broker session not authorized")
	ErrBrokerRejected      = errors.New("service: broker rejected request")
	ErrBrokerUnavailable   = errors.New("service: broker unavailable")
	ErrAuthCodeUsed        = errors.New("service: auth code already used")
)
