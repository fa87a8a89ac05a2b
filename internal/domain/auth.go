package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserInactive         = errors.New("user account is inactive")
	ErrAuthenticationFailed = errors.New("username/password is incorrect")
	ErrRefreshDenied        = errors.New("refresh token rejected")
	ErrPermissionNotFound   = errors.New("permission not found")
	ErrPermissionExists     = errors.New("permission already exists")
)

// Machine codes carried in error responses.
const (
	CodeInputError = "input_error"
	CodeUserExists = "user_exists"
)

// FieldError reports the first policy rule a single input field violated.
type FieldError struct {
	Field   string
	Code    string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func invalidField(field, message string) *FieldError {
	return &FieldError{Field: field, Code: CodeInputError, Message: message}
}

// TokenPair is produced per login; it is never persisted.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenPayload holds the registered claims every issued token carries.
type TokenPayload struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type VerifyStatus int

const (
	StatusFailed VerifyStatus = iota
	StatusSuccess
	StatusExpired
)

func (s VerifyStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusExpired:
		return "expired"
	default:
		return "failed"
	}
}

// VerifyResult is the outcome of a token verification. Payload is set only
// when Status is StatusSuccess.
type VerifyResult struct {
	Status  VerifyStatus
	Message string
	Payload *TokenPayload
}
