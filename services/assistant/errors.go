package assistant

import "errors"

var (
	ErrSessionNotFound  = errors.New("assistant session not found")
	ErrSessionForbidden = errors.New("assistant session belongs to another user")
	ErrEmptyMessage     = errors.New("message must not be empty")
)
