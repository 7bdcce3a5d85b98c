package applications

import "errors"

var (
	// ErrNotFound means no application row exists for the given ID.
	ErrNotFound = errors.New("application not found")
	// ErrForbidden means the application belongs to a different user.
	ErrForbidden = errors.New("not authorized to access this application")
	// ErrInvalidInput covers missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrResumeNotFound means a referenced resume does not exist or is
	// owned by another user.
	ErrResumeNotFound = errors.New("resume not found or doesn't belong to user")
)
