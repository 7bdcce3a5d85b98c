package resumes

import "errors"

var (
	// ErrNotFound means no resume row exists for the given ID.
	ErrNotFound = errors.New("resume not found")
	// ErrForbidden means the resume belongs to a different user.
	ErrForbidden = errors.New("not authorized to access this resume")
	// ErrInvalidInput covers missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")
)
