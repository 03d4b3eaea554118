package errs

import "errors"

// Configuration errors. Every further judge call would fail the same way, so
// these abort a whole grading operation.
var (
	ErrMissingCredentials  = errors.New("judge credentials are not configured")
	ErrInvalidCredentials  = errors.New("judge rejected the configured credentials")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Per-run errors, isolated to the test case they happened in.
var (
	ErrJudgeTransport  = errors.New("judge transport failure")
	ErrMalformedResult = errors.New("malformed judge response")
	ErrPollTimeout     = errors.New("judge did not reach a terminal status within the poll budget")
)

// Request validation errors.
var (
	ErrEmptySource   = errors.New("source code is empty")
	ErrInvalidLimits = errors.New("resource limits must not be negative")
)

var ErrNotFound = errors.New("not found")

// IsFatal reports whether err must abort the whole grading operation
func IsFatal(err error) bool {
	return errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUnsupportedLanguage)
}

// IsConfiguration reports whether err is caused by deployment configuration
// rather than by the caller's request.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrMissingCredentials) || errors.Is(err, ErrInvalidCredentials)
}
