package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a session token is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUserNotFound is returned when an admin references an unknown participant.
	ErrUserNotFound = errors.New("participant not found")
	// ErrProblemNotFound indicates a submitted problem ID is not in the catalog.
	ErrProblemNotFound = errors.New("problem not found")
	// ErrSubmissionNotFound indicates an evaluation targets a problem the user never answered.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrInvalidCredentials is surfaced on an admin password mismatch.
	ErrInvalidCredentials = errors.New("incorrect admin password")
	// ErrEmptyUsername rejects participant logins with a blank name.
	ErrEmptyUsername = errors.New("username must not be empty")
	// ErrScoreOutOfRange rejects evaluations outside 0..max_score.
	ErrScoreOutOfRange = errors.New("score out of range for problem")
	// ErrCorruptDocument is returned when the backing file exists but cannot be parsed.
	ErrCorruptDocument = errors.New("document file is corrupt")
	// ErrNotAdmin guards admin-only operations.
	ErrNotAdmin = errors.New("admin role required")
	// ErrCatalogNotFound indicates the configured variant has no catalog.
	ErrCatalogNotFound = errors.New("problem catalog not found")
)
