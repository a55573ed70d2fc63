package services

// Typed business-rule failures. Handlers map these to HTTP responses in one
// place; everything else propagates as an opaque internal error.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// UnauthorizedError means the record exists but belongs to someone else.
// Handlers respond exactly as they do for NotFoundError so callers cannot
// probe for other users' records.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// AlreadyActiveError rejects starting a session while one is running.
type AlreadyActiveError struct{}

func (e *AlreadyActiveError) Error() string {
	return "you already have an active session"
}

// AlreadyEndedError rejects stopping a session twice.
type AlreadyEndedError struct{}

func (e *AlreadyEndedError) Error() string {
	return "session already ended"
}

// InvalidContextError rejects a session pointing at both a project and a course.
type InvalidContextError struct{}

func (e *InvalidContextError) Error() string {
	return "choose project or course, not both"
}

// GitHubAuthError means GitHub rejected the stored OAuth token; the user
// must sign in again.
type GitHubAuthError struct{}

func (e *GitHubAuthError) Error() string {
	return "GitHub token rejected, sign in again"
}

type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return e.Message
}
