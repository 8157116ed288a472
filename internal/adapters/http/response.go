// Package http holds the HTTP adapters (REST API).
//
// Package layout:
// - common/: shared types and helpers (split out to avoid import cycles)
// - middleware/: HTTP middleware (auth, logging, recovery)
// - handlers/: HTTP handlers, one per resource
// - router.go: route configuration
// - server.go: HTTP server lifecycle
//
// Pattern: Adapter (Hexagonal Architecture)
// - HTTP is the outer adapter that turns HTTP requests into use case calls
// - it holds no business logic
// - it only handles data translation and HTTP semantics
package http

import (
	"github.com/vinayak20130/ledgervault/internal/adapters/http/common"
)

// Re-export types from the common package for convenience
type (
	// APIResponse is the standard API response envelope.
	APIResponse = common.APIResponse
	// APIMeta carries pagination metadata.
	APIMeta = common.APIMeta
	// APIError is the API's error shape.
	APIError = common.APIError
	// FieldError reports an error on a single field.
	FieldError = common.FieldError
)

// Re-export error codes
const (
	ErrCodeValidation       = common.ErrCodeValidation
	ErrCodeNotFound         = common.ErrCodeNotFound
	ErrCodeBadRequest       = common.ErrCodeBadRequest
	ErrCodeUnauthorized     = common.ErrCodeUnauthorized
	ErrCodeForbidden        = common.ErrCodeForbidden
	ErrCodeConflict         = common.ErrCodeConflict
	ErrCodeTooManyRequests  = common.ErrCodeTooManyRequests
	ErrCodeBusinessRule     = common.ErrCodeBusinessRule
	ErrCodeDuplicateRequest = common.ErrCodeDuplicateRequest
	ErrCodeInternal         = common.ErrCodeInternal
	ErrCodeConcurrency      = common.ErrCodeConcurrency
	ErrCodeTimeout          = common.ErrCodeTimeout
	ErrCodeUnavailable      = common.ErrCodeUnavailable
)

// Re-export functions
var (
	// GetRequestID returns the request ID stored on the Gin context.
	GetRequestID = common.GetRequestID
	// SetRequestID stores the request ID on the Gin context.
	SetRequestID = common.SetRequestID
	// Success writes a successful response.
	Success = common.Success
	// SuccessWithMeta writes a successful response with pagination metadata.
	SuccessWithMeta = common.SuccessWithMeta
	// Error writes an error response.
	Error = common.Error
	// ValidationErrorResponse writes a response for validation errors.
	ValidationErrorResponse = common.ValidationErrorResponse
	// NotFoundResponse writes a 404 response.
	NotFoundResponse = common.NotFoundResponse
	// BadRequestResponse writes a 400 response.
	BadRequestResponse = common.BadRequestResponse
	// UnauthorizedResponse writes a 401 response.
	UnauthorizedResponse = common.UnauthorizedResponse
	// ForbiddenResponse writes a 403 response.
	ForbiddenResponse = common.ForbiddenResponse
	// ConflictResponse writes a 409 response.
	ConflictResponse = common.ConflictResponse
	// TooManyRequestsResponse writes a 429 response for rate limiting.
	TooManyRequestsResponse = common.TooManyRequestsResponse
	// InternalErrorResponse writes a 500 response.
	InternalErrorResponse = common.InternalErrorResponse
	// HandleDomainError maps a domain error onto the matching HTTP response.
	HandleDomainError = common.HandleDomainError
)
