// Package middleware holds HTTP middleware for request processing.
//
// Middleware in Gin are functions that run before/after handlers. They
// are used for cross-cutting concerns: logging, auth, tracing.
//
// SOLID principles:
// - SRP: each middleware handles one concern
// - OCP: new middleware is added without touching existing ones
//
// Pattern: Chain of Responsibility
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applog "github.com/vinayak20130/ledgervault/internal/pkg/logger"
)

const (
	// RequestIDHeader is the header name carrying the request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey is the Gin context key the request ID is stored under
	RequestIDContextKey = "request_id"
)

// RequestID middleware attaches a unique ID to every request.
//
// Why a request ID:
// 1. tracing: ties together all log lines for one request
// 2. debugging: lets you search logs by ID
// 3. client tracking: the caller may supply its own ID
//
// If the client sends X-Request-ID, it's reused; otherwise a new UUID
// is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Take the ID from the header, or generate a new one
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		// Stash it on the Gin context
		c.Set(RequestIDContextKey, requestID)

		// Also stash it on the request's context.Context so every slog call
		// downstream of this middleware — use cases, the executor, repositories
		// — picks it up automatically via pkg/logger's ContextHandler, not just
		// the access log line this middleware chain ends with.
		ctx := applog.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		// Echo it back in the response headers
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID extracts the request ID from the Gin context.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDContextKey); exists {
		if strID, ok := id.(string); ok {
			return strID
		}
	}
	return ""
}
