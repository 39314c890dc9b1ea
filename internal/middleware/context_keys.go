package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is the type of keys stored in the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	userIDKey    = contextKey("userID")
	companyIDKey = contextKey("companyID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the request.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return stringFromCtx(c.Request.Context(), userIDKey)
}

// GetCompanyIDFromContext retrieves the caller's company (tenant) from the request.
func GetCompanyIDFromContext(c *gin.Context) (string, bool) {
	return stringFromCtx(c.Request.Context(), companyIDKey)
}

// WithIdentity stores the caller identity in ctx. Used by AuthMiddleware and tests.
func WithIdentity(ctx context.Context, userID, companyID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, companyIDKey, companyID)
}

func stringFromCtx(ctx context.Context, key contextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
