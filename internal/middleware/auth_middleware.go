package middleware

import (
	"context"
	"strings"

	"taskhive/internal/auth"
	"taskhive/internal/model"
	"taskhive/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the middleware chain.
const (
	UserIDKey = "userID"
	UserKey   = "currentUser"
)

// UserLoader is the slice of the user repository the auth middleware
// needs.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// JWTAuthMiddleware authenticates a request from the accessToken cookie
// or a bearer Authorization header, loads the user, and rejects tokens
// issued before the last password change.
func JWTAuthMiddleware(secret string, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			response.Abort(c, err)
			return
		}

		claims, err := auth.ParseAccessToken(tokenStr, secret)
		if err != nil {
			response.Abort(c, response.Unauthorized("Invalid or expired token"))
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Abort(c, response.Unauthorized("Invalid user ID in token"))
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			response.Abort(c, err)
			return
		}
		if user == nil {
			response.Abort(c, response.Unauthorized("Invalid token"))
			return
		}

		if user.PasswordChangedAt != nil && claims.IssuedAt != nil &&
			claims.IssuedAt.Time.Before(*user.PasswordChangedAt) {
			response.Abort(c, response.Unauthorized("Password changed recently. Please log in again."))
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UserKey, user)
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, error) {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie != "" {
		return cookie, nil
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return "", response.Unauthorized("Authorization header is required")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", response.Unauthorized("Authorization header format must be Bearer {token}")
	}
	return parts[1], nil
}

// CurrentUserID returns the authenticated user's id from the context.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// CurrentUser returns the authenticated user loaded by the middleware.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}
