package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/repository"
	"github.com/eventup-dev/eventup/pkg/response"
	"github.com/eventup-dev/eventup/pkg/token"
)

const userKey = "currentUser"

// Authenticate verifies the bearer token and loads the caller's account.
// The role always comes from the database, never from the token, so a role
// change takes effect on the next request.
func Authenticate(tokens *token.Manager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("authentication required"))
			return
		}

		userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, token.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(msg))
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error("internal server error"))
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("account no longer exists"))
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, or nil outside the
// authenticated route group.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

// RequireRoles rejects callers whose role is not in the allowed set.
// It must run after Authenticate.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("authentication required"))
			return
		}
		if !allowed[user.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error("access denied"))
			return
		}
		c.Next()
	}
}
