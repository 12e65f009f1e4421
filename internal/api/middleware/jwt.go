package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

const (
	sessionKey = "session"
	roleKey    = "role"
	projectKey = "project_id"

	LoginRedirect        = "/login"
	UnauthorizedRedirect = "/unauthorized"
)

// SessionResolver turns a bearer token into a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.Session, error)
}

// Auth loads the session referenced by the bearer token into the context.
// Requests without a valid session are sent back to the login view.
func Auth(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token", "redirect": LoginRedirect})
			return
		}

		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid header", "redirect": LoginRedirect})
			return
		}

		sess, err := sessions.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "redirect": LoginRedirect})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// SessionFrom returns the session set by Auth.
func SessionFrom(c *gin.Context) (*model.Session, error) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, errors.New("no session in request context")
	}
	sess, ok := v.(*model.Session)
	if !ok || sess == nil {
		return nil, errors.New("no session in request context")
	}
	return sess, nil
}
