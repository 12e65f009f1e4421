package middleware

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roksva123/go-gitlab-dashboard/internal/config"
	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

// RoleResolver finds the role of the session user on a project.
type RoleResolver interface {
	ProjectRole(ctx context.Context, sess *model.Session, projectID int64) (model.Role, error)
}

// RequireCapability guards project routes: the user's role on the :id
// project must be granted the capability. Must run after Auth.
func RequireCapability(perms *config.Permissions, roles RoleResolver, capability config.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := SessionFrom(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "redirect": LoginRedirect})
			return
		}
		projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || projectID <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
			return
		}

		role, err := roles.ProjectRole(c.Request.Context(), sess, projectID)
		if err != nil {
			log.Printf("[permission] resolve role of %s on project %d: %v", sess.Username, projectID, err)
			role = model.RoleGuest
		}
		if !perms.Allows(role, capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "role " + string(role) + " lacks " + string(capability),
				"redirect": UnauthorizedRedirect,
			})
			return
		}

		c.Set(roleKey, role)
		c.Set(projectKey, projectID)
		c.Next()
	}
}

// ProjectID returns the project id validated by RequireCapability.
func ProjectID(c *gin.Context) int64 {
	return c.GetInt64(projectKey)
}

// RoleFrom returns the role resolved by RequireCapability.
func RoleFrom(c *gin.Context) model.Role {
	if v, ok := c.Get(roleKey); ok {
		if r, ok := v.(model.Role); ok {
			return r
		}
	}
	return model.RoleGuest
}
