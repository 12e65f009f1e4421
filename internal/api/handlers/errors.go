package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roksva123/go-gitlab-dashboard/internal/api/middleware"
	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/service"
)

const bannerMessage = "Failed to fetch data from GitLab. Please try again."

// respondError maps an error to the response of its class. empty lists the
// fields whose lists are reset so the client never keeps stale data.
func respondError(c *gin.Context, op string, err error, empty gin.H) {
	switch {
	case errors.Is(err, service.ErrNotConfigured),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, service.ErrInvalidCredentials),
		service.IsStatus(err, http.StatusUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "redirect": middleware.LoginRedirect})
	case errors.Is(err, service.ErrStaleLoad):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrExportTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case service.IsStatus(err, http.StatusForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "redirect": middleware.UnauthorizedRedirect})
	case service.IsStatus(err, http.StatusNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.Printf("[%s] %v", op, err)
		body := gin.H{"error": bannerMessage, "details": err.Error()}
		for k, v := range empty {
			body[k] = v
		}
		c.JSON(http.StatusBadGateway, body)
	}
}

// currentSession returns the session set by middleware.Auth or answers 401.
func currentSession(c *gin.Context) (*model.Session, bool) {
	sess, err := middleware.SessionFrom(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "redirect": middleware.LoginRedirect})
		return nil, false
	}
	return sess, true
}
