package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/service"
)

type AuthHandler struct {
	Sessions *service.SessionService
	Loader   *service.ProjectLoader
}

func NewAuthHandler(sessions *service.SessionService, loader *service.ProjectLoader) *AuthHandler {
	return &AuthHandler{Sessions: sessions, Loader: loader}
}

// Login validates a GitLab URL and personal access token and opens a session.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	var response model.ResponseApi

	// Validate JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ApiMessage = "Invalid request: " + err.Error()
		c.JSON(http.StatusBadRequest, response)
		return
	}

	sess, token, err := h.Sessions.Init(c.Request.Context(), req.GitLabURL, req.Token)
	switch {
	case errors.Is(err, service.ErrNotConfigured):
		response.ApiMessage = err.Error()
		c.JSON(http.StatusBadRequest, response)
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		response.ApiMessage = "GitLab URL or token is incorrect"
		c.JSON(http.StatusUnauthorized, response)
		return
	case err != nil:
		response.ApiMessage = "Failed to reach GitLab: " + err.Error()
		c.JSON(http.StatusBadGateway, response)
		return
	}

	response.ApiMessage = "Login Successful"
	response.Data = model.LoginResponse{
		Token:     token,
		ExpiresAt: sess.ExpiresAt.Unix(),
		User: model.UserInfo{
			ID:       sess.UserID,
			Name:     sess.Name,
			Username: sess.Username,
			IsAdmin:  sess.IsAdmin,
		},
	}
	c.JSON(http.StatusOK, response)
}

// Logout clears the session and drops any loaded project.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	h.Loader.Forget(sess.ID)
	if err := h.Sessions.Clear(c.Request.Context(), sess.ID); err != nil {
		c.JSON(http.StatusInternalServerError, model.ResponseApi{ApiMessage: err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.ResponseApi{ApiMessage: "Logged out", Data: gin.H{"redirect": "/login"}})
}

// Me returns the current GitLab user.
// GET /api/v1/me
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	user, err := h.Sessions.Client(sess).CurrentUser(c.Request.Context())
	if err != nil {
		respondError(c, "me", err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "gitlab_url": sess.BaseURL, "expires_at": sess.ExpiresAt})
}
