package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("gitlab rejected the access token")
	ErrSessionExpired     = errors.New("session expired or unknown")
)

// SessionStore persists sessions between requests.
type SessionStore interface {
	CreateSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// SessionService owns the session lifecycle: Init at login, Resolve on
// every request, Clear at logout.
type SessionService struct {
	Store   SessionStore
	JWTKey  []byte
	TTL     time.Duration
	Timeout time.Duration
	Now     func() time.Time

	// DefaultBaseURL is used when login omits the GitLab URL.
	DefaultBaseURL string
}

func NewSessionService(store SessionStore, jwtSecret string, ttl, timeout time.Duration) *SessionService {
	return &SessionService{
		Store:   store,
		JWTKey:  []byte(jwtSecret),
		TTL:     ttl,
		Timeout: timeout,
		Now:     time.Now,
	}
}

// Client returns a GitLab client bound to the session credentials.
func (s *SessionService) Client(sess *model.Session) *GitLabClient {
	return NewGitLabClient(sess.BaseURL, sess.Token, s.Timeout)
}

// Init validates the credentials against GET /user and stores a new session.
// It returns the session and a signed token referencing it.
func (s *SessionService) Init(ctx context.Context, baseURL, token string) (*model.Session, string, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = s.DefaultBaseURL
	}
	token = strings.TrimSpace(token)
	if baseURL == "" || token == "" {
		return nil, "", ErrNotConfigured
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, "", fmt.Errorf("%w: gitlab url must start with http:// or https://", ErrNotConfigured)
	}

	client := NewGitLabClient(baseURL, token, s.Timeout)
	user, err := client.CurrentUser(ctx)
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("validate token: %w", err)
	}

	now := s.Now()
	sess := &model.Session{
		ID:        uuid.NewString(),
		BaseURL:   client.BaseURL,
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		Name:      user.Name,
		IsAdmin:   user.IsAdmin,
		CreatedAt: now,
		ExpiresAt: now.Add(s.TTL),
	}
	if err := s.Store.CreateSession(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("store session: %w", err)
	}

	signed, err := s.sign(sess)
	if err != nil {
		return nil, "", err
	}
	return sess, signed, nil
}

func (s *SessionService) sign(sess *model.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid": sess.ID,
		"sub": sess.Username,
		"iat": sess.CreatedAt.Unix(),
		"exp": sess.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.JWTKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Resolve verifies a signed token and loads the session it references.
func (s *SessionService) Resolve(ctx context.Context, tokenString string) (*model.Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.JWTKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.Now),
	)
	if err != nil || !token.Valid {
		return nil, ErrSessionExpired
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrSessionExpired
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, ErrSessionExpired
	}

	sess, err := s.Store.GetSession(ctx, sid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !sess.Valid(s.Now()) {
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Clear ends the session. Clearing an unknown session is not an error.
func (s *SessionService) Clear(ctx context.Context, id string) error {
	if err := s.Store.DeleteSession(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ProjectRole maps the user's access level on the project to a role.
// Instance admins act as owners; non-members are guests.
func (s *SessionService) ProjectRole(ctx context.Context, sess *model.Session, projectID int64) (model.Role, error) {
	if sess.IsAdmin {
		return model.RoleOwner, nil
	}
	level, err := s.Client(sess).MemberAccessLevel(ctx, projectID, sess.UserID)
	if err != nil {
		return model.RoleGuest, err
	}
	return model.RoleFromAccessLevel(level), nil
}
