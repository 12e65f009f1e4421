package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/repository"
)

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]model.Session{}}
}

func (m *memorySessions) CreateSession(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *memorySessions) GetSession(_ context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memorySessions) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func userServer(t *testing.T) string {
	srv := fakeGitLab(t, map[string]http.HandlerFunc{
		"/api/v4/user": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, model.UserInfo{ID: 7, Name: "Alice", Username: "alice"})
		},
	})
	return srv.URL
}

func TestSessionLifecycle(t *testing.T) {
	store := newMemorySessions()
	svc := NewSessionService(store, "test-secret", time.Hour, time.Second)
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	sess, token, err := svc.Init(context.Background(), userServer(t), testToken)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, int64(7), sess.UserID)
	assert.Equal(t, now.Add(time.Hour), sess.ExpiresAt)
	assert.Contains(t, sess.BaseURL, "/api/v4")

	got, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, testToken, got.Token)

	require.NoError(t, svc.Clear(context.Background(), sess.ID))
	_, err = svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestInitRejectsMissingOrBadCredentials(t *testing.T) {
	svc := NewSessionService(newMemorySessions(), "test-secret", time.Hour, time.Second)

	_, _, err := svc.Init(context.Background(), "", testToken)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, _, err = svc.Init(context.Background(), "gitlab.example.com", testToken)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, _, err = svc.Init(context.Background(), userServer(t), "wrong-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestInitFallsBackToDefaultURL(t *testing.T) {
	svc := NewSessionService(newMemorySessions(), "test-secret", time.Hour, time.Second)
	svc.DefaultBaseURL = userServer(t)

	sess, _, err := svc.Init(context.Background(), " ", testToken)
	require.NoError(t, err)
	assert.Equal(t, APIRoot(svc.DefaultBaseURL), sess.BaseURL)
}

func TestResolveRejectsExpiredAndForeignTokens(t *testing.T) {
	store := newMemorySessions()
	svc := NewSessionService(store, "test-secret", time.Hour, time.Second)
	now := time.Now()
	svc.Now = func() time.Time { return now }

	_, token, err := svc.Init(context.Background(), userServer(t), testToken)
	require.NoError(t, err)

	later := now.Add(2 * time.Hour)
	svc.Now = func() time.Time { return later }
	_, err = svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	svc.Now = func() time.Time { return now }
	other := NewSessionService(store, "another-secret", time.Hour, time.Second)
	_, err = other.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	noSid := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
	signed, err := noSid.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), signed)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = svc.Resolve(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestProjectRole(t *testing.T) {
	srv := fakeGitLab(t, map[string]http.HandlerFunc{
		"/api/v4/projects/9/members/all/7": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, model.Member{ID: 7, AccessLevel: model.AccessDeveloper})
		},
	})
	svc := NewSessionService(newMemorySessions(), "test-secret", time.Hour, time.Second)
	sess := &model.Session{BaseURL: srv.URL, Token: testToken, UserID: 7}

	role, err := svc.ProjectRole(context.Background(), sess, 9)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDeveloper, role)

	role, err = svc.ProjectRole(context.Background(), sess, 10)
	require.NoError(t, err)
	assert.Equal(t, model.RoleGuest, role)

	sess.Token = "revoked"
	_, err = svc.ProjectRole(context.Background(), sess, 9)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	sess.Token = testToken

	sess.IsAdmin = true
	role, err = svc.ProjectRole(context.Background(), sess, 10)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, role)
}
