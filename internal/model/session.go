package model

import "time"

// Session is the explicit credential holder for one logged-in browser. It is
// created by login and removed by logout; every GitLab call reads from it.
type Session struct {
	ID        string    `json:"id"`
	BaseURL   string    `json:"gitlab_url"`
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether both credentials are present and the session has
// not expired at now.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.BaseURL == "" || s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}
