package repository

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

func TestDSN(t *testing.T) {
	cfg := &DBConfig{Host: "db", Port: "5432", User: "u", Pass: "p", Name: "dash"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=dash sslmode=disable", cfg.DSN())

	cfg.URL = "postgres://u:p@db/dash"
	assert.Equal(t, "postgres://u:p@db/dash", cfg.DSN())
}

// openTestRepo connects to TEST_DATABASE_URL or skips.
func openTestRepo(t *testing.T) *PostgresRepo {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	repo, err := NewPostgresRepoFromConfig(&DBConfig{URL: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.RunMigrations(context.Background()))
	return repo
}

func TestSessionLifecycle(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	s := &model.Session{
		ID: uuid.NewString(), BaseURL: "https://gitlab.example.com/api/v4", Token: "glpat-x",
		UserID: 7, Username: "alice", Name: "Alice", CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, repo.CreateSession(ctx, s))

	got, err := repo.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Token, got.Token)
	assert.Equal(t, s.Username, got.Username)
	assert.True(t, s.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, repo.DeleteSession(ctx, s.ID))
	_, err = repo.GetSession(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportHistory(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	user := "exporter-" + uuid.NewString()

	rec := &model.ExportRecord{
		Username: user, ProjectID: 42, Kind: "report", Format: "pdf",
		RowCount: 3, Bytes: 1024, DurationMs: 12,
		Sections: []string{"Issues", "Labels"},
		Details:  json.RawMessage(`{"filter":"none"}`),
	}
	require.NoError(t, repo.InsertExportRecord(ctx, rec))
	assert.NotZero(t, rec.ID)

	list, err := repo.ListExports(ctx, user, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"Issues", "Labels"}, list[0].Sections)
	assert.JSONEq(t, `{"filter":"none"}`, string(list[0].Details))
}
