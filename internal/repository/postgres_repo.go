package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("record not found")

type DBConfig struct {
	URL  string
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN prefers an explicit URL over the discrete fields.
func (c *DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Pass, c.Name)
}

type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepoFromConfig(cfg *DBConfig) (*PostgresRepo, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}
	// ping
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresRepo{DB: db}, nil
}

func (r *PostgresRepo) Close() error {
	return r.DB.Close()
}

func (r *PostgresRepo) RunMigrations(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
            id UUID PRIMARY KEY,
            gitlab_url TEXT NOT NULL,
            token TEXT NOT NULL,
            user_id BIGINT NOT NULL,
            username TEXT NOT NULL,
            name TEXT,
            is_admin BOOLEAN NOT NULL DEFAULT false,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
            expires_at TIMESTAMP WITH TIME ZONE NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at);`,
		`CREATE TABLE IF NOT EXISTS export_history (
            id BIGSERIAL PRIMARY KEY,
            export_time TIMESTAMP WITH TIME ZONE DEFAULT now(),
            session_id UUID,
            username TEXT NOT NULL,
            project_id BIGINT NOT NULL,
            kind TEXT NOT NULL,
            format TEXT NOT NULL,
            row_count INTEGER NOT NULL DEFAULT 0,
            bytes BIGINT NOT NULL DEFAULT 0,
            duration_ms BIGINT NOT NULL DEFAULT 0,
            sections TEXT[] NOT NULL DEFAULT '{}',
            details JSONB
        );`,
		`CREATE INDEX IF NOT EXISTS export_history_username_idx ON export_history (username, export_time DESC);`,
	}
	for _, q := range queries {
		if _, err := r.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// CreateSession stores a freshly initialized session.
func (r *PostgresRepo) CreateSession(ctx context.Context, s *model.Session) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO sessions (id, gitlab_url, token, user_id, username, name, is_admin, created_at, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, s.ID, s.BaseURL, s.Token, s.UserID, s.Username, s.Name, s.IsAdmin, s.CreatedAt, s.ExpiresAt)
	return err
}

func (r *PostgresRepo) GetSession(ctx context.Context, id string) (*model.Session, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, gitlab_url, token, user_id, username, COALESCE(name, ''), is_admin, created_at, expires_at
		FROM sessions WHERE id = $1 LIMIT 1
	`, id)

	var s model.Session
	err := row.Scan(&s.ID, &s.BaseURL, &s.Token, &s.UserID, &s.Username, &s.Name, &s.IsAdmin, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepo) DeleteSession(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpiredSessions purges sessions whose expiry is at or before now.
func (r *PostgresRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InsertExportRecord appends to the export audit log and fills rec.ID.
func (r *PostgresRepo) InsertExportRecord(ctx context.Context, rec *model.ExportRecord) error {
	var details interface{}
	if len(rec.Details) > 0 {
		details = []byte(rec.Details)
	}
	sections := rec.Sections
	if sections == nil {
		sections = []string{}
	}
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO export_history (session_id, username, project_id, kind, format, row_count, bytes, duration_ms, sections, details)
		VALUES (NULLIF($1, '')::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, export_time
	`, rec.SessionID, rec.Username, rec.ProjectID, rec.Kind, rec.Format,
		rec.RowCount, rec.Bytes, rec.DurationMs, pq.Array(sections), details)
	return row.Scan(&rec.ID, &rec.ExportTime)
}

// ListExports returns the newest exports of a user.
func (r *PostgresRepo) ListExports(ctx context.Context, username string, limit int) ([]model.ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, export_time, username, project_id, kind, format, row_count, bytes, duration_ms, sections, details
		FROM export_history
		WHERE username = $1
		ORDER BY export_time DESC, id DESC
		LIMIT $2
	`, username, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ExportRecord{}
	for rows.Next() {
		var (
			rec     model.ExportRecord
			details []byte
		)
		if err := rows.Scan(
			&rec.ID, &rec.ExportTime, &rec.Username, &rec.ProjectID, &rec.Kind, &rec.Format,
			&rec.RowCount, &rec.Bytes, &rec.DurationMs, pq.Array(&rec.Sections), &details,
		); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			rec.Details = json.RawMessage(details)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
