package model

import (
	"encoding/json"
	"time"
)

// ExportRecord is one line of the export audit log.
type ExportRecord struct {
	ID         int64           `json:"id"`
	ExportTime time.Time       `json:"export_time"`
	SessionID  string          `json:"-"`
	Username   string          `json:"username"`
	ProjectID  int64           `json:"project_id"`
	Kind       string          `json:"kind"`
	Format     string          `json:"format"`
	RowCount   int             `json:"row_count"`
	Bytes      int64           `json:"bytes"`
	DurationMs int64           `json:"duration_ms"`
	Sections   []string        `json:"sections"`
	Details    json.RawMessage `json:"details,omitempty"`
}
