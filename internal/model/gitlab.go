package model

// Project mirrors the fields of a GitLab project the dashboard reads.
type Project struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Description       *string    `json:"description"`
	NameWithNamespace string     `json:"name_with_namespace,omitempty"`
	PathWithNamespace string     `json:"path_with_namespace,omitempty"`
	CreatedAt         string     `json:"created_at,omitempty"`
	LastActivityAt    string     `json:"last_activity_at,omitempty"`
	OpenIssuesCount   *int       `json:"open_issues_count,omitempty"`
	WebURL            string     `json:"web_url,omitempty"`
	AvatarURL         *string    `json:"avatar_url,omitempty"`
	CreatorID         int64      `json:"creator_id"`
	Namespace         *Namespace `json:"namespace,omitempty"`
}

type Namespace struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	FullPath string `json:"full_path"`
}

// Assignee is the user shape embedded in issues, merge requests and events.
type Assignee struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	State     string `json:"state,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	WebURL    string `json:"web_url,omitempty"`
}

type TimeStats struct {
	TimeEstimate        int64   `json:"time_estimate"`
	TotalTimeSpent      int64   `json:"total_time_spent"`
	HumanTimeEstimate   *string `json:"human_time_estimate"`
	HumanTotalTimeSpent *string `json:"human_total_time_spent"`
}

// Issue states as reported by GitLab.
const (
	IssueOpened = "opened"
	IssueClosed = "closed"
)

// Issue is a GitLab issue. CreatedAt and DueDate stay raw strings so that
// consumers decide how to treat malformed values.
type Issue struct {
	ID             int64      `json:"id"`
	IID            int64      `json:"iid"`
	ProjectID      int64      `json:"project_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	State          string     `json:"state"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at,omitempty"`
	ClosedAt       *string    `json:"closed_at"`
	DueDate        *string    `json:"due_date"`
	Labels         []string   `json:"labels"`
	Milestone      *Milestone `json:"milestone"`
	Assignees      []Assignee `json:"assignees"`
	Assignee       *Assignee  `json:"assignee"`
	Author         *Assignee  `json:"author,omitempty"`
	TimeStats      TimeStats  `json:"time_stats"`
	UserNotesCount int        `json:"user_notes_count"`
	WebURL         string     `json:"web_url,omitempty"`
}

type MergeRequest struct {
	ID                        int64  `json:"id"`
	IID                       int64  `json:"iid"`
	ProjectID                 int64  `json:"project_id"`
	Title                     string `json:"title"`
	Description               string `json:"description"`
	State                     string `json:"state"`
	CreatedAt                 string `json:"created_at"`
	UpdatedAt                 string `json:"updated_at,omitempty"`
	MergeStatus               string `json:"merge_status,omitempty"`
	MergeWhenPipelineSucceeds bool   `json:"merge_when_pipeline_succeeds"`
}

type Milestone struct {
	ID          int64   `json:"id"`
	IID         int64   `json:"iid"`
	ProjectID   int64   `json:"project_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	State       string  `json:"state"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
	DueDate     *string `json:"due_date"`
	StartDate   *string `json:"start_date"`
}

type Label struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	TextColor   string `json:"text_color,omitempty"`
}

// IssuesStatistics flattens GitLab's {"statistics":{"counts":{...}}} payload.
type IssuesStatistics struct {
	TotalCount  int `json:"total_count"`
	OpenedCount int `json:"opened_count"`
	ClosedCount int `json:"closed_count"`
}

type Event struct {
	ID          int64     `json:"id"`
	ActionName  string    `json:"action_name"`
	TargetType  *string   `json:"target_type"`
	TargetTitle *string   `json:"target_title"`
	Author      *Assignee `json:"author"`
	CreatedAt   string    `json:"created_at"`
}

type Note struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	System    bool      `json:"system"`
	Author    *Assignee `json:"author"`
	CreatedAt string    `json:"created_at"`
}

// UserInfo is the /user and /users/:id payload.
type UserInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	IsAdmin   bool   `json:"is_admin"`
}
