package model

import "time"

// ReportRow is the per-issue projection shared by the task overview table
// and the spreadsheet export.
type ReportRow struct {
	IssueID   int64  `json:"issue_id"`
	Project   string `json:"project"`
	Task      string `json:"task"`
	Created   string `json:"created"`
	Due       string `json:"due"`
	State     string `json:"state"`
	Assignees string `json:"assignees"`
}

// MemberGroup holds the rows assigned to one resolved project member.
type MemberGroup struct {
	MemberID   int64       `json:"member_id"`
	MemberName string      `json:"member_name"`
	Rows       []ReportRow `json:"rows"`
}

// IssueTableRow is one line of the time-tracking issue table. Hours carry
// two decimals when rendered.
type IssueTableRow struct {
	IssueID         int64   `json:"issue_id"`
	Title           string  `json:"title"`
	State           string  `json:"state"`
	Assignee        string  `json:"assignee"`
	Created         string  `json:"created"`
	Due             string  `json:"due"`
	EstimateHours   float64 `json:"estimate_hours"`
	SpentHours      float64 `json:"spent_hours"`
	DifferenceHours float64 `json:"difference_hours"`
	PercentComplete float64 `json:"percent_complete"`
	Labels          string  `json:"labels"`
}

// Totals is the cumulative row under the issue table.
type Totals struct {
	EstimateSeconds   int64   `json:"estimate_seconds"`
	SpentSeconds      int64   `json:"spent_seconds"`
	DifferenceSeconds int64   `json:"difference_seconds"`
	EstimateHours     float64 `json:"estimate_hours"`
	SpentHours        float64 `json:"spent_hours"`
	DifferenceHours   float64 `json:"difference_hours"`
	MeanPercent       float64 `json:"mean_percent"`
	Count             int     `json:"count"`
}

// CalendarEvent is an issue or merge request placed on the calendar.
type CalendarEvent struct {
	ID    int64     `json:"id"`
	Kind  string    `json:"kind"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ProjectCard is one tile of the overview dashboard.
type ProjectCard struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	OpenIssues   string `json:"open_issues"`
	LastActivity string `json:"last_activity"`
}

// Table is a titled grid shared by the on-screen report and the exports.
type Table struct {
	Title  string     `json:"title"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
	Empty  string     `json:"empty,omitempty"`
}

// ProjectReport is the printable report of one project.
type ProjectReport struct {
	GeneratedAt   time.Time         `json:"generated_at"`
	Project       Project           `json:"project"`
	Rows          []ReportRow       `json:"rows"`
	Milestones    []Milestone       `json:"milestones"`
	Labels        []Label           `json:"labels"`
	Statistics    *IssuesStatistics `json:"statistics"`
	AssignedUsers []UserInfo        `json:"assigned_users"`
	Events        []Event           `json:"events"`
}
