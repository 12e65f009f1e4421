package report

import (
	"strings"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/schedule"
	"github.com/roksva123/go-gitlab-dashboard/internal/utils"
)

const (
	UnknownProject = "Unknown project"
	NoDate         = "No date"
	Unassigned     = "Unassigned"
)

// RowHeader is the column set of ReportRow in tables and spreadsheets.
var RowHeader = []string{"Project", "Task", "Created", "Due", "State", "Assignees"}

// ProjectNames indexes project names by id.
func ProjectNames(projects []model.Project) map[int64]string {
	out := make(map[int64]string, len(projects))
	for _, p := range projects {
		out[p.ID] = p.Name
	}
	return out
}

// Row projects one issue for tabular display.
func Row(issue model.Issue, projectNames map[int64]string) model.ReportRow {
	project, ok := projectNames[issue.ProjectID]
	if !ok || project == "" {
		project = UnknownProject
	}
	names := make([]string, 0, len(issue.Assignees))
	for _, a := range issue.Assignees {
		names = append(names, a.Name)
	}
	return model.ReportRow{
		IssueID:   issue.ID,
		Project:   project,
		Task:      issue.Title,
		Created:   formatTimestamp(issue.CreatedAt, ""),
		Due:       formatOptionalDate(issue.DueDate),
		State:     issue.State,
		Assignees: strings.Join(names, ", "),
	}
}

// Rows projects issues in input order.
func Rows(issues []model.Issue, projects []model.Project) []model.ReportRow {
	names := ProjectNames(projects)
	out := make([]model.ReportRow, 0, len(issues))
	for _, issue := range issues {
		out = append(out, Row(issue, names))
	}
	return out
}

// Cells flattens a row in RowHeader order.
func Cells(r model.ReportRow) []string {
	return []string{r.Project, r.Task, r.Created, r.Due, r.State, r.Assignees}
}

func formatTimestamp(raw, fallback string) string {
	t, ok := schedule.ParseTimestamp(raw)
	if !ok {
		if raw == "" {
			return fallback
		}
		return raw
	}
	return utils.FormatDate(t, fallback)
}

func formatOptionalDate(raw *string) string {
	if raw == nil || *raw == "" {
		return NoDate
	}
	return formatTimestamp(*raw, NoDate)
}
