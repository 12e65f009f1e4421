package report

import (
	"strconv"
	"time"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/utils"
)

// Section titles in report order.
const (
	SectionIssues     = "Issues"
	SectionMilestones = "Milestones"
	SectionLabels     = "Labels"
	SectionStatistics = "Statistics"
	SectionUsers      = "Assigned users"
	SectionActivity   = "Activity history"

	unknownDate   = "Unknown date"
	unknownAuthor = "Unknown"
)

// ReportInput is everything fetched for one project report.
type ReportInput struct {
	Project    model.Project
	Issues     []model.Issue
	Milestones []model.Milestone
	Labels     []model.Label
	Statistics *model.IssuesStatistics
	Users      []model.UserInfo
	Events     []model.Event
}

// BuildProjectReport assembles the printable report. Issue rows are the same
// projection used by the task overview and the spreadsheet export.
func BuildProjectReport(in ReportInput, now time.Time) model.ProjectReport {
	return model.ProjectReport{
		GeneratedAt:   now,
		Project:       in.Project,
		Rows:          Rows(in.Issues, []model.Project{in.Project}),
		Milestones:    in.Milestones,
		Labels:        in.Labels,
		Statistics:    in.Statistics,
		AssignedUsers: in.Users,
		Events:        in.Events,
	}
}

// AssignedUserIDs lists the distinct assignee ids of issues by first
// appearance.
func AssignedUserIDs(issues []model.Issue) []int64 {
	var ids []int64
	for _, a := range Assignees(issues) {
		ids = append(ids, a.ID)
	}
	return ids
}

// SummaryLines is the textual header printed above the report tables.
func SummaryLines(r model.ProjectReport) []string {
	desc := ""
	if r.Project.Description != nil {
		desc = *r.Project.Description
	}
	return []string{
		"Project: " + r.Project.Name,
		"Description: " + desc,
		"Created: " + formatTimestamp(r.Project.CreatedAt, unknownDate),
		"Generated: " + r.GeneratedAt.Format("02-01-2006 15:04"),
		"Issues: " + strconv.Itoa(len(r.Rows)),
	}
}

// Sections renders the report as its six tables in order.
func Sections(r model.ProjectReport) []model.Table {
	issues := model.Table{Title: SectionIssues, Header: RowHeader, Empty: "No issues found for this project."}
	for _, row := range r.Rows {
		issues.Rows = append(issues.Rows, Cells(row))
	}

	milestones := model.Table{Title: SectionMilestones, Header: []string{"Title", "Due", "State"}, Empty: "No milestones found."}
	for _, m := range r.Milestones {
		due := unknownDate
		if m.DueDate != nil && *m.DueDate != "" {
			due = formatTimestamp(*m.DueDate, unknownDate)
		}
		milestones.Rows = append(milestones.Rows, []string{m.Title, due, m.State})
	}

	labels := model.Table{Title: SectionLabels, Header: []string{"Name"}, Empty: "No labels found."}
	for _, l := range r.Labels {
		labels.Rows = append(labels.Rows, []string{l.Name})
	}

	stats := model.Table{Title: SectionStatistics, Header: []string{"Total", "Opened", "Closed"}, Empty: "No statistics available."}
	if s := r.Statistics; s != nil {
		stats.Rows = [][]string{{strconv.Itoa(s.TotalCount), strconv.Itoa(s.OpenedCount), strconv.Itoa(s.ClosedCount)}}
	}

	users := model.Table{Title: SectionUsers, Header: []string{"ID", "Name", "Username", "Email"}, Empty: "No assigned users found."}
	for _, u := range r.AssignedUsers {
		users.Rows = append(users.Rows, []string{utils.FormatInt64(u.ID), u.Name, u.Username, u.Email})
	}

	activity := model.Table{Title: SectionActivity, Header: []string{"Date", "Action", "Author"}, Empty: "No activity found."}
	for _, e := range r.Events {
		author := unknownAuthor
		if e.Author != nil && e.Author.Name != "" {
			author = e.Author.Name
		}
		activity.Rows = append(activity.Rows, []string{formatTimestamp(e.CreatedAt, unknownDate), e.ActionName, author})
	}

	return []model.Table{issues, milestones, labels, stats, users, activity}
}
