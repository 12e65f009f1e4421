package report

import (
	"strings"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/utils"
)

// IssueTableHeader is the column set of the time-tracking issue table.
var IssueTableHeader = []string{
	"Title", "State", "Assignee", "Created", "Due",
	"Estimate (h)", "Spent (h)", "Difference (h)", "% Done", "Labels",
}

// TableFilter holds the column filters of the issue table. Each one is a
// case-insensitive substring match; blank fields match everything.
type TableFilter struct {
	Title    string `form:"title"`
	State    string `form:"state"`
	Assignee string `form:"assignee"`
	Label    string `form:"label"`
}

// StateLabel is the display label of a GitLab issue state.
func StateLabel(state string) string {
	switch state {
	case model.IssueOpened:
		return "Open"
	case model.IssueClosed:
		return "Closed"
	default:
		return state
	}
}

func assigneeName(issue model.Issue) string {
	if issue.Assignee != nil && issue.Assignee.Name != "" {
		return issue.Assignee.Name
	}
	if len(issue.Assignees) > 0 {
		return issue.Assignees[0].Name
	}
	return Unassigned
}

// PercentComplete is spent over estimate, capped at 100. Issues without an
// estimate count as 0.
func PercentComplete(ts model.TimeStats) float64 {
	if ts.TimeEstimate <= 0 {
		return 0
	}
	p := float64(ts.TotalTimeSpent) / float64(ts.TimeEstimate) * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

func (f TableFilter) match(issue model.Issue) bool {
	if f.Title != "" && !containsFold(issue.Title, f.Title) {
		return false
	}
	if f.State != "" && !containsFold(issue.State, f.State) && !containsFold(StateLabel(issue.State), f.State) {
		return false
	}
	if f.Assignee != "" && !containsFold(assigneeName(issue), f.Assignee) {
		return false
	}
	if f.Label != "" {
		found := false
		for _, l := range issue.Labels {
			if containsFold(l, f.Label) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// IssueTable builds the time-tracking table and its totals row.
func IssueTable(issues []model.Issue, f TableFilter) ([]model.IssueTableRow, model.Totals) {
	rows := make([]model.IssueTableRow, 0, len(issues))
	var totals model.Totals
	var percentSum float64
	for _, issue := range issues {
		if !f.match(issue) {
			continue
		}
		est := issue.TimeStats.TimeEstimate
		spent := issue.TimeStats.TotalTimeSpent
		pct := PercentComplete(issue.TimeStats)
		rows = append(rows, model.IssueTableRow{
			IssueID:         issue.ID,
			Title:           issue.Title,
			State:           StateLabel(issue.State),
			Assignee:        assigneeName(issue),
			Created:         formatTimestamp(issue.CreatedAt, ""),
			Due:             formatOptionalDate(issue.DueDate),
			EstimateHours:   utils.Round2(utils.SecondsToHours(est)),
			SpentHours:      utils.Round2(utils.SecondsToHours(spent)),
			DifferenceHours: utils.Round2(utils.SecondsToHours(est - spent)),
			PercentComplete: utils.Round2(pct),
			Labels:          strings.Join(issue.Labels, ", "),
		})
		totals.EstimateSeconds += est
		totals.SpentSeconds += spent
		percentSum += pct
	}
	totals.Count = len(rows)
	totals.DifferenceSeconds = totals.EstimateSeconds - totals.SpentSeconds
	totals.EstimateHours = utils.Round2(utils.SecondsToHours(totals.EstimateSeconds))
	totals.SpentHours = utils.Round2(utils.SecondsToHours(totals.SpentSeconds))
	totals.DifferenceHours = utils.Round2(utils.SecondsToHours(totals.DifferenceSeconds))
	if totals.Count > 0 {
		totals.MeanPercent = utils.Round2(percentSum / float64(totals.Count))
	}
	return rows, totals
}

// IssueTableCells flattens a table row in IssueTableHeader order.
func IssueTableCells(r model.IssueTableRow) []string {
	return []string{
		r.Title, r.State, r.Assignee, r.Created, r.Due,
		utils.FormatHours(r.EstimateHours),
		utils.FormatHours(r.SpentHours),
		utils.FormatHours(r.DifferenceHours),
		utils.FormatPercent(r.PercentComplete),
		r.Labels,
	}
}

// TotalsCells renders the totals row aligned with IssueTableHeader.
func TotalsCells(t model.Totals) []string {
	return []string{
		"Total", "", "", "", "",
		utils.FormatHours(t.EstimateHours),
		utils.FormatHours(t.SpentHours),
		utils.FormatHours(t.DifferenceHours),
		utils.FormatPercent(t.MeanPercent),
		"",
	}
}
