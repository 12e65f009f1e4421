package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

func fixtureReport() model.ProjectReport {
	return BuildProjectReport(ReportInput{
		Project: model.Project{ID: 100, Name: "Web", Description: strPtr("Customer portal"), CreatedAt: "2023-12-01T00:00:00Z"},
		Issues:  fixtureIssues()[:2],
		Milestones: []model.Milestone{
			{Title: "v1", DueDate: strPtr("2024-03-01"), State: "active"},
			{Title: "v2", State: "active"},
		},
		Labels:     []model.Label{{Name: "frontend"}, {Name: "backend"}},
		Statistics: &model.IssuesStatistics{TotalCount: 2, OpenedCount: 1, ClosedCount: 1},
		Users:      []model.UserInfo{{ID: 1, Name: "Alice", Username: "alice", Email: "alice@example.com"}},
		Events: []model.Event{
			{ActionName: "opened", CreatedAt: "2024-01-02T08:00:00Z", Author: &model.Assignee{Name: "Alice"}},
			{ActionName: "closed", CreatedAt: "2024-01-12T08:00:00Z"},
		},
	}, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC))
}

func TestSectionsOrderAndContent(t *testing.T) {
	r := fixtureReport()
	sections := Sections(r)

	var titles []string
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{
		SectionIssues, SectionMilestones, SectionLabels,
		SectionStatistics, SectionUsers, SectionActivity,
	}, titles)

	require.Len(t, sections[0].Rows, 2)
	assert.Equal(t, RowHeader, sections[0].Header)
	for i, row := range r.Rows {
		assert.Equal(t, Cells(row), sections[0].Rows[i])
	}

	assert.Equal(t, []string{"v1", "01-03-2024", "active"}, sections[1].Rows[0])
	assert.Equal(t, "Unknown date", sections[1].Rows[1][1])
	assert.Equal(t, [][]string{{"frontend"}, {"backend"}}, sections[2].Rows)
	assert.Equal(t, [][]string{{"2", "1", "1"}}, sections[3].Rows)
	assert.Equal(t, [][]string{{"1", "Alice", "alice", "alice@example.com"}}, sections[4].Rows)
	assert.Equal(t, []string{"02-01-2024", "opened", "Alice"}, sections[5].Rows[0])
	assert.Equal(t, "Unknown", sections[5].Rows[1][2])
}

func TestSectionsEmptyReport(t *testing.T) {
	sections := Sections(BuildProjectReport(ReportInput{Project: model.Project{Name: "Empty"}}, time.Now()))
	require.Len(t, sections, 6)
	for _, s := range sections {
		assert.Empty(t, s.Rows, s.Title)
		assert.NotEmpty(t, s.Empty, s.Title)
	}
}

func TestSummaryLines(t *testing.T) {
	lines := SummaryLines(fixtureReport())
	assert.Equal(t, []string{
		"Project: Web",
		"Description: Customer portal",
		"Created: 01-12-2023",
		"Generated: 01-03-2024 09:30",
		"Issues: 2",
	}, lines)
}

func TestAssignedUserIDs(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, AssignedUserIDs(fixtureIssues()))
	assert.Empty(t, AssignedUserIDs(nil))
}
