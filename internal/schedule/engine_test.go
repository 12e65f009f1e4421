package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func issue(iid int64, state, created string, due *string, est, spent int64) model.Issue {
	return model.Issue{
		ID:        iid * 100,
		IID:       iid,
		Title:     "Issue title",
		State:     state,
		CreatedAt: created,
		DueDate:   due,
		TimeStats: model.TimeStats{TimeEstimate: est, TotalTimeSpent: spent},
	}
}

func TestBuildNotStartedWithoutDueDate(t *testing.T) {
	in := issue(1, model.IssueOpened, "2024-01-01", nil, 0, 0)
	tasks := Build([]model.Issue{in}, day(2024, 1, 10), Options{})

	require.Len(t, tasks, 1)
	task := tasks[0]
	assert.Equal(t, "1", task.ID)
	assert.Equal(t, model.StateNotStarted, task.State)
	assert.Equal(t, day(2024, 1, 1), task.Start)
	assert.Equal(t, day(2024, 1, 8), task.End)
	assert.Equal(t, 0, task.Progress)
	assert.Equal(t, "Issue title", task.Name)
	assert.Equal(t, "#c1c5c9", task.Styles.BackgroundColor)
}

func TestBuildOverdueWithEstimate(t *testing.T) {
	in := issue(2, model.IssueOpened, "2024-01-01", strPtr("2024-01-05"), 3600, 1800)
	tasks := Build([]model.Issue{in}, day(2024, 1, 10), Options{})

	require.Len(t, tasks, 1)
	assert.Equal(t, model.StateOverdue, tasks[0].State)
	assert.Equal(t, 50, tasks[0].Progress)
	assert.Equal(t, "Issue title (50%)", tasks[0].Name)
	assert.Equal(t, day(2024, 1, 5), tasks[0].End)
	assert.Equal(t, "#ff0000", tasks[0].Styles.BackgroundColor)
}

func TestBuildDueDateBeforeNowIsOverdueUnlessClosed(t *testing.T) {
	now := day(2024, 3, 1)
	open := issue(3, model.IssueOpened, "2024-01-01T09:30:00.000Z", strPtr("2024-02-01"), 0, 0)
	closed := issue(4, model.IssueClosed, "2024-01-01T09:30:00.000Z", strPtr("2024-02-01"), 0, 0)

	tasks := Build([]model.Issue{open, closed}, now, Options{})
	require.Len(t, tasks, 2)
	assert.Equal(t, model.StateOverdue, tasks[0].State)
	assert.Equal(t, model.StateDone, tasks[1].State)
}

func TestBuildClosedProgress(t *testing.T) {
	now := day(2024, 1, 3)
	noEstimate := issue(5, model.IssueClosed, "2024-01-01", nil, 0, 0)
	overSpent := issue(6, model.IssueClosed, "2024-01-01", nil, 3600, 7200)

	tasks := Build([]model.Issue{noEstimate, overSpent}, now, Options{})
	require.Len(t, tasks, 2)
	assert.Equal(t, 100, tasks[0].Progress)
	assert.Equal(t, "Issue title (100%)", tasks[0].Name)
	assert.Equal(t, 100, tasks[1].Progress)
	assert.Equal(t, model.StateDone, tasks[1].State)
	assert.Equal(t, "#008040", tasks[1].Styles.BackgroundColor)
}

func TestBuildProgressClampedWhenSpentExceedsEstimate(t *testing.T) {
	in := issue(7, model.IssueOpened, "2024-01-01", nil, 60, 600)
	tasks := Build([]model.Issue{in}, day(2024, 1, 2), Options{})
	assert.Equal(t, 100, tasks[0].Progress)
	assert.Equal(t, model.StateInProgress, tasks[0].State)
}

func TestBuildElapsedRatioWithoutEstimate(t *testing.T) {
	in := issue(8, model.IssueOpened, "2024-01-01", nil, 0, 60)
	now := time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC)

	tasks := Build([]model.Issue{in}, now, Options{})
	assert.Equal(t, 50, tasks[0].Progress)
	assert.Equal(t, model.StateInProgress, tasks[0].State)
	assert.Equal(t, "#0D6EFD", tasks[0].Styles.BackgroundColor)
}

func TestBuildProgressNeverNegative(t *testing.T) {
	in := issue(9, model.IssueOpened, "2024-02-01", nil, 0, 60)
	tasks := Build([]model.Issue{in}, day(2024, 1, 1), Options{})
	assert.Equal(t, 0, tasks[0].Progress)
}

func TestBuildMalformedCreatedAtFallsBackToNow(t *testing.T) {
	now := day(2024, 5, 5)
	in := issue(10, model.IssueOpened, "not a date", nil, 0, 0)

	tasks := Build([]model.Issue{in}, now, Options{})
	require.Len(t, tasks, 1)
	assert.Equal(t, now, tasks[0].Start)
	assert.Equal(t, now.Add(DefaultSpan), tasks[0].End)
}

func TestBuildDueDateBeforeCreationKeepsEndAfterStart(t *testing.T) {
	in := issue(11, model.IssueOpened, "2024-01-10", strPtr("2024-01-01"), 0, 30)
	tasks := Build([]model.Issue{in}, day(2024, 1, 9), Options{})
	assert.False(t, tasks[0].End.Before(tasks[0].Start))
}

func TestBuildAssigneeAndDependencies(t *testing.T) {
	in := issue(12, model.IssueOpened, "2024-01-01", nil, 0, 0)
	in.Description = "Blocked by Issue #42 and Issue #7"
	in.Assignees = []model.Assignee{
		{ID: 1, Name: "Ada", AvatarURL: "https://gitlab.example/ada.png"},
		{ID: 2, Name: "Linus"},
	}

	tasks := Build([]model.Issue{in}, day(2024, 1, 2), Options{ProjectName: "core"})
	require.Len(t, tasks, 1)
	assert.Equal(t, []string{"42", "7"}, tasks[0].Dependencies)
	assert.Equal(t, "42", tasks[0].Dependency)
	require.NotNil(t, tasks[0].Assignee)
	assert.Equal(t, "Ada", tasks[0].Assignee.Name)
	assert.Equal(t, "core", tasks[0].Project)
}

func TestBuildFilterAndPlaceholder(t *testing.T) {
	now := time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)
	issues := []model.Issue{
		issue(1, model.IssueOpened, "2024-02-01", nil, 0, 0),
		issue(2, model.IssueClosed, "2024-02-01", nil, 0, 10),
	}

	onlyDone := ActiveStates{model.StateDone: true}
	tasks := Build(issues, now, Options{Filter: onlyDone.Filter()})
	require.Len(t, tasks, 1)
	assert.Equal(t, "2", tasks[0].ID)

	tasks = Build(issues, now, Options{Filter: ActiveStates{}.Filter(), ProjectName: "core"})
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Placeholder)
	assert.Equal(t, PlaceholderName, tasks[0].Name)
	assert.Equal(t, day(2024, 2, 1), tasks[0].Start)
	assert.Equal(t, 2024, tasks[0].End.Year())
	assert.Equal(t, time.February, tasks[0].End.Month())
	assert.Equal(t, 29, tasks[0].End.Day())

	tasks = Build(nil, now, Options{})
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Placeholder)
}

func TestBuildPreservesOrderAndIsIdempotent(t *testing.T) {
	now := day(2024, 1, 20)
	issues := []model.Issue{
		issue(3, model.IssueOpened, "2024-01-03", nil, 0, 5),
		issue(1, model.IssueClosed, "2024-01-01", nil, 0, 5),
		issue(2, model.IssueOpened, "2024-01-02", strPtr("2024-01-04"), 0, 0),
	}

	first := Build(issues, now, Options{})
	second := Build(issues, now, Options{})
	assert.Equal(t, first, second)

	ids := make([]string, 0, len(first))
	for _, task := range first {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"3", "1", "2"}, ids)
}

func TestBuildEveryIssueGetsExactlyOneState(t *testing.T) {
	now := day(2024, 1, 15)
	states := []string{model.IssueOpened, model.IssueClosed, "locked"}
	for _, st := range states {
		for _, spent := range []int64{0, 100} {
			for _, due := range []*string{nil, strPtr("2024-01-02"), strPtr("2024-02-02")} {
				task := Transform(issue(1, st, "2024-01-01", due, 0, spent), now, IssueRefExtractor{})
				assert.Contains(t, model.AllTaskStates, task.State)
				assert.GreaterOrEqual(t, task.Progress, 0)
				assert.LessOrEqual(t, task.Progress, 100)
			}
		}
	}
}

func TestLegendOrder(t *testing.T) {
	legend := Legend()
	require.Len(t, legend, 4)
	assert.Equal(t, model.StateOverdue, legend[0].State)
	assert.Equal(t, "#ff0000", legend[0].Color)
	assert.Equal(t, model.StateDone, legend[3].State)
	assert.Equal(t, "#008040", legend[3].Color)
}
