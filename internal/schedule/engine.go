// Package schedule turns GitLab issues into Gantt bars.
package schedule

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

// DefaultSpan is the bar length of an issue without a due date.
const DefaultSpan = 7 * 24 * time.Hour

const (
	PlaceholderID   = "placeholder"
	PlaceholderName = "No tasks found"
	placeholderGray = "#E0E0E0"
)

var stateStyles = map[model.TaskState]model.BarStyle{
	model.StateOverdue: {
		BackgroundColor:         "#ff0000",
		BackgroundSelectedColor: "#FF6961",
		ProgressColor:           "#008040",
		ProgressSelectedColor:   "#FACA22",
	},
	model.StateNotStarted: {
		BackgroundColor:         "#c1c5c9",
		BackgroundSelectedColor: "#32CD32",
		ProgressColor:           "#008040",
		ProgressSelectedColor:   "#FACA22",
	},
	model.StateInProgress: {
		BackgroundColor:         "#0D6EFD",
		BackgroundSelectedColor: "#0056b3",
		ProgressColor:           "#008040",
		ProgressSelectedColor:   "#FACA22",
	},
	model.StateDone: {
		BackgroundColor:         "#008040",
		BackgroundSelectedColor: "#006633",
		ProgressColor:           "#008040",
		ProgressSelectedColor:   "#FACA22",
	},
}

var stateLabels = map[model.TaskState]string{
	model.StateOverdue:    "Overdue",
	model.StateNotStarted: "To do",
	model.StateInProgress: "In progress",
	model.StateDone:       "Done",
}

// StyleFor returns the bar colors of a classification.
func StyleFor(state model.TaskState) model.BarStyle {
	return stateStyles[state]
}

// Legend returns the legend entries in display order.
func Legend() []model.LegendEntry {
	out := make([]model.LegendEntry, 0, len(model.AllTaskStates))
	for _, st := range model.AllTaskStates {
		out = append(out, model.LegendEntry{State: st, Label: stateLabels[st], Color: stateStyles[st].BackgroundColor})
	}
	return out
}

// StateFilter decides whether bars of a classification are shown.
type StateFilter func(model.TaskState) bool

// Options tunes Build. The zero value shows every state and uses the
// "Issue #N" dependency heuristic.
type Options struct {
	Filter      StateFilter
	Extractor   DependencyExtractor
	ProjectName string
}

// Build maps issues to schedule bars, in input order. It never returns an
// empty slice: when nothing survives the filter a single placeholder bar
// spanning the month of now is returned.
func Build(issues []model.Issue, now time.Time, opts Options) []model.ScheduleTask {
	extractor := opts.Extractor
	if extractor == nil {
		extractor = IssueRefExtractor{}
	}

	tasks := make([]model.ScheduleTask, 0, len(issues))
	for _, issue := range issues {
		task := Transform(issue, now, extractor)
		if opts.Filter != nil && !opts.Filter(task.State) {
			continue
		}
		task.Project = opts.ProjectName
		tasks = append(tasks, task)
	}

	if len(tasks) == 0 {
		return []model.ScheduleTask{Placeholder(now, opts.ProjectName)}
	}
	return tasks
}

// Transform builds the bar of a single issue.
func Transform(issue model.Issue, now time.Time, extractor DependencyExtractor) model.ScheduleTask {
	start, ok := ParseTimestamp(issue.CreatedAt)
	if !ok {
		start = now
	}
	end, hasDue := dueEnd(issue.DueDate, start)

	overdue := hasDue && now.After(end) && issue.State != model.IssueClosed
	notStarted := issue.State == model.IssueOpened && issue.TimeStats.TotalTimeSpent == 0
	state := classify(issue.State, overdue, notStarted)

	progress := 0
	name := issue.Title
	if !notStarted {
		progress = int(math.Round(progressPercent(issue, start, end, now)))
		name = fmt.Sprintf("%s (%d%%)", issue.Title, progress)
	}

	var deps []string
	if extractor != nil {
		deps = extractor.ExtractDeclaredDependencies(issue.Description)
	}
	if deps == nil {
		deps = []string{}
	}

	task := model.ScheduleTask{
		ID:           strconv.FormatInt(issue.IID, 10),
		Name:         name,
		Start:        start,
		End:          end,
		Progress:     progress,
		State:        state,
		Type:         "task",
		Styles:       stateStyles[state],
		Dependencies: deps,
	}
	if len(deps) > 0 {
		task.Dependency = deps[0]
	}
	if len(issue.Assignees) > 0 {
		task.Assignee = &model.TaskAssignee{
			Name:      issue.Assignees[0].Name,
			AvatarURL: issue.Assignees[0].AvatarURL,
		}
	}
	return task
}

// Placeholder is the bar shown when no issue survives filtering.
func Placeholder(now time.Time, projectName string) model.ScheduleTask {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return model.ScheduleTask{
		ID:           PlaceholderID,
		Name:         PlaceholderName,
		Start:        monthStart,
		End:          monthEnd,
		Progress:     0,
		Type:         "task",
		Project:      projectName,
		Styles:       model.BarStyle{BackgroundColor: placeholderGray},
		Dependencies: []string{},
		Placeholder:  true,
	}
}

func classify(state string, overdue, notStarted bool) model.TaskState {
	switch {
	case overdue:
		return model.StateOverdue
	case notStarted:
		return model.StateNotStarted
	case state == model.IssueOpened:
		return model.StateInProgress
	default:
		return model.StateDone
	}
}

func progressPercent(issue model.Issue, start, end, now time.Time) float64 {
	est := issue.TimeStats.TimeEstimate
	spent := issue.TimeStats.TotalTimeSpent
	switch {
	case est > 0:
		return clampPercent(100 * float64(spent) / float64(est))
	case issue.State == model.IssueClosed:
		return 100
	}

	total := end.Sub(start)
	if total <= 0 {
		if !now.Before(end) {
			return 100
		}
		return 0
	}
	return clampPercent(100 * float64(now.Sub(start)) / float64(total))
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// dueEnd returns the bar end and whether it came from an explicit due date.
// A due date earlier than start is pulled up to start.
func dueEnd(due *string, start time.Time) (time.Time, bool) {
	if due == nil || *due == "" {
		return start.Add(DefaultSpan), false
	}
	end, ok := ParseTimestamp(*due)
	if !ok {
		return start.Add(DefaultSpan), false
	}
	if end.Before(start) {
		end = start
	}
	return end, true
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the GitLab timestamp and date formats.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
