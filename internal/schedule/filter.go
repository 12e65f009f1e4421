package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

// ActiveStates is the legend toggle set. A state missing from the map is
// treated as deselected.
type ActiveStates map[model.TaskState]bool

// AllActive returns a set with every classification enabled.
func AllActive() ActiveStates {
	out := ActiveStates{}
	for _, st := range model.AllTaskStates {
		out[st] = true
	}
	return out
}

func (a ActiveStates) Allows(state model.TaskState) bool {
	return a[state]
}

// Filter adapts the set to a StateFilter.
func (a ActiveStates) Filter() StateFilter {
	return a.Allows
}

// ParseActiveStates reads a comma separated list such as
// "Overdue,InProgress". An empty string selects every state.
func ParseActiveStates(raw string) (ActiveStates, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return AllActive(), nil
	}
	out := ActiveStates{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		matched := false
		for _, st := range model.AllTaskStates {
			if strings.EqualFold(part, string(st)) {
				out[st] = true
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("unknown task state %q", part)
		}
	}
	return out, nil
}

// SortByDueDate returns a copy of issues ordered by due date. Issues
// without a parseable due date go last in either direction.
func SortByDueDate(issues []model.Issue, descending bool) []model.Issue {
	sorted := make([]model.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, okI := dueOf(sorted[i])
		dj, okJ := dueOf(sorted[j])
		if !okI || !okJ {
			return okI && !okJ
		}
		if descending {
			return di.After(dj)
		}
		return di.Before(dj)
	})
	return sorted
}

// OpenedOnly keeps the issues still in the opened state.
func OpenedOnly(issues []model.Issue) []model.Issue {
	out := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.State == model.IssueOpened {
			out = append(out, issue)
		}
	}
	return out
}

func dueOf(issue model.Issue) (time.Time, bool) {
	if issue.DueDate == nil {
		return time.Time{}, false
	}
	return ParseTimestamp(*issue.DueDate)
}
