// Package report filters, groups and tabulates issues for the overview,
// task and printable report views, and for their file exports.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/schedule"
)

const queryDateLayout = "2006-01-02"

// DateRange bounds the creation date of reported items. Both ends are
// inclusive and optional.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

func (r DateRange) Unbounded() bool {
	return r.Start == nil && r.End == nil
}

// ParseDateRange reads two YYYY-MM-DD values. A blank value leaves that side
// open. The end date covers the whole day.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	if s := strings.TrimSpace(start); s != "" {
		t, err := time.Parse(queryDateLayout, s)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid start date %q, use YYYY-MM-DD", s)
		}
		r.Start = &t
	}
	if e := strings.TrimSpace(end); e != "" {
		t, err := time.Parse(queryDateLayout, e)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid end date %q, use YYYY-MM-DD", e)
		}
		t = t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		r.End = &t
	}
	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return DateRange{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return r, nil
}

// Filter selects issues by creation date, project and assignee name. Zero
// fields pass everything through.
type Filter struct {
	Range      DateRange
	ProjectIDs []int64
	Assignee   string
}

func (f Filter) matchProject(projectID int64) bool {
	if len(f.ProjectIDs) == 0 {
		return true
	}
	for _, id := range f.ProjectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}

func (f Filter) matchCreated(createdAt string) bool {
	if f.Range.Unbounded() {
		return true
	}
	t, ok := schedule.ParseTimestamp(createdAt)
	if !ok {
		return false
	}
	return f.Range.Contains(t)
}

// MatchIssue applies every criterion to one issue.
func (f Filter) MatchIssue(issue model.Issue) bool {
	if !f.matchCreated(issue.CreatedAt) || !f.matchProject(issue.ProjectID) {
		return false
	}
	if f.Assignee == "" {
		return true
	}
	for _, a := range issue.Assignees {
		if a.Name == f.Assignee {
			return true
		}
	}
	return false
}

// FilterIssues returns the issues matching f in input order.
func FilterIssues(issues []model.Issue, f Filter) []model.Issue {
	out := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if f.MatchIssue(issue) {
			out = append(out, issue)
		}
	}
	return out
}

// FilterMergeRequests applies the date and project criteria of f. Merge
// requests carry no assignee list here so the assignee criterion is ignored.
func FilterMergeRequests(mrs []model.MergeRequest, f Filter) []model.MergeRequest {
	out := make([]model.MergeRequest, 0, len(mrs))
	for _, mr := range mrs {
		if f.matchCreated(mr.CreatedAt) && f.matchProject(mr.ProjectID) {
			out = append(out, mr)
		}
	}
	return out
}

// Assignees lists the distinct assignees of issues, by first appearance.
func Assignees(issues []model.Issue) []model.Assignee {
	seen := map[int64]struct{}{}
	out := []model.Assignee{}
	for _, issue := range issues {
		for _, a := range issue.Assignees {
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}
