package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

const defaultNotesWorkers = 8

// NotesSource lists the notes of an issue.
type NotesSource interface {
	ListIssueNotes(ctx context.Context, projectID, issueIID int64) ([]model.Note, error)
}

// InactivityReport aggregates the inactive issues of one project.
type InactivityReport struct {
	ProjectID     int64     `json:"project_id"`
	Checked       int       `json:"checked"`
	Count         int       `json:"count"`
	IssueIIDs     []int64   `json:"issue_iids"`
	Notifications []string  `json:"notifications"`
	CheckedAt     time.Time `json:"checked_at"`
}

// InactivityChecker finds opened issues nobody has touched: no due date, no
// estimate and no notes.
type InactivityChecker struct {
	Workers int
	Now     func() time.Time
}

func NewInactivityChecker(workers int) *InactivityChecker {
	if workers <= 0 {
		workers = defaultNotesWorkers
	}
	return &InactivityChecker{Workers: workers, Now: time.Now}
}

// Candidate reports whether an issue needs its notes checked.
func Candidate(issue model.Issue) bool {
	return issue.State == model.IssueOpened &&
		(issue.DueDate == nil || *issue.DueDate == "") &&
		issue.TimeStats.TimeEstimate == 0
}

// Check fetches notes for every candidate concurrently and aggregates a
// single count. progress, when non-nil, receives one message per checked
// issue; it is not closed.
func (c *InactivityChecker) Check(ctx context.Context, src NotesSource, projectID int64, issues []model.Issue, progress chan<- string) (*InactivityReport, error) {
	var candidates []model.Issue
	for _, issue := range issues {
		if Candidate(issue) {
			candidates = append(candidates, issue)
		}
	}

	inactive := make([]bool, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Workers)
	for i, issue := range candidates {
		g.Go(func() error {
			notes, err := src.ListIssueNotes(gctx, projectID, issue.IID)
			if err != nil {
				return fmt.Errorf("notes of issue #%d: %w", issue.IID, err)
			}
			inactive[i] = len(notes) == 0
			if progress != nil {
				select {
				case progress <- fmt.Sprintf("checked issue #%d", issue.IID):
				case <-gctx.Done():
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &InactivityReport{
		ProjectID:     projectID,
		Checked:       len(candidates),
		IssueIIDs:     []int64{},
		Notifications: []string{},
		CheckedAt:     c.Now(),
	}
	for i, ok := range inactive {
		if ok {
			out.IssueIIDs = append(out.IssueIIDs, candidates[i].IID)
		}
	}
	out.Count = len(out.IssueIIDs)
	if out.Count > 0 {
		out.Notifications = append(out.Notifications,
			fmt.Sprintf("There are %d open issue(s) without activity. Please update them.", out.Count))
	}
	return out, nil
}
