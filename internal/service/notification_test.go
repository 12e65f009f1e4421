package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

type notesByIID struct {
	notes map[int64]int
	fail  int64
	calls atomic.Int32
}

func (n *notesByIID) ListIssueNotes(_ context.Context, _ int64, iid int64) ([]model.Note, error) {
	n.calls.Add(1)
	if iid == n.fail {
		return nil, errors.New("notes unavailable")
	}
	return make([]model.Note, n.notes[iid]), nil
}

func strp(s string) *string { return &s }

func inactivityIssues() []model.Issue {
	return []model.Issue{
		{IID: 1, State: model.IssueOpened},
		{IID: 2, State: model.IssueOpened},
		{IID: 3, State: model.IssueClosed},
		{IID: 4, State: model.IssueOpened, DueDate: strp("2024-02-01")},
		{IID: 5, State: model.IssueOpened, TimeStats: model.TimeStats{TimeEstimate: 3600}},
		{IID: 6, State: model.IssueOpened},
	}
}

func TestInactivityCheck(t *testing.T) {
	src := &notesByIID{notes: map[int64]int{2: 3}}
	checker := NewInactivityChecker(2)

	got, err := checker.Check(context.Background(), src, 9, inactivityIssues(), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), src.calls.Load())
	assert.Equal(t, 3, got.Checked)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, []int64{1, 6}, got.IssueIIDs)
	require.Len(t, got.Notifications, 1)
	assert.Contains(t, got.Notifications[0], "2 open issue(s)")
}

func TestInactivityCheckNothingInactive(t *testing.T) {
	src := &notesByIID{notes: map[int64]int{1: 1, 2: 1, 6: 1}}
	got, err := NewInactivityChecker(0).Check(context.Background(), src, 9, inactivityIssues(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Count)
	assert.Empty(t, got.Notifications)
	assert.NotNil(t, got.IssueIIDs)
}

func TestInactivityCheckFailsWhole(t *testing.T) {
	src := &notesByIID{fail: 6}
	_, err := NewInactivityChecker(4).Check(context.Background(), src, 9, inactivityIssues(), nil)
	assert.ErrorContains(t, err, "issue #6")
}

func TestInactivityCheckReportsProgress(t *testing.T) {
	src := &notesByIID{}
	progress := make(chan string, 10)
	_, err := NewInactivityChecker(1).Check(context.Background(), src, 9, inactivityIssues(), progress)
	require.NoError(t, err)
	assert.Len(t, progress, 3)
}
