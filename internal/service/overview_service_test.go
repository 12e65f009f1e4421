package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

type fakeOverviewSource struct {
	projects []model.Project
	failMRs  int64
}

func (f *fakeOverviewSource) ListProjects(context.Context) ([]model.Project, error) {
	return f.projects, nil
}

func (f *fakeOverviewSource) ListIssues(_ context.Context, id int64) ([]model.Issue, error) {
	return []model.Issue{{ID: id * 10, ProjectID: id}, {ID: id*10 + 1, ProjectID: id}}, nil
}

func (f *fakeOverviewSource) ListMergeRequests(_ context.Context, id int64) ([]model.MergeRequest, error) {
	if id == f.failMRs {
		return nil, errors.New("forbidden")
	}
	return []model.MergeRequest{{ID: id * 100, ProjectID: id}}, nil
}

func TestLoadOverviewKeepsProjectOrder(t *testing.T) {
	src := &fakeOverviewSource{projects: []model.Project{{ID: 3}, {ID: 1}, {ID: 2}}}
	ov, err := LoadOverview(context.Background(), src)
	require.NoError(t, err)

	var issueIDs, mrIDs []int64
	for _, i := range ov.Issues {
		issueIDs = append(issueIDs, i.ID)
	}
	for _, m := range ov.MergeRequests {
		mrIDs = append(mrIDs, m.ID)
	}
	assert.Equal(t, []int64{30, 31, 10, 11, 20, 21}, issueIDs)
	assert.Equal(t, []int64{300, 100, 200}, mrIDs)
}

func TestLoadOverviewFails(t *testing.T) {
	src := &fakeOverviewSource{projects: []model.Project{{ID: 1}, {ID: 2}}, failMRs: 2}
	_, err := LoadOverview(context.Background(), src)
	assert.ErrorContains(t, err, "merge requests of project 2")
}

func TestLoadOverviewNoProjects(t *testing.T) {
	ov, err := LoadOverview(context.Background(), &fakeOverviewSource{})
	require.NoError(t, err)
	assert.Empty(t, ov.Issues)
	assert.NotNil(t, ov.MergeRequests)
}
