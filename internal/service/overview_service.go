package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

const overviewWorkers = 6

// OverviewSource is the part of the GitLab API the dashboard and calendar
// need.
type OverviewSource interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListIssues(ctx context.Context, projectID int64) ([]model.Issue, error)
	ListMergeRequests(ctx context.Context, projectID int64) ([]model.MergeRequest, error)
}

// Overview holds every project of the user with their issues and merge
// requests.
type Overview struct {
	Projects      []model.Project
	Issues        []model.Issue
	MergeRequests []model.MergeRequest
}

// LoadProjects lists the projects of the user.
func LoadProjects(ctx context.Context, src OverviewSource) ([]model.Project, error) {
	projects, err := src.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("projects: %w", err)
	}
	return projects, nil
}

// LoadOverview fetches issues and merge requests of every project
// concurrently. Results keep project order.
func LoadOverview(ctx context.Context, src OverviewSource) (*Overview, error) {
	projects, err := LoadProjects(ctx, src)
	if err != nil {
		return nil, err
	}

	issues := make([][]model.Issue, len(projects))
	mrs := make([][]model.MergeRequest, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overviewWorkers)
	for i, p := range projects {
		g.Go(func() error {
			list, err := src.ListIssues(gctx, p.ID)
			if err != nil {
				return fmt.Errorf("issues of project %d: %w", p.ID, err)
			}
			issues[i] = list
			return nil
		})
		g.Go(func() error {
			list, err := src.ListMergeRequests(gctx, p.ID)
			if err != nil {
				return fmt.Errorf("merge requests of project %d: %w", p.ID, err)
			}
			mrs[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Overview{Projects: projects, Issues: []model.Issue{}, MergeRequests: []model.MergeRequest{}}
	for i := range projects {
		out.Issues = append(out.Issues, issues[i]...)
		out.MergeRequests = append(out.MergeRequests, mrs[i]...)
	}
	return out, nil
}
