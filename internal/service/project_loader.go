package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

// ErrStaleLoad is returned by a load that a newer load of the same session
// superseded. Its result is discarded.
var ErrStaleLoad = errors.New("superseded by a newer load")

// ProjectSource is the part of the GitLab API a project load needs.
type ProjectSource interface {
	GetProject(ctx context.Context, projectID int64) (*model.Project, error)
	ListIssues(ctx context.Context, projectID int64) ([]model.Issue, error)
	ListMembers(ctx context.Context, projectID int64) ([]model.Member, error)
	ListMergeRequests(ctx context.Context, projectID int64) ([]model.MergeRequest, error)
}

// ProjectBundle is the snapshot published by one successful load.
type ProjectBundle struct {
	Project       model.Project        `json:"project"`
	Issues        []model.Issue        `json:"issues"`
	Members       []model.Member       `json:"members"`
	MergeRequests []model.MergeRequest `json:"merge_requests"`
	LoadedAt      time.Time            `json:"loaded_at"`
	Generation    uint64               `json:"generation"`
}

type loadState struct {
	gen    uint64
	cancel context.CancelFunc
	bundle *ProjectBundle
}

// ProjectLoader fetches a project's issues, members and merge requests
// concurrently and publishes them together. Each session keeps a generation
// counter: starting a load cancels the previous one and only the newest load
// may publish.
type ProjectLoader struct {
	Now func() time.Time

	mu     sync.Mutex
	states map[string]*loadState
}

func NewProjectLoader() *ProjectLoader {
	return &ProjectLoader{Now: time.Now, states: map[string]*loadState{}}
}

func (l *ProjectLoader) begin(ctx context.Context, sessionID string) (context.Context, *loadState, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.states[sessionID]
	if !ok {
		st = &loadState{}
		l.states[sessionID] = st
	}
	if st.cancel != nil {
		st.cancel()
	}
	st.gen++
	ctx, cancel := context.WithCancel(ctx)
	st.cancel = cancel
	return ctx, st, st.gen
}

// Load runs one load for the session. A failed load clears the published
// bundle so no stale lists remain.
func (l *ProjectLoader) Load(ctx context.Context, sessionID string, src ProjectSource, projectID int64) (*ProjectBundle, error) {
	ctx, st, gen := l.begin(ctx, sessionID)

	b := &ProjectBundle{Generation: gen}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := src.GetProject(gctx, projectID)
		if err != nil {
			return fmt.Errorf("project: %w", err)
		}
		b.Project = *p
		return nil
	})
	g.Go(func() error {
		issues, err := src.ListIssues(gctx, projectID)
		if err != nil {
			return fmt.Errorf("issues: %w", err)
		}
		b.Issues = issues
		return nil
	})
	g.Go(func() error {
		members, err := src.ListMembers(gctx, projectID)
		if err != nil {
			return fmt.Errorf("members: %w", err)
		}
		b.Members = members
		return nil
	})
	g.Go(func() error {
		mrs, err := src.ListMergeRequests(gctx, projectID)
		if err != nil {
			return fmt.Errorf("merge requests: %w", err)
		}
		b.MergeRequests = mrs
		return nil
	})
	err := g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.states[sessionID] != st || st.gen != gen {
		log.Printf("[loader] project %d load %d discarded as stale", projectID, gen)
		return nil, ErrStaleLoad
	}
	st.cancel()
	st.cancel = nil
	if err != nil {
		st.bundle = nil
		return nil, err
	}
	b.LoadedAt = l.Now()
	st.bundle = b
	return b, nil
}

// Current returns the published bundle of the session if it belongs to
// projectID.
func (l *ProjectLoader) Current(sessionID string, projectID int64) (*ProjectBundle, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.states[sessionID]
	if !ok || st.bundle == nil || st.bundle.Project.ID != projectID {
		return nil, false
	}
	return st.bundle, true
}

// Ensure returns the current bundle or loads one.
func (l *ProjectLoader) Ensure(ctx context.Context, sessionID string, src ProjectSource, projectID int64) (*ProjectBundle, error) {
	if b, ok := l.Current(sessionID, projectID); ok {
		return b, nil
	}
	return l.Load(ctx, sessionID, src, projectID)
}

// UpdateIssue replaces one issue of the published bundle after a write.
func (l *ProjectLoader) UpdateIssue(sessionID string, issue model.Issue) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.states[sessionID]
	if !ok || st.bundle == nil || st.bundle.Project.ID != issue.ProjectID {
		return
	}
	next := *st.bundle
	next.Issues = make([]model.Issue, len(st.bundle.Issues))
	copy(next.Issues, st.bundle.Issues)
	for i := range next.Issues {
		if next.Issues[i].IID == issue.IID {
			next.Issues[i] = issue
		}
	}
	st.bundle = &next
}

// Forget cancels any in-flight load and drops the session state.
func (l *ProjectLoader) Forget(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.states[sessionID]; ok {
		if st.cancel != nil {
			st.cancel()
		}
		delete(l.states, sessionID)
	}
}
