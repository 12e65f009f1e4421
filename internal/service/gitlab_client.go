package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

const (
	perPage  = 100
	maxPages = 1000
)

// ErrNotConfigured means the GitLab URL or token is missing.
var ErrNotConfigured = errors.New("gitlab url or token not configured")

// APIError is a non-2xx answer from GitLab.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gitlab api error %d: %s", e.StatusCode, e.Body)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// GitLabClient calls the GitLab v4 REST API with a personal access token.
type GitLabClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewGitLabClient normalizes baseURL to the /api/v4 root.
func NewGitLabClient(baseURL, token string, timeout time.Duration) *GitLabClient {
	return &GitLabClient{
		BaseURL: APIRoot(baseURL),
		Token:   strings.TrimSpace(token),
		Client:  &http.Client{Timeout: timeout},
	}
}

// APIRoot turns an instance URL such as https://gitlab.example.com into its
// API root.
func APIRoot(baseURL string) string {
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if u == "" || strings.HasSuffix(u, "/api/v4") {
		return u
	}
	return u + "/api/v4"
}

func (c *GitLabClient) endpoint(path string, q url.Values) string {
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// doRequest does an authenticated call and returns the body and headers.
func (c *GitLabClient) doRequest(ctx context.Context, method, url string, payload interface{}) ([]byte, http.Header, error) {
	if c.BaseURL == "" || c.Token == "" {
		return nil, nil, ErrNotConfigured
	}
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("PRIVATE-TOKEN", c.Token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, resp.Header, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return b, resp.Header, nil
}

func (c *GitLabClient) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	b, _, err := c.doRequest(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// getAll follows X-Next-Page until GitLab reports no further page.
func getAll[T any](ctx context.Context, c *GitLabClient, path string, q url.Values) ([]T, error) {
	if q == nil {
		q = url.Values{}
	}
	q.Set("per_page", strconv.Itoa(perPage))
	out := []T{}
	page := 1
	for i := 0; i < maxPages; i++ {
		q.Set("page", strconv.Itoa(page))
		b, header, err := c.doRequest(ctx, http.MethodGet, c.endpoint(path, q), nil)
		if err != nil {
			return nil, err
		}
		var batch []T
		if err := json.Unmarshal(b, &batch); err != nil {
			return nil, fmt.Errorf("decode %s page %d: %w", path, page, err)
		}
		out = append(out, batch...)

		next, err := strconv.Atoi(strings.TrimSpace(header.Get("X-Next-Page")))
		if err != nil || next <= page {
			break
		}
		page = next
	}
	return out, nil
}

func projectPath(projectID int64, parts ...string) string {
	p := "/projects/" + strconv.FormatInt(projectID, 10)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// CurrentUser is GET /user; it doubles as the credential check at login.
func (c *GitLabClient) CurrentUser(ctx context.Context) (*model.UserInfo, error) {
	var u model.UserInfo
	if err := c.getJSON(ctx, "/user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *GitLabClient) GetUser(ctx context.Context, userID int64) (*model.UserInfo, error) {
	var u model.UserInfo
	if err := c.getJSON(ctx, "/users/"+strconv.FormatInt(userID, 10), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListProjects returns the projects the user is a member of.
func (c *GitLabClient) ListProjects(ctx context.Context) ([]model.Project, error) {
	q := url.Values{}
	q.Set("membership", "true")
	q.Set("order_by", "last_activity_at")
	return getAll[model.Project](ctx, c, "/projects", q)
}

func (c *GitLabClient) GetProject(ctx context.Context, projectID int64) (*model.Project, error) {
	var p model.Project
	if err := c.getJSON(ctx, projectPath(projectID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *GitLabClient) ListIssues(ctx context.Context, projectID int64) ([]model.Issue, error) {
	return getAll[model.Issue](ctx, c, projectPath(projectID, "issues"), nil)
}

func (c *GitLabClient) ListIssueNotes(ctx context.Context, projectID, issueIID int64) ([]model.Note, error) {
	return getAll[model.Note](ctx, c, projectPath(projectID, "issues", strconv.FormatInt(issueIID, 10), "notes"), nil)
}

// ListMembers includes inherited members.
func (c *GitLabClient) ListMembers(ctx context.Context, projectID int64) ([]model.Member, error) {
	return getAll[model.Member](ctx, c, projectPath(projectID, "members", "all"), nil)
}

// MemberAccessLevel returns the user's effective access level on the
// project, or 0 when the user is not a member.
func (c *GitLabClient) MemberAccessLevel(ctx context.Context, projectID, userID int64) (int, error) {
	var m model.Member
	err := c.getJSON(ctx, projectPath(projectID, "members", "all", strconv.FormatInt(userID, 10)), nil, &m)
	if IsStatus(err, http.StatusNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return m.AccessLevel, nil
}

// AssignIssue replaces the assignees of an issue with a single user.
func (c *GitLabClient) AssignIssue(ctx context.Context, projectID, issueIID, userID int64) (*model.Issue, error) {
	payload := map[string][]int64{"assignee_ids": {userID}}
	u := c.endpoint(projectPath(projectID, "issues", strconv.FormatInt(issueIID, 10)), nil)
	b, _, err := c.doRequest(ctx, http.MethodPut, u, payload)
	if err != nil {
		return nil, err
	}
	var issue model.Issue
	if err := json.Unmarshal(b, &issue); err != nil {
		return nil, fmt.Errorf("decode assigned issue: %w", err)
	}
	return &issue, nil
}

func (c *GitLabClient) ListMergeRequests(ctx context.Context, projectID int64) ([]model.MergeRequest, error) {
	return getAll[model.MergeRequest](ctx, c, projectPath(projectID, "merge_requests"), nil)
}

func (c *GitLabClient) ListMilestones(ctx context.Context, projectID int64) ([]model.Milestone, error) {
	return getAll[model.Milestone](ctx, c, projectPath(projectID, "milestones"), nil)
}

func (c *GitLabClient) ListLabels(ctx context.Context, projectID int64) ([]model.Label, error) {
	return getAll[model.Label](ctx, c, projectPath(projectID, "labels"), nil)
}

func (c *GitLabClient) ListEvents(ctx context.Context, projectID int64) ([]model.Event, error) {
	return getAll[model.Event](ctx, c, projectPath(projectID, "events"), nil)
}

// IssuesStatistics flattens {"statistics":{"counts":{...}}}.
func (c *GitLabClient) IssuesStatistics(ctx context.Context, projectID int64) (*model.IssuesStatistics, error) {
	var raw struct {
		Statistics struct {
			Counts struct {
				All    int `json:"all"`
				Opened int `json:"opened"`
				Closed int `json:"closed"`
			} `json:"counts"`
		} `json:"statistics"`
	}
	if err := c.getJSON(ctx, projectPath(projectID, "issues_statistics"), nil, &raw); err != nil {
		return nil, err
	}
	counts := raw.Statistics.Counts
	return &model.IssuesStatistics{TotalCount: counts.All, OpenedCount: counts.Opened, ClosedCount: counts.Closed}, nil
}
