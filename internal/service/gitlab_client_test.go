package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
)

const testToken = "glpat-test"

// fakeGitLab serves a small GitLab v4 API under /api/v4.
func fakeGitLab(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("PRIVATE-TOKEN") != testToken {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"401 Unauthorized"}`))
				return
			}
			h(w, r)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// paged serves items in pages of size, advertising X-Next-Page.
func paged[T any](items []T, size int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		start := (page - 1) * size
		end := start + size
		if start > len(items) {
			start = len(items)
		}
		if end > len(items) {
			end = len(items)
		}
		if end < len(items) {
			w.Header().Set("X-Next-Page", strconv.Itoa(page+1))
		} else {
			w.Header().Set("X-Next-Page", "")
		}
		writeJSON(w, items[start:end])
	}
}

func TestAPIRoot(t *testing.T) {
	assert.Equal(t, "https://gitlab.example.com/api/v4", APIRoot("https://gitlab.example.com/"))
	assert.Equal(t, "https://gitlab.example.com/api/v4", APIRoot(" https://gitlab.example.com/api/v4 "))
	assert.Equal(t, "", APIRoot(""))
}

func TestClientRequiresCredentials(t *testing.T) {
	_, err := NewGitLabClient("", testToken, time.Second).CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewGitLabClient("https://gitlab.example.com", " ", time.Second).CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestListIssuesFollowsPagination(t *testing.T) {
	var issues []model.Issue
	for i := 1; i <= 5; i++ {
		issues = append(issues, model.Issue{ID: int64(i), IID: int64(i), ProjectID: 9, Title: "issue " + strconv.Itoa(i)})
	}
	var perPageSeen string
	srv := fakeGitLab(t, map[string]http.HandlerFunc{
		"/api/v4/projects/9/issues": func(w http.ResponseWriter, r *http.Request) {
			perPageSeen = r.URL.Query().Get("per_page")
			paged(issues, 2)(w, r)
		},
	})

	got, err := NewGitLabClient(srv.URL, testToken, time.Second).ListIssues(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "100", perPageSeen)
	require.Len(t, got, 5)
	for i, issue := range got {
		assert.Equal(t, int64(i+1), issue.IID)
	}
}

func TestListReturnsEmptySliceNotNil(t *testing.T) {
	srv := fakeGitLab(t, map[string]http.HandlerFunc{
		"/api/v4/projects/9/labels": paged([]model.Label{}, 10),
	})
	got, err := NewGitLabClient(srv.URL, testToken, time.Second).ListLabels(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAPIErrorCarriesStatus(t *testing.T) {
	srv := fakeGitLab(t, map[string]http.HandlerFunc{
		"/api/v4/projects/9": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"404 Project Not Found"}`))
		},
	})
	client := NewGitLabClient(srv.URL, testToken, time.Second)

	_, err := client.GetProject(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.Contains(t, err.Error(), "404 Project Not Found")

	client.Token = "wrong"
	_, err = client.GetProject(context.Background(), 9)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
}

func TestAssignIssueSendsAssigneeIDs(t *testing.T) {
	var body map[string][]int64
	var method string
	srv := fakeGitLab(t, map[string]http.HandlerFunc{
		"/api/v4/projects/9/issues/3": func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			b, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(b, &body)
			writeJSON(w, model.Issue{IID: 3, ProjectID: 9, Assignees: []model.Assignee{{ID: 42, Name: "Dana"}}})
		},
	})

	issue, err := NewGitLabClient(srv.URL, testToken, time.Second).AssignIssue(context.Background(), 9, 3, 42)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, map[string][]int64{"assignee_ids": {42}}, body)
	assert.Equal(t, "Dana", issue.Assignees[0].Name)
}

func TestIssuesStatisticsFlattensCounts(t *testing.T) {
	srv := fakeGitLab(t, map[string]http.HandlerFunc{
		"/api/v4/projects/9/issues_statistics": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"statistics":{"counts":{"all":5,"opened":2,"closed":3}}}`))
		},
	})
	stats, err := NewGitLabClient(srv.URL, testToken, time.Second).IssuesStatistics(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, &model.IssuesStatistics{TotalCount: 5, OpenedCount: 2, ClosedCount: 3}, stats)
}

func TestMemberAccessLevel(t *testing.T) {
	srv := fakeGitLab(t, map[string]http.HandlerFunc{
		"/api/v4/projects/9/members/all/7": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, model.Member{ID: 7, AccessLevel: model.AccessMaintainer})
		},
		"/api/v4/projects/9/members/all/8": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	})
	client := NewGitLabClient(srv.URL, testToken, time.Second)

	level, err := client.MemberAccessLevel(context.Background(), 9, 7)
	require.NoError(t, err)
	assert.Equal(t, model.AccessMaintainer, level)

	level, err = client.MemberAccessLevel(context.Background(), 9, 8)
	require.NoError(t, err)
	assert.Equal(t, 0, level)
}
