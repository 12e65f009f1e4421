package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roksva123/go-gitlab-dashboard/internal/api/middleware"
	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/report"
	"github.com/roksva123/go-gitlab-dashboard/internal/schedule"
	"github.com/roksva123/go-gitlab-dashboard/internal/service"
	"github.com/roksva123/go-gitlab-dashboard/internal/utils"
)

type ProjectHandler struct {
	Sessions  *service.SessionService
	Loader    *service.ProjectLoader
	Checker   *service.InactivityChecker
	Reports   *service.ReportService
	Extractor schedule.DependencyExtractor
	Now       func() time.Time
}

func NewProjectHandler(sessions *service.SessionService, loader *service.ProjectLoader, checker *service.InactivityChecker, reports *service.ReportService) *ProjectHandler {
	return &ProjectHandler{
		Sessions:  sessions,
		Loader:    loader,
		Checker:   checker,
		Reports:   reports,
		Extractor: schedule.IssueRefExtractor{},
		Now:       time.Now,
	}
}

// bundle returns the loaded project of the session, loading it if needed.
func (h *ProjectHandler) bundle(c *gin.Context, sess *model.Session) (*service.ProjectBundle, error) {
	return h.Loader.Ensure(c.Request.Context(), sess.ID, h.Sessions.Client(sess), middleware.ProjectID(c))
}

// ListProjects
// GET /api/v1/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	projects, err := service.LoadProjects(c.Request.Context(), h.Sessions.Client(sess))
	if err != nil {
		respondError(c, "projects", err, gin.H{"projects": []model.Project{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject
// GET /api/v1/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	p, err := h.Sessions.Client(sess).GetProject(c.Request.Context(), middleware.ProjectID(c))
	if err != nil {
		respondError(c, "project", err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p, "role": middleware.RoleFrom(c)})
}

// Load fetches issues, members and merge requests together and makes them
// the session's current project. A load superseded by a newer one answers 409.
// POST /api/v1/projects/:id/load
func (h *ProjectHandler) Load(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	b, err := h.Loader.Load(c.Request.Context(), sess.ID, h.Sessions.Client(sess), middleware.ProjectID(c))
	if err != nil {
		respondError(c, "load", err, gin.H{
			"issues":         []model.Issue{},
			"members":        []model.Member{},
			"merge_requests": []model.MergeRequest{},
		})
		return
	}
	c.JSON(http.StatusOK, b)
}

// Schedule builds the Gantt bars of the loaded project.
// GET /api/v1/projects/:id/schedule?states=Overdue,Done&sort=due_date&order=desc&opened_only=true
func (h *ProjectHandler) Schedule(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	active, err := schedule.ParseActiveStates(c.Query("states"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sortBy := c.Query("sort")
	if sortBy != "" && sortBy != "due_date" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be due_date"})
		return
	}

	b, err := h.bundle(c, sess)
	if err != nil {
		respondError(c, "schedule", err, gin.H{"tasks": []model.ScheduleTask{}})
		return
	}

	issues := b.Issues
	if openedOnly, _ := strconv.ParseBool(c.DefaultQuery("opened_only", "false")); openedOnly {
		issues = schedule.OpenedOnly(issues)
	}
	if sortBy == "due_date" {
		issues = schedule.SortByDueDate(issues, c.Query("order") == "desc")
	}

	tasks := schedule.Build(issues, h.Now(), schedule.Options{
		Filter:      active.Filter(),
		Extractor:   h.Extractor,
		ProjectName: b.Project.Name,
	})
	c.JSON(http.StatusOK, gin.H{
		"project":                 b.Project,
		"tasks":                   tasks,
		"unresolved_dependencies": schedule.UnresolvedDependencies(tasks),
		"legend":                  schedule.Legend(),
		"generation":              b.Generation,
	})
}

// Members lists project members with role and activity flags.
// GET /api/v1/projects/:id/members
func (h *ProjectHandler) Members(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	b, err := h.bundle(c, sess)
	if err != nil {
		respondError(c, "members", err, gin.H{"members": []model.MemberView{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": report.MemberViews(b.Members, b.Issues, b.Project)})
}

type assignRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// AssignIssue replaces the assignees of an issue with one project member.
// PUT /api/v1/projects/:id/issues/:iid/assignee
func (h *ProjectHandler) AssignIssue(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	iid, err := strconv.ParseInt(c.Param("iid"), 10, 64)
	if err != nil || iid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue iid"})
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	issue, err := h.Sessions.Client(sess).AssignIssue(c.Request.Context(), middleware.ProjectID(c), iid, req.UserID)
	if err != nil {
		respondError(c, "assign", err, nil)
		return
	}
	h.Loader.UpdateIssue(sess.ID, *issue)
	c.JSON(http.StatusOK, gin.H{"issue": issue})
}

// Notifications counts opened issues without any activity.
// GET /api/v1/projects/:id/notifications
func (h *ProjectHandler) Notifications(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	b, err := h.bundle(c, sess)
	if err != nil {
		respondError(c, "notifications", err, gin.H{"notifications": []string{}})
		return
	}
	out, err := h.Checker.Check(c.Request.Context(), h.Sessions.Client(sess), b.Project.ID, b.Issues, nil)
	if err != nil {
		respondError(c, "notifications", err, gin.H{"notifications": []string{}})
		return
	}
	c.JSON(http.StatusOK, out)
}

// StreamNotifications runs the inactivity check and streams its progress
// with Server-Sent Events. The last event is "result".
// GET /api/v1/projects/:id/notifications/stream
func (h *ProjectHandler) StreamNotifications(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	b, err := h.bundle(c, sess)
	if err != nil {
		respondError(c, "notifications", err, gin.H{"notifications": []string{}})
		return
	}

	ctx := c.Request.Context()
	progressChan := make(chan string)
	type final struct {
		out *service.InactivityReport
		err error
	}
	done := make(chan final, 1)

	go func() {
		defer close(progressChan)
		out, err := h.Checker.Check(ctx, h.Sessions.Client(sess), b.Project.ID, b.Issues, progressChan)
		done <- final{out, err}
	}()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		if msg, ok := <-progressChan; ok {
			c.SSEvent("progress", msg)
			return true
		}
		res := <-done
		if res.err != nil {
			c.SSEvent("error", res.err.Error())
		} else {
			c.SSEvent("result", res.out)
		}
		return false
	})
}

func parseReportFilter(c *gin.Context) (report.Filter, error) {
	r, err := report.ParseDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		return report.Filter{}, err
	}
	ids, err := utils.ParseInt64List(c.Query("project"))
	if err != nil {
		return report.Filter{}, err
	}
	return report.Filter{Range: r, ProjectIDs: ids, Assignee: strings.TrimSpace(c.Query("assignee"))}, nil
}

// IssueTable is the time-tracking table with its totals row.
// GET /api/v1/projects/:id/issues/table?title=&state=&assignee=&label=
func (h *ProjectHandler) IssueTable(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var f report.TableFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.bundle(c, sess)
	if err != nil {
		respondError(c, "issue table", err, gin.H{"rows": []model.IssueTableRow{}})
		return
	}
	rows, totals := report.IssueTable(b.Issues, f)
	c.JSON(http.StatusOK, gin.H{"header": report.IssueTableHeader, "rows": rows, "totals": totals})
}

// Tasks is the per-member task overview of the project.
// GET /api/v1/projects/:id/tasks?start=&end=&assignee=
func (h *ProjectHandler) Tasks(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	f, err := parseReportFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.bundle(c, sess)
	if err != nil {
		respondError(c, "tasks", err, gin.H{"rows": []model.ReportRow{}, "groups": []model.MemberGroup{}})
		return
	}
	issues := report.FilterIssues(b.Issues, f)
	projects := []model.Project{b.Project}
	c.JSON(http.StatusOK, gin.H{
		"header": report.RowHeader,
		"rows":   report.Rows(issues, projects),
		"groups": report.GroupByMember(issues, b.Members, projects),
	})
}

// ExportTasks downloads the task overview as a spreadsheet, with the same
// filters as Tasks.
// GET /api/v1/projects/:id/tasks/export.xlsx
func (h *ProjectHandler) ExportTasks(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	f, err := parseReportFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.bundle(c, sess)
	if err != nil {
		respondError(c, "export tasks", err, nil)
		return
	}
	rows := report.Rows(report.FilterIssues(b.Issues, f), []model.Project{b.Project})
	res, err := h.Reports.ExportTasks(c.Request.Context(), sess, b.Project, rows)
	if err != nil {
		respondError(c, "export tasks", err, nil)
		return
	}
	sendFile(c, res)
}

// Legend lists the schedule states with their colors.
// GET /api/v1/legend
func Legend(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"legend": schedule.Legend()})
}

func sendFile(c *gin.Context, res *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	c.Data(http.StatusOK, res.ContentType, res.Data)
}
