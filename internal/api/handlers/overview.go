package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/report"
	"github.com/roksva123/go-gitlab-dashboard/internal/service"
)

type OverviewHandler struct {
	Sessions *service.SessionService
	Now      func() time.Time
}

func NewOverviewHandler(sessions *service.SessionService) *OverviewHandler {
	return &OverviewHandler{Sessions: sessions, Now: time.Now}
}

// Dashboard lists one card per project of the user.
// GET /api/v1/overview/dashboard
func (h *OverviewHandler) Dashboard(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	projects, err := service.LoadProjects(c.Request.Context(), h.Sessions.Client(sess))
	if err != nil {
		respondError(c, "dashboard", err, gin.H{"projects": []model.ProjectCard{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": report.ProjectCards(projects)})
}

// Calendar places the issues and merge requests of every project on a
// calendar, filtered by date range, projects and assignee.
// GET /api/v1/overview/calendar?start=&end=&project=1,2&assignee=
func (h *OverviewHandler) Calendar(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	f, err := parseReportFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ov, err := service.LoadOverview(c.Request.Context(), h.Sessions.Client(sess))
	if err != nil {
		respondError(c, "calendar", err, gin.H{"events": []model.CalendarEvent{}})
		return
	}

	issues := report.FilterIssues(ov.Issues, f)
	mrs := report.FilterMergeRequests(ov.MergeRequests, f)
	c.JSON(http.StatusOK, gin.H{
		"events":    report.CalendarEvents(issues, mrs, h.Now()),
		"projects":  report.ProjectCards(ov.Projects),
		"assignees": report.Assignees(ov.Issues),
	})
}
