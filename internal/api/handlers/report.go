package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roksva123/go-gitlab-dashboard/internal/api/middleware"
	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/report"
	"github.com/roksva123/go-gitlab-dashboard/internal/service"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

type ReportHandler struct {
	Sessions *service.SessionService
	Reports  *service.ReportService
}

func NewReportHandler(sessions *service.SessionService, reports *service.ReportService) *ReportHandler {
	return &ReportHandler{Sessions: sessions, Reports: reports}
}

func (h *ReportHandler) build(c *gin.Context, sess *model.Session) (*model.ProjectReport, bool) {
	f, err := parseReportFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	r, err := h.Reports.BuildReport(c.Request.Context(), h.Sessions.Client(sess), middleware.ProjectID(c), f)
	if err != nil {
		respondError(c, "report", err, gin.H{"sections": []model.Table{}})
		return nil, false
	}
	return r, true
}

// Report returns the printable project report with its rendered sections.
// GET /api/v1/projects/:id/report?start=&end=&assignee=
func (h *ReportHandler) Report(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	r, ok := h.build(c, sess)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report":   r,
		"summary":  report.SummaryLines(*r),
		"sections": report.Sections(*r),
		"formats":  service.SupportedFormats(),
	})
}

// Export downloads the project report in format.
// GET /api/v1/projects/:id/report/export.{xlsx,pdf,docx}
func (h *ReportHandler) Export(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := currentSession(c)
		if !ok {
			return
		}
		r, ok := h.build(c, sess)
		if !ok {
			return
		}
		res, err := h.Reports.ExportReport(c.Request.Context(), sess, r, format)
		if err != nil {
			respondError(c, "export", err, nil)
			return
		}
		sendFile(c, res)
	}
}

// History lists the newest exports of the logged-in user.
// GET /api/v1/exports?limit=20
func (h *ReportHandler) History(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	records, err := h.Reports.History(c.Request.Context(), sess, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exports": records})
}
