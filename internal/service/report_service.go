package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/report"
	"github.com/roksva123/go-gitlab-dashboard/internal/report/export"
)

const (
	ExportKindReport = "report"
	ExportKindTasks  = "tasks"

	userLookupWorkers = 4
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrExportTooLarge    = errors.New("export exceeds the configured size limit")
)

// ReportSource is the part of the GitLab API the printable report needs.
type ReportSource interface {
	GetProject(ctx context.Context, projectID int64) (*model.Project, error)
	ListIssues(ctx context.Context, projectID int64) ([]model.Issue, error)
	ListMilestones(ctx context.Context, projectID int64) ([]model.Milestone, error)
	ListLabels(ctx context.Context, projectID int64) ([]model.Label, error)
	IssuesStatistics(ctx context.Context, projectID int64) (*model.IssuesStatistics, error)
	ListEvents(ctx context.Context, projectID int64) ([]model.Event, error)
	GetUser(ctx context.Context, userID int64) (*model.UserInfo, error)
}

// ExportRecorder keeps the export audit log.
type ExportRecorder interface {
	InsertExportRecord(ctx context.Context, rec *model.ExportRecord) error
	ListExports(ctx context.Context, username string, limit int) ([]model.ExportRecord, error)
}

// ExportResult is a rendered file ready to be sent.
type ExportResult struct {
	Data        []byte
	Filename    string
	ContentType string
	Record      *model.ExportRecord
}

type ReportService struct {
	Recorder ExportRecorder
	MaxBytes int64
	Now      func() time.Time
}

func NewReportService(recorder ExportRecorder, maxExportMB float64) *ReportService {
	return &ReportService{
		Recorder: recorder,
		MaxBytes: int64(maxExportMB * 1024 * 1024),
		Now:      time.Now,
	}
}

// BuildReport fetches every report section concurrently, applies the filter
// to the issues and resolves the assigned users.
func (s *ReportService) BuildReport(ctx context.Context, src ReportSource, projectID int64, f report.Filter) (*model.ProjectReport, error) {
	var in report.ReportInput
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := src.GetProject(gctx, projectID)
		if err != nil {
			return fmt.Errorf("project: %w", err)
		}
		in.Project = *p
		return nil
	})
	g.Go(func() error {
		issues, err := src.ListIssues(gctx, projectID)
		if err != nil {
			return fmt.Errorf("issues: %w", err)
		}
		in.Issues = report.FilterIssues(issues, f)
		return nil
	})
	g.Go(func() error {
		ms, err := src.ListMilestones(gctx, projectID)
		if err != nil {
			return fmt.Errorf("milestones: %w", err)
		}
		in.Milestones = ms
		return nil
	})
	g.Go(func() error {
		labels, err := src.ListLabels(gctx, projectID)
		if err != nil {
			return fmt.Errorf("labels: %w", err)
		}
		in.Labels = labels
		return nil
	})
	g.Go(func() error {
		stats, err := src.IssuesStatistics(gctx, projectID)
		if err != nil {
			return fmt.Errorf("statistics: %w", err)
		}
		in.Statistics = stats
		return nil
	})
	g.Go(func() error {
		events, err := src.ListEvents(gctx, projectID)
		if err != nil {
			return fmt.Errorf("events: %w", err)
		}
		in.Events = events
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	users, err := s.lookupUsers(ctx, src, report.AssignedUserIDs(in.Issues))
	if err != nil {
		return nil, err
	}
	in.Users = users

	r := report.BuildProjectReport(in, s.Now())
	return &r, nil
}

func (s *ReportService) lookupUsers(ctx context.Context, src ReportSource, ids []int64) ([]model.UserInfo, error) {
	users := make([]model.UserInfo, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(userLookupWorkers)
	for i, id := range ids {
		g.Go(func() error {
			u, err := src.GetUser(gctx, id)
			if err != nil {
				return fmt.Errorf("user %d: %w", id, err)
			}
			users[i] = *u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return users, nil
}

// ExportReport renders a project report in format (xlsx, pdf or docx).
func (s *ReportService) ExportReport(ctx context.Context, sess *model.Session, r *model.ProjectReport, format string) (*ExportResult, error) {
	start := time.Now()
	var buf bytes.Buffer
	var err error
	switch format {
	case "xlsx":
		err = export.WriteReportXLSX(&buf, *r)
	case "pdf":
		err = export.WritePDF(&buf, *r)
	case "docx":
		err = export.WriteDOCX(&buf, *r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	var sections []string
	for _, t := range report.Sections(*r) {
		sections = append(sections, t.Title)
	}
	return s.finish(ctx, sess, r.Project, ExportKindReport, format, len(r.Rows), sections, &buf, start)
}

// ExportTasks renders the task overview rows as a spreadsheet.
func (s *ReportService) ExportTasks(ctx context.Context, sess *model.Session, project model.Project, rows []model.ReportRow) (*ExportResult, error) {
	start := time.Now()
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, rows); err != nil {
		return nil, err
	}
	return s.finish(ctx, sess, project, ExportKindTasks, "xlsx", len(rows), []string{export.TasksSheet}, &buf, start)
}

func (s *ReportService) finish(ctx context.Context, sess *model.Session, project model.Project, kind, format string, rowCount int, sections []string, buf *bytes.Buffer, start time.Time) (*ExportResult, error) {
	if s.MaxBytes > 0 && int64(buf.Len()) > s.MaxBytes {
		return nil, ErrExportTooLarge
	}
	details, _ := json.Marshal(map[string]string{"project_name": project.Name})
	rec := &model.ExportRecord{
		ExportTime: s.Now(),
		SessionID:  sess.ID,
		Username:   sess.Username,
		ProjectID:  project.ID,
		Kind:       kind,
		Format:     format,
		RowCount:   rowCount,
		Bytes:      int64(buf.Len()),
		DurationMs: time.Since(start).Milliseconds(),
		Sections:   sections,
		Details:    details,
	}
	if s.Recorder != nil {
		if err := s.Recorder.InsertExportRecord(ctx, rec); err != nil {
			log.Printf("[export] failed to record %s %s export of project %d: %v", kind, format, project.ID, err)
		}
	}
	return &ExportResult{
		Data:        buf.Bytes(),
		Filename:    ExportFilename(project.Name, kind, format, s.Now()),
		ContentType: export.ContentTypes[format],
		Record:      rec,
	}, nil
}

// History lists the newest exports of the session user.
func (s *ReportService) History(ctx context.Context, sess *model.Session, limit int) ([]model.ExportRecord, error) {
	if s.Recorder == nil {
		return []model.ExportRecord{}, nil
	}
	return s.Recorder.ListExports(ctx, sess.Username, limit)
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// ExportFilename builds names like "web-portal-report-2024-03-01.pdf".
func ExportFilename(projectName, kind, format string, now time.Time) string {
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(projectName), "-"), "-")
	if slug == "" {
		slug = "project"
	}
	return fmt.Sprintf("%s-%s-%s.%s", slug, kind, now.Format("2006-01-02"), format)
}

// SupportedFormats lists the report export formats in a stable order.
func SupportedFormats() []string {
	out := make([]string, 0, len(export.ContentTypes))
	for f := range export.ContentTypes {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
