package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/scott-cotton/cli"

	"github.com/roksva123/go-gitlab-dashboard/internal/config"
	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/report"
	"github.com/roksva123/go-gitlab-dashboard/internal/service"
)

// Exports one project report without the HTTP server. Credentials come from
// GITLAB_URL and GITLAB_TOKEN.
func main() {
	_ = godotenv.Load()
	cli.MainContext(context.Background(), exportCommand())
}

type exportConfig struct {
	Export *cli.Command

	Project  int    `cli:"name=project desc='GitLab project id'"`
	Format   string `cli:"name=format desc='xlsx, pdf or docx (default xlsx)'"`
	Out      string `cli:"name=o desc='output file (default generated name)'"`
	Start    string `cli:"name=start desc='first creation date YYYY-MM-DD'"`
	End      string `cli:"name=end desc='last creation date YYYY-MM-DD'"`
	Assignee string `cli:"name=assignee desc='only issues assigned to this name'"`
	Tasks    bool   `cli:"name=tasks desc='export the task overview instead of the report'"`
}

func exportCommand() *cli.Command {
	cfg := &exportConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Export, "export_report").
		WithSynopsis("export_report -project <id> [-format xlsx|pdf|docx] [-o file]").
		WithDescription("export a GitLab project report").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

func run(cfg *exportConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Export.Parse(cc, args); err != nil {
		return err
	}
	if cfg.Project <= 0 {
		return fmt.Errorf("%w: -project is required", cli.ErrUsage)
	}
	if cfg.Format == "" {
		cfg.Format = "xlsx"
	}
	if cfg.Tasks && cfg.Format != "xlsx" {
		return fmt.Errorf("%w: the task overview is only exported as xlsx", cli.ErrUsage)
	}

	appCfg, err := config.Load()
	if err != nil {
		return err
	}
	dateRange, err := report.ParseDateRange(cfg.Start, cfg.End)
	if err != nil {
		return fmt.Errorf("%w: %v", cli.ErrUsage, err)
	}
	filter := report.Filter{Range: dateRange, Assignee: cfg.Assignee}

	ctx := context.Background()
	client := service.NewGitLabClient(appCfg.DefaultBaseURL, os.Getenv("GITLAB_TOKEN"), appCfg.GitLabTimeout)
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("validate token: %w", err)
	}
	sess := &model.Session{ID: uuid.NewString(), BaseURL: client.BaseURL, Username: user.Username, UserID: user.ID}
	reports := service.NewReportService(nil, appCfg.MaxExportMB)
	projectID := int64(cfg.Project)

	var res *service.ExportResult
	if cfg.Tasks {
		b, err := service.NewProjectLoader().Load(ctx, sess.ID, client, projectID)
		if err != nil {
			return err
		}
		rows := report.Rows(report.FilterIssues(b.Issues, filter), []model.Project{b.Project})
		res, err = reports.ExportTasks(ctx, sess, b.Project, rows)
		if err != nil {
			return err
		}
	} else {
		r, err := reports.BuildReport(ctx, client, projectID, filter)
		if err != nil {
			return err
		}
		res, err = reports.ExportReport(ctx, sess, r, cfg.Format)
		if err != nil {
			return err
		}
	}

	out := cfg.Out
	if out == "" {
		out = res.Filename
	}
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cc.Out, "wrote %s (%d bytes, %d rows)\n", out, len(res.Data), res.Record.RowCount)
	return nil
}
