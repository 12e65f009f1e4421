package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/roksva123/go-gitlab-dashboard/internal/api/handlers"
	"github.com/roksva123/go-gitlab-dashboard/internal/api/middleware"
	"github.com/roksva123/go-gitlab-dashboard/internal/config"
	"github.com/roksva123/go-gitlab-dashboard/internal/service"
)

// Deps are the services the routes are built from.
type Deps struct {
	Sessions    *service.SessionService
	Loader      *service.ProjectLoader
	Checker     *service.InactivityChecker
	Reports     *service.ReportService
	Permissions *config.Permissions
	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(d.Sessions, d.Loader)
	projectHandler := handlers.NewProjectHandler(d.Sessions, d.Loader, d.Checker, d.Reports)
	reportHandler := handlers.NewReportHandler(d.Sessions, d.Reports)
	overviewHandler := handlers.NewOverviewHandler(d.Sessions)

	api := r.Group("/api/v1")
	api.GET("/legend", handlers.Legend)

	// AUTH ROUTES
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.Auth(d.Sessions), authHandler.Logout)
	}

	private := api.Group("", middleware.Auth(d.Sessions))
	private.GET("/me", authHandler.Me)
	private.GET("/projects", projectHandler.ListProjects)
	private.GET("/exports", reportHandler.History)

	overview := private.Group("/overview")
	{
		overview.GET("/dashboard", overviewHandler.Dashboard)
		overview.GET("/calendar", overviewHandler.Calendar)
	}

	can := func(capability config.Capability) gin.HandlerFunc {
		return middleware.RequireCapability(d.Permissions, d.Sessions, capability)
	}

	// PROJECT ROUTES
	project := private.Group("/projects/:id")
	{
		project.GET("", can(config.CapViewSchedule), projectHandler.GetProject)
		project.POST("/load", can(config.CapViewSchedule), projectHandler.Load)
		project.GET("/schedule", can(config.CapViewSchedule), projectHandler.Schedule)
		project.GET("/members", can(config.CapViewSchedule), projectHandler.Members)
		project.GET("/notifications", can(config.CapViewSchedule), projectHandler.Notifications)
		project.GET("/notifications/stream", can(config.CapViewSchedule), projectHandler.StreamNotifications)
		project.PUT("/issues/:iid/assignee", can(config.CapAssignIssue), projectHandler.AssignIssue)

		project.GET("/issues/table", can(config.CapViewTasks), projectHandler.IssueTable)
		project.GET("/tasks", can(config.CapViewTasks), projectHandler.Tasks)
		project.GET("/tasks/export.xlsx", can(config.CapExportReport), projectHandler.ExportTasks)

		project.GET("/report", can(config.CapViewReport), reportHandler.Report)
		for _, format := range service.SupportedFormats() {
			project.GET("/report/export."+format, can(config.CapExportReport), reportHandler.Export(format))
		}
	}

	return r
}
