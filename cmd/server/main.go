package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/roksva123/go-gitlab-dashboard/internal/api"
	"github.com/roksva123/go-gitlab-dashboard/internal/config"
	"github.com/roksva123/go-gitlab-dashboard/internal/repository"
	"github.com/roksva123/go-gitlab-dashboard/internal/service"
)

const sessionSweepInterval = 30 * time.Minute

func main() {

	// LOAD ENV
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed load config:", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	perms, err := config.LoadPermissions(cfg.PermissionsFile)
	if err != nil {
		log.Fatal("failed load permissions:", err)
	}

	// INIT DB
	repo, err := repository.NewPostgresRepoFromConfig(&repository.DBConfig{
		URL:  cfg.DatabaseURL,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Name: cfg.DBName,
	})
	if err != nil {
		log.Fatal("failed connect db:", err)
	}
	defer repo.Close()

	// MIGRATIONS
	if err := repo.RunMigrations(context.Background()); err != nil {
		log.Fatal("migration error:", err)
	}

	go sweepSessions(repo)

	// SERVICES
	sessions := service.NewSessionService(repo, cfg.JWTSecret, cfg.SessionTTL, cfg.GitLabTimeout)
	sessions.DefaultBaseURL = cfg.DefaultBaseURL

	r := api.NewRouter(api.Deps{
		Sessions:    sessions,
		Loader:      service.NewProjectLoader(),
		Checker:     service.NewInactivityChecker(cfg.NotesWorkers),
		Reports:     service.NewReportService(repo, cfg.MaxExportMB),
		Permissions: perms,
		CORSOrigins: cfg.CORSOrigins,
	})

	// START SERVER
	log.Println("Server running on port:", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped:", err)
	}
}

func sweepSessions(repo *repository.PostgresRepo) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		n, err := repo.DeleteExpiredSessions(context.Background(), time.Now())
		if err != nil {
			log.Printf("[sessions] sweep failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("[sessions] removed %d expired sessions", n)
		}
	}
}
