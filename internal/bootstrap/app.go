package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"resumitory-backend/internal/applications"
	"resumitory-backend/internal/resumes"
	"resumitory-backend/internal/shared/auth"
	"resumitory-backend/internal/shared/config"
	"resumitory-backend/internal/shared/metrics"
	"resumitory-backend/internal/shared/server"
	"resumitory-backend/internal/shared/storage/blob"
	localstore "resumitory-backend/internal/shared/storage/blob/local"
	s3store "resumitory-backend/internal/shared/storage/blob/s3"
	"resumitory-backend/internal/shared/storage/db"
)

// App holds shared dependencies wired by Build.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Blobs              blob.Store
	Verifier           *auth.Verifier
	Registry           *prometheus.Registry
	Metrics            *metrics.Collector
	ResumesRepo        resumes.Repo
	ApplicationsRepo   applications.Repo
	ResumeService      *resumes.Service
	ApplicationService *applications.Service
	ResumeHandler      *resumes.Handler
	ApplicationHandler *applications.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.BlobStoreType) == "" {
		cfg.BlobStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := buildBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Blobs:    blobs,
		Verifier: auth.NewVerifier(cfg.JWTSecret),
		Registry: registry,
		Metrics:  collector,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		Verifier:           app.Verifier,
		Metrics:            app.Metrics,
		Registry:           app.Registry,
		ResumeHandler:      app.ResumeHandler,
		ApplicationHandler: app.ApplicationHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildBlobStore(ctx context.Context, cfg config.Config) (blob.Store, error) {
	switch cfg.BlobStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.BlobBucket, cfg.BlobPrefix, cfg.BlobPublicBase)
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.BlobBucket), nil
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.ApplicationsRepo = &applications.PGRepo{DB: app.DB}
	} else {
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.ApplicationsRepo = applications.NewMemoryRepo()
	}

	app.ResumeService = &resumes.Service{
		Repo:    app.ResumesRepo,
		Blobs:   app.Blobs,
		Apps:    app.ApplicationsRepo,
		Metrics: app.Metrics,
	}
	app.ApplicationService = &applications.Service{
		Repo:    app.ApplicationsRepo,
		Resumes: app.ResumesRepo,
	}

	app.ResumeHandler = resumes.NewHandler(app.ResumeService)
	app.ApplicationHandler = applications.NewHandler(app.ApplicationService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
