package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"resumitory-backend/internal/applications"
	"resumitory-backend/internal/resumes"
	"resumitory-backend/internal/shared/auth"
	"resumitory-backend/internal/shared/config"
	"resumitory-backend/internal/shared/metrics"
	"resumitory-backend/internal/shared/server/middleware"
	"resumitory-backend/internal/shared/server/respond"
)

const apiVersion = "1.0.0"

// RouterDeps carries the handlers and shared services the router wires up.
type RouterDeps struct {
	Config             config.Config
	Verifier           *auth.Verifier
	Metrics            *metrics.Collector
	Registry           *prometheus.Registry
	ResumeHandler      *resumes.Handler
	ApplicationHandler *applications.Handler
}

// NewRouter constructs the gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(deps.Metrics),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{
			"message": "Resumitory API",
			"version": apiVersion,
			"status":  "operational",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, gin.H{"status": "healthy"})
	})
	if deps.Registry != nil {
		r.GET("/metrics", metrics.Handler(deps.Registry))
	}

	authn := middleware.Auth(deps.Verifier)

	authGroup := r.Group("/auth", authn)
	registerMeRoutes(authGroup)

	resumeGroup := r.Group("/resumes", authn)
	deps.ResumeHandler.RegisterRoutes(resumeGroup)

	applicationGroup := r.Group("/applications", authn)
	deps.ApplicationHandler.RegisterRoutes(applicationGroup)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
