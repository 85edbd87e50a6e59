package server

import (
	"github.com/abenov/filestash/internal/auth"
	"github.com/abenov/filestash/internal/config"
	"github.com/abenov/filestash/internal/file"
	"github.com/abenov/filestash/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config      config.Config
	DB          *pgxpool.Pool
	Redis       *redis.Client
	AuthService *auth.Service
	AuthRepo    *auth.Repository
	FileService *file.Service
	FileRepo    *file.Repository
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(metrics.Middleware())

	registerHealthRoutes(router, deps)
	registerStatusRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	public := router.Group("/")

	protected := router.Group("/")
	protected.Use(auth.Middleware(deps.AuthService))

	identified := router.Group("/")
	identified.Use(auth.Identify(deps.AuthService))

	auth.RegisterRoutes(public, protected, deps.AuthService)
	file.RegisterRoutes(protected, identified, deps.FileService)

	return router
}
