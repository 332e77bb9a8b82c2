package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/faceauth/internal/api/handlers"
	"github.com/your-org/faceauth/internal/api/ws"
	"github.com/your-org/faceauth/internal/auth"
	"github.com/your-org/faceauth/internal/faceindex"
	"github.com/your-org/faceauth/internal/queue"
	"github.com/your-org/faceauth/internal/service"
	"github.com/your-org/faceauth/internal/storage"
)

type RouterConfig struct {
	APIKey     string
	DB         *storage.PostgresStore
	MinIO      *storage.MinIOStore // nil when object storage is disabled
	Producer   *queue.Producer
	Hub        *ws.Hub
	Index      faceindex.Index
	Enroller   *service.Enroller
	Identifier *service.Identifier
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.MinIO, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.APIKey))

	// Live identity event feed
	v1.GET("/ws", cfg.Hub.HandleWS)

	// Users
	userH := handlers.NewUserHandler(cfg.Enroller, cfg.Identifier, cfg.DB)
	v1.POST("/users/register", userH.Register)
	v1.POST("/users/login", userH.Login)
	v1.GET("/users", userH.List)

	// Face index diagnostics
	indexH := handlers.NewIndexHandler(cfg.Index)
	v1.GET("/index/entries", indexH.Entries)

	return r
}
