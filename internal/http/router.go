package httpapi

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ticketlens/backend/internal/ai"
	"github.com/ticketlens/backend/internal/config"
	"github.com/ticketlens/backend/internal/http/handlers"
	"github.com/ticketlens/backend/internal/http/middleware"

	_ "github.com/ticketlens/backend/docs"
)

// Router wires the API. lister may be nil when no generative endpoint is
// configured.
func Router(cfg config.Config, svc handlers.Answerer, pinger handlers.Pinger, lister ai.ModelLister, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		MaxAge:       12 * time.Hour,
	}
	if cfg.CORSAllowed == "" || cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		for _, o := range strings.Split(cfg.CORSAllowed, ",") {
			if o = strings.TrimSpace(o); o != "" {
				corsCfg.AllowOrigins = append(corsCfg.AllowOrigins, o)
			}
		}
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Service:        svc,
		Warehouse:      pinger,
		Validator:      validator.New(),
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
		Dev:            cfg.IsDev(),
	}
	if lister != nil {
		h.Models = lister
	}

	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/test", h.Test)
		api.POST("/query", h.Query)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.GET("/list-models", h.ListModels)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
