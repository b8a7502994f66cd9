package httpapi

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/bizon-consulting/backend/internal/config"
	"github.com/bizon-consulting/backend/internal/http/handlers"
	"github.com/bizon-consulting/backend/internal/http/middleware"

	_ "github.com/bizon-consulting/backend/docs"
)

type Services struct {
	Analysis   handlers.Analyzer
	Consulting handlers.Consultant
	Upstream   handlers.UpstreamProbe
	Codes      handlers.CodeResolver
}

func Router(cfg config.Config, svc Services, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := strings.TrimSpace(cfg.CORSAllowed); origins == "" || origins == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		for _, o := range strings.Split(cfg.CORSAllowed, ",") {
			if o = strings.TrimSpace(o); o != "" {
				corsCfg.AllowOrigins = append(corsCfg.AllowOrigins, o)
			}
		}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Analysis:     svc.Analysis,
		Consulting:   svc.Consulting,
		Upstream:     svc.Upstream,
		Codes:        svc.Codes,
		Validator:    validator.New(),
		Logger:       logger,
		MapWidgetKey: cfg.MapWidgetKey,
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/analysis", h.Analyze)
		api.POST("/consulting", h.Consult)
		api.POST("/consulting/chat", h.Chat)
		api.GET("/public-config", h.PublicConfig)
		api.GET("/industries", h.IndustriesList)
	}

	admin := api.Group("/debug")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/upstream", h.DebugUpstream)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
