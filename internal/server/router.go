package server

import (
	"github.com/gin-gonic/gin"

	"github.com/campusforge/portal-export/internal/http/handlers"
	"github.com/campusforge/portal-export/internal/http/middleware"
	"github.com/campusforge/portal-export/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *middleware.AuthMiddleware
	ExportHandler  *handlers.ExportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLog(cfg.Log))

	router.GET("/healthcheck", handlers.HealthCheck)

	protected := router.Group("/exports")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.GET("/courses/:id/pdf", cfg.ExportHandler.CoursePDF)
	protected.GET("/courses/:id/markdown", cfg.ExportHandler.CourseMarkdown)
	protected.GET("/programs/:id/pdf", cfg.ExportHandler.ProgramPDF)
	protected.GET("/programs/:id/markdown", cfg.ExportHandler.ProgramMarkdown)

	return router
}
