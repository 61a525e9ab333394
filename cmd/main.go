package main

import (
	"fmt"
	"os"
	"time"

	"github.com/campusforge/portal-export/internal/db"
	"github.com/campusforge/portal-export/internal/export"
	"github.com/campusforge/portal-export/internal/http/handlers"
	"github.com/campusforge/portal-export/internal/http/middleware"
	"github.com/campusforge/portal-export/internal/platform/envutil"
	"github.com/campusforge/portal-export/internal/platform/gcp"
	"github.com/campusforge/portal-export/internal/platform/logger"
	"github.com/campusforge/portal-export/internal/render"
	"github.com/campusforge/portal-export/internal/repos"
	"github.com/campusforge/portal-export/internal/server"
	"github.com/campusforge/portal-export/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := envutil.String("PORT", "8080")
	renderTimeout := envutil.Duration("RENDER_TIMEOUT_SECONDS", 60*time.Second)
	signedURLTTL := envutil.Duration("SIGNED_URL_TTL_SECONDS", 15*time.Minute)
	maxDocumentBytes := envutil.Int("EXPORT_MAX_HTML_BYTES", export.DefaultMaxDocumentBytes)
	tmpDir := envutil.String("EXPORT_TMP_DIR", "")

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	courseRepo := repos.NewCourseRepo(thePG, log)
	programRepo := repos.NewProgramRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	assetResolver, err := gcp.NewAssetResolver(log)
	if err != nil {
		log.Fatal("Asset resolver init failed", "error", err)
	}
	accessService, err := services.NewAccessService(log)
	if err != nil {
		log.Fatal("Access service init failed", "error", err)
	}
	assembler := export.NewAssembler(log, assetResolver, signedURLTTL, maxDocumentBytes)
	engine := render.NewChromeEngine(log, renderTimeout)
	exportService := export.NewService(log, courseRepo, programRepo, assembler, engine, tmpDir)

	// HTTP
	log.Info("Setting up HTTP surface from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, accessService)
	exportHandler := handlers.NewExportHandler(log, exportService)
	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		AuthMiddleware: authMiddleware,
		ExportHandler:  exportHandler,
	})

	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
