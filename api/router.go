package api

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"rfmseg/internal/config"
	"rfmseg/internal/rfm"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

// InitRoutes registers the upload pages, the runs API and the generated images
// on the given Gin engine.
func InitRoutes(e *gin.Engine, runService *rfm.Service, logger *zap.Logger, cfg config.Config) {
	e.Use(requestLogger(logger), recovery(logger))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	e.MaxMultipartMemory = cfg.MaxUploadBytes()
	e.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	runsHandler := NewRunsHandler(runService, logger, cfg.MaxUploadBytes())

	e.GET("/", runsHandler.handleUploadForm)
	e.POST("/", runsHandler.handleUploadPage)
	e.Static("/static", cfg.StaticDir)

	runs := e.Group("/api/runs")
	runs.POST("", runsHandler.handleCreateRun)
	runs.GET("", runsHandler.handleListRuns)
	runs.GET("/:id", runsHandler.handleGetRun)
	runs.GET("/:id/rfm.csv", runsHandler.handleExportRun)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
