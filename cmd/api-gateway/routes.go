package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/sma-timetable/internal/app"
	"github.com/noah-isme/sma-timetable/internal/handler"
	"github.com/noah-isme/sma-timetable/internal/middleware"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/pkg/config"
	"github.com/noah-isme/sma-timetable/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable/pkg/middleware/requestid"
)

func newRouter(c *app.Container) *gin.Engine {
	cfg := c.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(c.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(c.Metrics, "/metrics"))

	checks := map[string]handler.ReadinessCheck{}
	if c.DB != nil {
		checks["postgres"] = c.DB.PingContext
	}
	if c.CacheStore != nil {
		checks["redis"] = c.CacheStore.Ping
	}
	metricsHandler := handler.NewMetricsHandler(c.Metrics, c.Roster.Ready, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	students := handler.NewStudentHandler(c.Timetables, c.Overlaps, c.Exports)
	overlaps := handler.NewOverlapHandler(c.Overlaps)
	roster := handler.NewRosterHandler(c.Roster, c.Logger)
	exports := handler.NewExportHandler(c.Exports, c.Logger)

	api := r.Group(cfg.APIPrefix)
	api.GET("/roster", roster.Status)
	api.GET("/students", students.List)
	api.GET("/students/:key", students.Get)
	api.GET("/students/:key/timetable", students.Timetable)
	api.GET("/students/:key/blocks", students.Blocks)
	api.GET("/students/:key/rankings", students.Rankings)
	api.GET("/students/:key/calendar.csv", students.Calendar)
	api.GET("/students/:key/timetable.pdf", students.PDF)
	api.GET("/overlaps", overlaps.Report)
	api.GET("/exports/download", exports.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(c.Tokens))
	secured.GET("/roster/snapshots", middleware.RequireRoles(models.RoleAdmin, models.RoleViewer), roster.Snapshots)
	secured.GET("/roster/snapshots/:id/students/:studentId", middleware.RequireRoles(models.RoleAdmin, models.RoleViewer), roster.SnapshotCells)

	admin := secured.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/roster/reload", roster.Reload)
	admin.POST("/exports/analysis", exports.RequestAnalysis)
	admin.GET("/exports/:id", exports.Status)

	return r
}
