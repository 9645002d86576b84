package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/termgrid/timetable-api/api/swagger"
	"github.com/termgrid/timetable-api/internal/handler"
	"github.com/termgrid/timetable-api/internal/middleware"
	"github.com/termgrid/timetable-api/internal/repository"
	"github.com/termgrid/timetable-api/internal/service"
	"github.com/termgrid/timetable-api/pkg/cache"
	"github.com/termgrid/timetable-api/pkg/config"
	"github.com/termgrid/timetable-api/pkg/database"
	"github.com/termgrid/timetable-api/pkg/logger"
	corsmiddleware "github.com/termgrid/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/termgrid/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 1.0.0
// @description Clash detection and auto-timetabling for term planning
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, clash caching disabled", "error", err)
		redisClient = nil
	}

	timetableRepo := repository.NewTimetableRepository(db)
	eventRepo := repository.NewEventRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	clashSvc := service.NewClashService(cacheRepo, metricsSvc, service.ClashServiceConfig{
		CacheEnabled: cfg.Clashes.CacheEnabled && redisClient != nil,
		CacheTTL:     cfg.Clashes.CacheTTL,
	}, logr)
	autoSvc := service.NewAutoTimetableService(service.AutoTimetableConfig{
		NodeBudget: cfg.Solver.NodeBudget,
		Timeout:    cfg.Solver.Timeout,
	}, nil, metricsSvc, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, eventRepo, nil, logr)
	exportSvc := service.NewExportService(timetableSvc, service.ExportServiceConfig{
		Enabled: cfg.Export.Enabled,
		Title:   cfg.Export.Title,
	}, logr, nil, nil)

	clashHandler := handler.NewClashHandler(clashSvc)
	autoHandler := handler.NewAutoHandler(autoSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db.Ping)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/clashes", clashHandler.Compute)
		api.POST("/auto", autoHandler.Generate)

		timetables := api.Group("/timetables")
		{
			timetables.POST("", timetableHandler.Create)
			timetables.GET("", timetableHandler.List)
			timetables.GET("/:id", timetableHandler.Get)
			timetables.PUT("/:id", timetableHandler.Update)
			timetables.DELETE("/:id", timetableHandler.Delete)
			timetables.GET("/:id/export", timetableHandler.Export)
			timetables.POST("/:id/events", timetableHandler.AddEvent)
			timetables.PUT("/:id/events/:eventId", timetableHandler.UpdateEvent)
			timetables.DELETE("/:id/events/:eventId", timetableHandler.DeleteEvent)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
