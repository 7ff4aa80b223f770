package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/schooldesk/timetable-api/api/swagger"
	"github.com/schooldesk/timetable-api/internal/handler"
	"github.com/schooldesk/timetable-api/internal/middleware"
	"github.com/schooldesk/timetable-api/internal/models"
	"github.com/schooldesk/timetable-api/internal/repository"
	"github.com/schooldesk/timetable-api/internal/service"
	"github.com/schooldesk/timetable-api/pkg/cache"
	"github.com/schooldesk/timetable-api/pkg/config"
	"github.com/schooldesk/timetable-api/pkg/database"
	"github.com/schooldesk/timetable-api/pkg/logger"
	corsmiddleware "github.com/schooldesk/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/schooldesk/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 1.0.0
// @description Course timetabling administration service
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
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Stats.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, stats caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, true)
		}
	}

	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "timetable-api",
	})
	teacherSvc := service.NewTeacherService(teacherRepo, courseRepo, nil, logr)
	roomSvc := service.NewRoomService(roomRepo, courseRepo, nil, logr)
	courseSvc := service.NewCourseService(courseRepo, teacherRepo, roomRepo, nil, logr)
	conflictSvc := service.NewConflictService(courseRepo, logr)
	statsSvc := service.NewStatsService(statsRepo, cacheSvc, logr)
	importSvc := service.NewImportService(teacherRepo, roomRepo, courseRepo, courseSvc, logr)
	exportSvc := service.NewExportService(courseSvc, nil, nil, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	conflictHandler := handler.NewConflictHandler(conflictSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	importHandler := handler.NewImportHandler(importSvc, cfg.Import.MaxUploadBytes)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

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
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	// Readers may list and inspect, writers may mutate.
	reads := api.Group("")
	reads.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleEditor, models.RoleReadOnly))
	reads.GET("/teachers", teacherHandler.List)
	reads.GET("/teachers/:id", teacherHandler.Get)
	reads.GET("/rooms", roomHandler.List)
	reads.GET("/rooms/:id", roomHandler.Get)
	reads.GET("/courses", courseHandler.List)
	reads.GET("/courses/:id", courseHandler.Get)
	reads.GET("/conflicts", conflictHandler.List)
	reads.GET("/stats", statsHandler.Get)
	reads.GET("/export/courses", exportHandler.Courses)
	reads.GET("/import/teachers/template", exportHandler.TeacherTemplate)
	reads.GET("/import/courses/template", exportHandler.CourseTemplate)

	writes := api.Group("")
	writes.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleEditor))
	writes.POST("/teachers", teacherHandler.Create)
	writes.PUT("/teachers/:id", teacherHandler.Update)
	writes.DELETE("/teachers/:id", teacherHandler.Delete)
	writes.POST("/rooms", roomHandler.Create)
	writes.PUT("/rooms/:id", roomHandler.Update)
	writes.DELETE("/rooms/:id", roomHandler.Delete)
	writes.POST("/courses", courseHandler.Create)
	writes.PUT("/courses/:id", courseHandler.Update)
	writes.DELETE("/courses/:id", courseHandler.Delete)
	writes.POST("/import/teachers", importHandler.Teachers)
	writes.POST("/import/courses", importHandler.Courses)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
