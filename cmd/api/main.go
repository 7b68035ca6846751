package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/classforge/report-card-api/api/swagger"
	"github.com/classforge/report-card-api/internal/handler"
	"github.com/classforge/report-card-api/internal/middleware"
	"github.com/classforge/report-card-api/internal/repository"
	"github.com/classforge/report-card-api/internal/service"
	"github.com/classforge/report-card-api/pkg/cache"
	"github.com/classforge/report-card-api/pkg/config"
	"github.com/classforge/report-card-api/pkg/database"
	"github.com/classforge/report-card-api/pkg/logger"
	corsmiddleware "github.com/classforge/report-card-api/pkg/middleware/cors"
	reqidmiddleware "github.com/classforge/report-card-api/pkg/middleware/requestid"
)

// @title Report Card API
// @version 1.0.0
// @description Report card aggregation service for schools
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	var cacheSvc *service.CacheService
	if cfg.Reports.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
			cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Reports.CacheTTL, logr, false)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, true)
		}
	} else {
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Reports.CacheTTL, logr, false)
	}

	studentRepo := repository.NewStudentRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	examRepo := repository.NewExamRepository(db)
	resultRepo := repository.NewExamResultRepository(db)
	scaleRepo := repository.NewGradeScaleRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	attendanceSvc := service.NewAttendanceService(attendanceRepo, cacheSvc, validate, logr)
	reportSvc := service.NewReportCardService(studentRepo, semesterRepo, examRepo, resultRepo, scaleRepo, attendanceSvc, cacheSvc, logr, service.ReportCardServiceConfig{
		CacheTTL: cfg.Reports.CacheTTL,
	})
	exportSvc := service.NewExportService(reportSvc, nil, nil, logr)
	gradeScaleSvc := service.NewGradeScaleService(scaleRepo, cacheSvc, validate, logr)
	examResultSvc := service.NewExamResultService(resultRepo, scaleRepo, cacheSvc, validate, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		ReportCards: handler.NewReportCardHandler(reportSvc, exportSvc),
		Attendance:  handler.NewAttendanceHandler(attendanceSvc),
		GradeScales: handler.NewGradeScaleHandler(gradeScaleSvc),
		ExamResults: handler.NewExamResultHandler(examResultSvc),
	}, authSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "cache", cacheSvc.Enabled())
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
