package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/acadify/acadify-api/api/swagger"
	"github.com/acadify/acadify-api/internal/handler"
	"github.com/acadify/acadify-api/internal/models"
	"github.com/acadify/acadify-api/internal/repository"
	"github.com/acadify/acadify-api/internal/service"
	"github.com/acadify/acadify-api/pkg/cache"
	"github.com/acadify/acadify-api/pkg/config"
	"github.com/acadify/acadify-api/pkg/database"
	"github.com/acadify/acadify-api/pkg/logger"
	corsmiddleware "github.com/acadify/acadify-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acadify/acadify-api/pkg/middleware/requestid"
)

// @title Acadify API
// @version 1.0.0
// @description School records service with per-class grading formulas and GPA aggregation
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
		logr.Sugar().Warnw("redis unavailable, gpa caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	classRepo := repository.NewClassRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	termSvc := service.NewTermService(settingsRepo, models.TermContext{
		SchoolYear: cfg.Term.SchoolYear,
		Semester:   cfg.Term.Semester,
	}, logr)
	classSvc := service.NewClassService(classRepo, termSvc, validate, logr)
	formulaSvc := service.NewFormulaService(classRepo, gradeRepo, validate, logr)

	var gpaSvc *service.GPAService
	if cfg.GPA.CacheEnabled && redisClient != nil {
		gpaSvc = service.NewGPAService(gradeRepo, cacheRepo, cfg.GPA.CacheTTL, logr)
	} else {
		gpaSvc = service.NewGPAService(gradeRepo, nil, cfg.GPA.CacheTTL, logr)
	}
	gradeSvc := service.NewGradeService(gradeRepo, assessmentRepo, classRepo, enrollmentRepo, gpaSvc, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, classRepo, studentRepo, logr)
	assessmentSvc := service.NewAssessmentService(assessmentRepo, gradeRepo, classRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, logr)
	reportSvc := service.NewReportService(studentRepo, enrollmentRepo, classRepo, gpaSvc, logr)
	metricsSvc := service.NewMetricsService()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Class:      handler.NewClassHandler(classSvc),
		Formula:    handler.NewFormulaHandler(formulaSvc),
		Assessment: handler.NewAssessmentHandler(assessmentSvc),
		Grade:      handler.NewGradeHandler(gradeSvc),
		Enrollment: handler.NewEnrollmentHandler(enrollmentSvc),
		GPA:        handler.NewGPAHandler(gpaSvc, termSvc),
		Student:    handler.NewStudentHandler(studentSvc),
		Report:     handler.NewReportHandler(reportSvc, termSvc),
		Term:       handler.NewTermHandler(termSvc),
	}, authSvc, metricsSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
