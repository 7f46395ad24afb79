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
	"go.uber.org/zap"

	_ "github.com/noah-isme/college-portal-api/api/swagger"
	"github.com/noah-isme/college-portal-api/internal/handler"
	"github.com/noah-isme/college-portal-api/internal/middleware"
	"github.com/noah-isme/college-portal-api/internal/repository"
	"github.com/noah-isme/college-portal-api/internal/service"
	"github.com/noah-isme/college-portal-api/pkg/cache"
	"github.com/noah-isme/college-portal-api/pkg/config"
	"github.com/noah-isme/college-portal-api/pkg/database"
	"github.com/noah-isme/college-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/college-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/college-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/college-portal-api/pkg/storage"
)

// @title College Portal API
// @version 1.0.0
// @description Role-based college portal: accounts with admin approval, lecture notes, projects, question banks and assignments
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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	store, err := storage.NewLocalStorage(cfg.Uploads.BaseDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)

	metricsSvc := service.NewMetricsService()

	// Redis is optional; the portal degrades to uncached dashboards
	// when it is unreachable.
	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, dashboard caching disabled", zap.Error(err))
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Dashboard.CacheTTL, logr, false)
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	questionBankRepo := repository.NewQuestionBankRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "college-portal-api",
	})
	userSvc := service.NewUserService(userRepo, logr)
	taxonomySvc := service.NewTaxonomyService(taxonomyRepo, validate, logr)
	noteSvc := service.NewNoteService(noteRepo, store, signer, metricsSvc, validate, logr, cfg.Uploads.NoteExtensions)
	projectSvc := service.NewProjectService(projectRepo, userRepo, store, signer, metricsSvc, validate, logr)
	questionBankSvc := service.NewQuestionBankService(questionBankRepo, taxonomySvc, store, signer, metricsSvc, validate, logr, cfg.Uploads.QuestionBankMaxBytes)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, taxonomySvc, store, signer, metricsSvc, validate, logr)
	dashboardSvc := service.NewDashboardService(noteRepo, projectRepo, questionBankRepo, assignmentRepo, userSvc, cacheSvc, logr, cfg.Dashboard.CacheTTL)

	bootstrapSuperuser(authSvc, cfg, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, authSvc, handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Admin:        handler.NewAdminHandler(userSvc, dashboardSvc),
		Taxonomy:     handler.NewTaxonomyHandler(taxonomySvc),
		Notes:        handler.NewNoteHandler(noteSvc),
		Projects:     handler.NewProjectHandler(projectSvc),
		QuestionBank: handler.NewQuestionBankHandler(questionBankSvc),
		Assignments:  handler.NewAssignmentHandler(assignmentSvc),
		Dashboards:   handler.NewDashboardHandler(dashboardSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func bootstrapSuperuser(authSvc *service.AuthService, cfg *config.Config, logr *zap.Logger) {
	if cfg.Bootstrap.AdminUsername == "" || cfg.Bootstrap.AdminPassword == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := authSvc.CreateSuperuser(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		logr.Warn("superuser bootstrap failed", zap.Error(err))
	}
}
