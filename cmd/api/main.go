package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edulink-id/tutor-api/api/swagger"
	"github.com/edulink-id/tutor-api/internal/handler"
	"github.com/edulink-id/tutor-api/internal/middleware"
	"github.com/edulink-id/tutor-api/internal/models"
	"github.com/edulink-id/tutor-api/internal/repository"
	"github.com/edulink-id/tutor-api/internal/service"
	"github.com/edulink-id/tutor-api/pkg/cache"
	"github.com/edulink-id/tutor-api/pkg/config"
	"github.com/edulink-id/tutor-api/pkg/database"
	"github.com/edulink-id/tutor-api/pkg/jobs"
	"github.com/edulink-id/tutor-api/pkg/logger"
	corsmiddleware "github.com/edulink-id/tutor-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edulink-id/tutor-api/pkg/middleware/requestid"
	"github.com/edulink-id/tutor-api/pkg/storage"
)

// @title Tutor Platform API
// @version 1.0.0
// @description Tutoring contracts, session calendars, daily reports and progress forecasting
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, list and forecast caching disabled", "error", err)
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	contractRepo := repository.NewContractRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	reportRepo := repository.NewDailyReportRepository(db)
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	supportRepo := repository.NewSupportRepository(db)
	testResultRepo := repository.NewTestResultRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)

	var hub *service.Hub
	if cfg.Notifications.Enabled {
		hub = service.NewHub(logr)
	}

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:        cfg.JWT.Secret,
		AccessExpiry:  cfg.JWT.Expiration,
		RefreshExpiry: cfg.JWT.RefreshExpiration,
		Issuer:        "tutor-api",
	})
	contractSvc := service.NewContractService(contractRepo, sessionRepo, packageRepo, cacheRepo, nil, logr, cfg.Contracts.ListCacheTTL)
	sessionSvc := service.NewSessionService(sessionRepo, contractRepo, nil, logr)
	var reportSvc *service.ReportService
	if hub != nil {
		reportSvc = service.NewReportService(reportRepo, sessionRepo, hub, nil, logr)
	} else {
		reportSvc = service.NewReportService(reportRepo, sessionRepo, nil, nil, logr)
	}
	progressSvc := service.NewProgressService(contractRepo, sessionRepo, reportRepo, userRepo, unitRepo, logr)
	forecastSvc := service.NewForecastService(reportRepo, unitRepo, packageRepo, cacheRepo, logr, cfg.Forecast.UnitSpanDays, cfg.Forecast.CacheTTL)
	unitSvc := service.NewUnitService(unitRepo, nil, logr)
	walletSvc := service.NewWalletService(walletRepo, nil, logr)
	supportSvc := service.NewSupportService(supportRepo, nil, logr)
	statsSvc := service.NewStatsService(contractRepo, sessionRepo, reportRepo, userRepo, testResultRepo, logr)

	connected := func() int { return 0 }
	if hub != nil {
		connected = hub.Connected
	}
	metricsSvc := service.NewMetricsService(connected)

	var exportSvc *service.ExportService
	var exportQueue *jobs.Queue
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportQueue = jobs.NewQueue("exports", func(ctx context.Context, job jobs.Job) error {
			return exportSvc.Process(ctx, job)
		}, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		exportSvc = service.NewExportService(exportJobRepo, sessionRepo, progressSvc, exportQueue, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, nil, logr)

		exportQueue.Start(ctx)
		defer exportQueue.Stop()

		go func() {
			ticker := time.NewTicker(cfg.Exports.CleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if removed, err := exportSvc.Cleanup(0); err != nil {
						logr.Sugar().Warnw("export cleanup failed", "error", err)
					} else if len(removed) > 0 {
						logr.Sugar().Infow("export cleanup", "removed", len(removed))
					}
				}
			}
		}()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	contractHandler := handler.NewContractHandler(contractSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	progressHandler := handler.NewProgressHandler(progressSvc, forecastSvc)
	unitHandler := handler.NewUnitHandler(unitSvc)
	walletHandler := handler.NewWalletHandler(walletSvc)
	supportHandler := handler.NewSupportHandler(supportSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
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
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))

	staffOnly := middleware.RequireRoles(models.RoleStaff)

	secured.POST("/contracts", middleware.RequireRoles(models.RoleParent, models.RoleStaff), contractHandler.Create)
	secured.GET("/contracts", staffOnly, contractHandler.ListAll)
	secured.GET("/contracts/mine", middleware.RequireRoles(models.RoleParent), contractHandler.ListMine)
	secured.PATCH("/contracts/:id/status", staffOnly, contractHandler.UpdateStatus)
	secured.PUT("/contracts/:id/tutor", staffOnly, contractHandler.AssignTutor)
	secured.GET("/contracts/:id/sessions", sessionHandler.ListByContract)
	secured.GET("/contracts/:id/progress", progressHandler.GetContractProgress)

	secured.PATCH("/sessions/:id/status", middleware.RequireRoles(models.RoleTutor, models.RoleStaff), sessionHandler.UpdateStatus)
	secured.POST("/sessions/:id/reschedule", middleware.RequireRoles(models.RoleParent, models.RoleStaff), sessionHandler.Reschedule)

	secured.POST("/reports", middleware.RequireRoles(models.RoleTutor), reportHandler.Create)
	secured.GET("/reports/mine", middleware.RequireRoles(models.RoleTutor), reportHandler.ListMine)
	secured.GET("/reports/:id", reportHandler.GetByID)

	secured.GET("/children/:id/reports", reportHandler.ListByChild)
	secured.GET("/children/:id/forecast", progressHandler.GetChildForecast)
	secured.GET("/children/:id/test-averages", statsHandler.ChildTestAverages)

	secured.POST("/units", staffOnly, unitHandler.Create)
	secured.PUT("/units/:id", staffOnly, unitHandler.Update)
	secured.GET("/curricula/:id/units", unitHandler.ListByCurriculum)

	secured.GET("/wallet", walletHandler.Statement)
	secured.POST("/wallet/transactions", walletHandler.Record)

	secured.POST("/support", supportHandler.Open)
	secured.GET("/support/mine", supportHandler.ListMine)
	secured.PATCH("/support/:id", staffOnly, supportHandler.Respond)

	secured.GET("/stats/platform", staffOnly, statsHandler.Platform)

	if exportSvc != nil {
		exportHandler := handler.NewExportHandler(exportSvc)
		secured.POST("/exports", exportHandler.Submit)
		secured.GET("/exports/:id", exportHandler.Status)
		// Download is authenticated by the signed token itself.
		api.GET("/exports/download/:token", exportHandler.Download)
	}

	if hub != nil {
		notificationHandler := handler.NewNotificationHandler(hub)
		secured.GET("/notifications/stream", notificationHandler.Stream)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
