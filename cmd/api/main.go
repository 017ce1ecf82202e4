package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/muhammadyusri121/sistem-pembinaan-siswa/api/swagger"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/handler"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/middleware"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/repository"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/service"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/cache"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/config"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/database"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/export"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/logger"
	corsmiddleware "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/middleware/cors"
	reqidmiddleware "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/middleware/requestid"
)

// @title Sistem Pembinaan Siswa API
// @version 1.0.0
// @description Pencatatan pelanggaran, eskalasi pembinaan, dan prestasi siswa
// @BasePath /api
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	// Redis is optional. Without it the dashboard simply skips caching.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Timestamps in summaries and exports use the school's timezone.
	wib := time.FixedZone("WIB", 7*3600)

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	classRepo := repository.NewClassRepository(db)
	typeRepo := repository.NewViolationTypeRepository(db)
	violationRepo := repository.NewViolationRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	guardianshipRepo := repository.NewGuardianshipRepository(db)

	dashboardCache := service.NewDashboardCache(nil, false, 0, logr)
	if redisClient != nil {
		dashboardCache = service.NewDashboardCache(
			repository.NewCacheRepository(redisClient),
			cfg.Dashboard.CacheEnabled,
			cfg.Dashboard.CacheTTL,
			logr,
		)
	}

	scopeSvc := service.NewScopeService(studentRepo, guardianshipRepo, logr)
	counselingSvc := service.NewCounselingService(violationRepo, studentRepo, guardianshipRepo, wib, logr)
	authSvc := service.NewAuthService(userRepo, cfg.JWT, logr)
	violationSvc := service.NewViolationService(violationRepo, studentRepo, typeRepo, userRepo, scopeSvc, counselingSvc, dashboardCache, logr)
	studentSvc := service.NewStudentService(studentRepo, classRepo, userRepo, violationRepo, achievementRepo, dashboardCache, logr)
	achievementSvc := service.NewAchievementService(achievementRepo, studentRepo, userRepo, scopeSvc, dashboardCache, logr)
	guardianshipSvc := service.NewGuardianshipService(guardianshipRepo, studentRepo, userRepo, logr)
	masterDataSvc := service.NewMasterDataService(typeRepo, classRepo, userRepo, logr)
	dashboardSvc := service.NewDashboardService(violationRepo, studentRepo, achievementRepo, userRepo, scopeSvc, dashboardCache, wib, logr)
	exportSvc := service.NewExportService(violationSvc, &export.CSVExporter{}, &export.PDFExporter{}, cfg.Exports.Enabled, logr)
	userSvc := service.NewUserService(userRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	violationHandler := handler.NewViolationHandler(violationSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	achievementHandler := handler.NewAchievementHandler(achievementSvc)
	masterDataHandler := handler.NewMasterDataHandler(masterDataSvc)
	guardianshipHandler := handler.NewGuardianshipHandler(guardianshipSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	userHandler := handler.NewUserHandler(userSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.POST("/auth/change-password", authHandler.ChangePassword)

		authed.GET("/siswa", studentHandler.List)
		authed.GET("/siswa/:nis", studentHandler.Get)
		authed.POST("/siswa", studentHandler.Create)
		authed.PUT("/siswa/:nis", studentHandler.Update)
		authed.DELETE("/siswa/:nis", studentHandler.Delete)
		authed.POST("/siswa/:nis/pembinaan", violationHandler.Counsel)

		authed.GET("/pelanggaran", violationHandler.List)
		authed.GET("/pelanggaran/rekap", violationHandler.Summaries)
		authed.GET("/pelanggaran/:id", violationHandler.Get)
		authed.POST("/pelanggaran", violationHandler.Create)
		authed.PUT("/pelanggaran/:id", violationHandler.Update)
		authed.PATCH("/pelanggaran/:id/status", violationHandler.UpdateStatus)
		authed.DELETE("/pelanggaran/:id", violationHandler.Delete)

		authed.GET("/prestasi", achievementHandler.List)
		authed.GET("/prestasi/ringkasan", achievementHandler.Stats)
		authed.POST("/prestasi", achievementHandler.Create)
		authed.PUT("/prestasi/:id", achievementHandler.Update)
		authed.PATCH("/prestasi/:id/verifikasi", achievementHandler.Verify)
		authed.DELETE("/prestasi/:id", achievementHandler.Delete)

		authed.GET("/jenis-pelanggaran", masterDataHandler.ListViolationTypes)
		authed.POST("/jenis-pelanggaran", masterDataHandler.CreateViolationType)
		authed.PUT("/jenis-pelanggaran/:id", masterDataHandler.UpdateViolationType)
		authed.DELETE("/jenis-pelanggaran/:id", masterDataHandler.DeleteViolationType)

		authed.GET("/kelas", masterDataHandler.ListClasses)
		authed.POST("/kelas", masterDataHandler.CreateClass)
		authed.PUT("/kelas/:id", masterDataHandler.UpdateClass)
		authed.DELETE("/kelas/:id", masterDataHandler.DeleteClass)

		authed.GET("/tahun-ajaran", masterDataHandler.ListAcademicYears)
		authed.POST("/tahun-ajaran", masterDataHandler.CreateAcademicYear)
		authed.PATCH("/tahun-ajaran/:id/aktifkan", masterDataHandler.ActivateAcademicYear)

		authed.GET("/perwalian/periode", guardianshipHandler.Period)
		authed.PUT("/perwalian/periode", guardianshipHandler.SetPeriod)
		authed.GET("/perwalian/akses", guardianshipHandler.ListAccess)
		authed.PUT("/perwalian/akses", guardianshipHandler.ReplaceAccess)
		authed.GET("/perwalian/siswa", guardianshipHandler.Roster)
		authed.POST("/perwalian/siswa", guardianshipHandler.AddStudent)
		authed.DELETE("/perwalian/siswa/:nis", guardianshipHandler.RemoveStudent)
		authed.GET("/perwalian/statistik", guardianshipHandler.Stats)

		authed.GET("/dashboard/stats", dashboardHandler.Stats)

		laporan := authed.Group("/laporan")
		laporan.Use(middleware.RequireRoles(
			models.RoleAdmin,
			models.RolePrincipal,
			models.RoleVicePrincipal,
			models.RoleCounselor,
			models.RoleHomeroom,
		))
		{
			laporan.GET("/rekap.csv", exportHandler.SummaryCSV)
			laporan.GET("/rekap.pdf", exportHandler.SummaryPDF)
		}

		users := authed.Group("/users")
		users.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			users.GET("", userHandler.List)
			users.POST("", userHandler.Create)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
