package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/config"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/middleware"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/handler"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/repository"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/service"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting xiaoweiict service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Project{},
		&entity.Task{},
		&entity.ProgressLog{},
		&entity.Supplier{},
		&entity.PurchaseOrder{},
		&entity.PurchaseItem{},
		&entity.Logistics{},
		&entity.FinancialRecord{},
	); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	// 初始化Redis（可选，采购单号计数器）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			zapLogger.Warn("Redis unavailable, order numbers fall back to database scan", zap.Error(err))
			rdb = nil
		}
	}

	// 初始化MinIO（可选，附件存储）
	var minioClient *minio.Client
	if cfg.MinIO.Enabled {
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			zapLogger.Warn("MinIO init failed, uploads fall back to local disk", zap.Error(err))
			minioClient = nil
		}
	}

	// 组装依赖
	repos := repository.NewRepositories(db, rdb)
	authSvc := service.NewAuthService(repos.User, cfg.JWT.Secret, cfg.JWT.TokenTTL(), zapLogger)
	projectSvc := service.NewProjectService(repos.Project, repos.User, zapLogger)
	taskSvc := service.NewTaskService(repos.Task, repos.Project, repos.User, zapLogger)
	logSvc := service.NewProgressLogService(repos.ProgressLog, repos.Project, repos.Task, repos.User, zapLogger)
	supplierSvc := service.NewSupplierService(repos.Supplier, zapLogger)
	purchaseSvc := service.NewPurchaseService(repos.Purchase, repos.Logistics, repos.Project, repos.Supplier, zapLogger)
	financialSvc := service.NewFinancialService(repos.Financial, repos.Project, zapLogger)

	uploadHandler := handler.NewUploadHandler(minioClient, cfg.MinIO.Bucket, cfg.Upload.LocalDir)
	handlers := handler.NewHandlers(authSvc, projectSvc, taskSvc, logSvc, supplierSvc, purchaseSvc, financialSvc, uploadHandler)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	return db, nil
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// 上传文件的本地兜底目录
	r.Static("/uploads", cfg.Upload.LocalDir)

	api := r.Group("/api")

	// 认证
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", middleware.JWTAuth(cfg.JWT.Secret), h.Auth.Me)
	}

	// 业务接口统一要求认证
	authed := api.Group("")
	authed.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		authed.GET("/users", h.Auth.ListUsers)

		// 项目
		authed.GET("/projects", h.Project.List)
		authed.POST("/projects", h.Project.Create)
		authed.GET("/projects/stats", h.Project.Stats)
		authed.GET("/projects/:id", h.Project.Get)
		authed.PUT("/projects/:id", h.Project.Update)
		authed.DELETE("/projects/:id", middleware.RequireRole("manager"), h.Project.Delete)

		// 项目下的任务
		authed.GET("/projects/:id/tasks", h.Task.ListByProject)
		authed.POST("/projects/:id/tasks", h.Task.Create)
		authed.GET("/projects/:id/tasks/stats", h.Task.Stats)

		// 任务
		authed.GET("/tasks/my", h.Task.My)
		authed.GET("/tasks/:id", h.Task.Get)
		authed.PUT("/tasks/:id", h.Task.Update)
		authed.PATCH("/tasks/:id/progress", h.Task.UpdateProgress)
		authed.DELETE("/tasks/:id", h.Task.Delete)

		// 项目下的进度日志
		authed.GET("/projects/:id/progress-logs", h.ProgressLog.ListByProject)
		authed.POST("/projects/:id/progress-logs", h.ProgressLog.Create)

		// 进度日志
		authed.GET("/progress-logs/task/:taskId", h.ProgressLog.ListByTask)
		authed.GET("/progress-logs/:id", h.ProgressLog.Get)
		authed.PUT("/progress-logs/:id", h.ProgressLog.Update)
		authed.DELETE("/progress-logs/:id", h.ProgressLog.Delete)

		// 供应商
		authed.GET("/suppliers", h.Supplier.List)
		authed.POST("/suppliers", h.Supplier.Create)
		authed.GET("/suppliers/stats", h.Supplier.Stats)
		authed.GET("/suppliers/:id", h.Supplier.Get)
		authed.PUT("/suppliers/:id", h.Supplier.Update)
		authed.DELETE("/suppliers/:id", h.Supplier.Delete)

		// 采购单
		authed.GET("/purchase-orders", h.Purchase.ListOrders)
		authed.POST("/purchase-orders", h.Purchase.CreateOrder)
		authed.GET("/purchase-orders/stats", h.Purchase.Stats)
		authed.GET("/purchase-orders/:id", h.Purchase.GetOrder)
		authed.PUT("/purchase-orders/:id", h.Purchase.UpdateOrder)
		authed.DELETE("/purchase-orders/:id", h.Purchase.DeleteOrder)

		// 采购单下的物流
		authed.GET("/purchase-orders/:id/logistics", h.Purchase.ListOrderLogistics)
		authed.POST("/purchase-orders/:id/logistics", h.Purchase.CreateLogistics)

		// 物流
		authed.GET("/logistics", h.Purchase.ListAllLogistics)
		authed.GET("/logistics/:id", h.Purchase.GetLogistics)
		authed.PUT("/logistics/:id", h.Purchase.UpdateLogistics)
		authed.POST("/logistics/:id/confirm-receipt", h.Purchase.ConfirmReceipt)
		authed.DELETE("/logistics/:id", h.Purchase.DeleteLogistics)

		// 收支记录
		authed.GET("/financial-records", h.Financial.List)
		authed.POST("/financial-records", h.Financial.Create)
		authed.GET("/financial-records/export", h.Financial.Export)
		authed.GET("/financial-records/stats/all-projects", h.Financial.AllProjectsStats)
		authed.GET("/financial-records/:id", h.Financial.Get)
		authed.PUT("/financial-records/:id", h.Financial.Update)
		authed.DELETE("/financial-records/:id", h.Financial.Delete)
		authed.GET("/projects/:id/financial-stats", h.Financial.ProjectStats)

		// 附件上传
		authed.POST("/upload", h.Upload.Upload)
	}
}
