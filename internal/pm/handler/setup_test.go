package handler

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/repository"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/service"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testEnv bundles the test database and a fully wired router.
type testEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// setupEnv wires repositories, services and handlers against an isolated
// test schema and registers the full API surface.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	repos := repository.NewRepositories(db, nil)
	authSvc := service.NewAuthService(repos.User, testutil.JWTSecret, 24*time.Hour, logger)
	projectSvc := service.NewProjectService(repos.Project, repos.User, logger)
	taskSvc := service.NewTaskService(repos.Task, repos.Project, repos.User, logger)
	logSvc := service.NewProgressLogService(repos.ProgressLog, repos.Project, repos.Task, repos.User, logger)
	supplierSvc := service.NewSupplierService(repos.Supplier, logger)
	purchaseSvc := service.NewPurchaseService(repos.Purchase, repos.Logistics, repos.Project, repos.Supplier, logger)
	financialSvc := service.NewFinancialService(repos.Financial, repos.Project, logger)

	h := NewHandlers(authSvc, projectSvc, taskSvc, logSvc, supplierSvc, purchaseSvc, financialSvc,
		NewUploadHandler(nil, "", t.TempDir()))

	router := testutil.SetupRouter()
	router.POST("/api/auth/register", h.Auth.Register)
	router.POST("/api/auth/login", h.Auth.Login)

	api := testutil.AuthGroup(router, "/api")
	api.GET("/auth/me", h.Auth.Me)
	api.GET("/users", h.Auth.ListUsers)

	api.GET("/projects", h.Project.List)
	api.POST("/projects", h.Project.Create)
	api.GET("/projects/stats", h.Project.Stats)
	api.GET("/projects/:id", h.Project.Get)
	api.PUT("/projects/:id", h.Project.Update)
	api.DELETE("/projects/:id", h.Project.Delete)

	api.GET("/projects/:id/tasks", h.Task.ListByProject)
	api.POST("/projects/:id/tasks", h.Task.Create)
	api.GET("/projects/:id/tasks/stats", h.Task.Stats)
	api.GET("/tasks/my", h.Task.My)
	api.GET("/tasks/:id", h.Task.Get)
	api.PUT("/tasks/:id", h.Task.Update)
	api.PATCH("/tasks/:id/progress", h.Task.UpdateProgress)
	api.DELETE("/tasks/:id", h.Task.Delete)

	api.GET("/projects/:id/progress-logs", h.ProgressLog.ListByProject)
	api.POST("/projects/:id/progress-logs", h.ProgressLog.Create)
	api.GET("/progress-logs/task/:taskId", h.ProgressLog.ListByTask)
	api.GET("/progress-logs/:id", h.ProgressLog.Get)
	api.PUT("/progress-logs/:id", h.ProgressLog.Update)
	api.DELETE("/progress-logs/:id", h.ProgressLog.Delete)

	api.GET("/suppliers", h.Supplier.List)
	api.POST("/suppliers", h.Supplier.Create)
	api.GET("/suppliers/stats", h.Supplier.Stats)
	api.GET("/suppliers/:id", h.Supplier.Get)
	api.PUT("/suppliers/:id", h.Supplier.Update)
	api.DELETE("/suppliers/:id", h.Supplier.Delete)

	api.GET("/purchase-orders", h.Purchase.ListOrders)
	api.POST("/purchase-orders", h.Purchase.CreateOrder)
	api.GET("/purchase-orders/stats", h.Purchase.Stats)
	api.GET("/purchase-orders/:id", h.Purchase.GetOrder)
	api.PUT("/purchase-orders/:id", h.Purchase.UpdateOrder)
	api.DELETE("/purchase-orders/:id", h.Purchase.DeleteOrder)
	api.GET("/purchase-orders/:id/logistics", h.Purchase.ListOrderLogistics)
	api.POST("/purchase-orders/:id/logistics", h.Purchase.CreateLogistics)
	api.GET("/logistics", h.Purchase.ListAllLogistics)
	api.GET("/logistics/:id", h.Purchase.GetLogistics)
	api.PUT("/logistics/:id", h.Purchase.UpdateLogistics)
	api.POST("/logistics/:id/confirm-receipt", h.Purchase.ConfirmReceipt)
	api.DELETE("/logistics/:id", h.Purchase.DeleteLogistics)

	api.GET("/financial-records", h.Financial.List)
	api.POST("/financial-records", h.Financial.Create)
	api.GET("/financial-records/export", h.Financial.Export)
	api.GET("/financial-records/stats/all-projects", h.Financial.AllProjectsStats)
	api.GET("/financial-records/:id", h.Financial.Get)
	api.PUT("/financial-records/:id", h.Financial.Update)
	api.DELETE("/financial-records/:id", h.Financial.Delete)
	api.GET("/projects/:id/financial-stats", h.Financial.ProjectStats)

	return &testEnv{DB: db, Router: router}
}

const testUserID = "user-test-0001"

func testToken() string {
	return testutil.GenerateTestToken(testUserID, "tester", "admin")
}

func seedBase(t *testing.T, env *testEnv) {
	t.Helper()
	testutil.SeedTestUser(t, env.DB, testUserID, "tester", "测试用户")
}
