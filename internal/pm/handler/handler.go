package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/repository"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/service"
)

// Handlers 处理器集合
type Handlers struct {
	Auth        *AuthHandler
	Project     *ProjectHandler
	Task        *TaskHandler
	ProgressLog *ProgressLogHandler
	Supplier    *SupplierHandler
	Purchase    *PurchaseHandler
	Financial   *FinancialHandler
	Upload      *UploadHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(
	authSvc *service.AuthService,
	projectSvc *service.ProjectService,
	taskSvc *service.TaskService,
	logSvc *service.ProgressLogService,
	supplierSvc *service.SupplierService,
	purchaseSvc *service.PurchaseService,
	financialSvc *service.FinancialService,
	upload *UploadHandler,
) *Handlers {
	return &Handlers{
		Auth:        NewAuthHandler(authSvc),
		Project:     NewProjectHandler(projectSvc),
		Task:        NewTaskHandler(taskSvc),
		ProgressLog: NewProgressLogHandler(logSvc),
		Supplier:    NewSupplierHandler(supplierSvc),
		Purchase:    NewPurchaseHandler(purchaseSvc),
		Financial:   NewFinancialHandler(financialSvc),
		Upload:      upload,
	}
}

// === 响应辅助函数 ===

type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ListResult 列表响应体
type ListResult struct {
	Records  interface{} `json:"records"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Success: true, Data: data})
}

func OKMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(200, Response{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(201, Response{Success: true, Message: message, Data: data})
}

func List(c *gin.Context, records interface{}, total int64, page, pageSize int) {
	c.JSON(200, Response{Success: true, Data: ListResult{
		Records:  records,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}})
}

// Fail 按错误类型映射HTTP状态码
func Fail(c *gin.Context, err error) {
	var conflict *service.ConflictError
	var business *service.BusinessError
	var badRequest *service.BadRequestError
	var validation *service.ValidationError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(404, Response{Error: err.Error()})
	case errors.As(err, &conflict):
		c.JSON(409, Response{Error: conflict.Message})
	case errors.As(err, &business):
		c.JSON(400, Response{Error: business.Message})
	case errors.As(err, &badRequest):
		c.JSON(400, Response{Error: badRequest.Message})
	case errors.As(err, &validation):
		c.JSON(422, Response{Error: validation.Message, Details: validation.Details})
	default:
		c.JSON(500, Response{Error: "服务器内部错误"})
	}
}

// FailBind 请求体绑定失败
func FailBind(c *gin.Context, err error) {
	c.JSON(400, Response{Error: "请求参数不合法: " + err.Error()})
}

// GetUserID 取认证中间件写入的当前用户ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetPagination 解析分页参数，默认第1页每页20条，每页上限100
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("pageSize"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}
