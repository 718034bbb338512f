package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/service"
)

// ProgressLogHandler 进度日志接口
type ProgressLogHandler struct {
	logs *service.ProgressLogService
}

func NewProgressLogHandler(logs *service.ProgressLogService) *ProgressLogHandler {
	return &ProgressLogHandler{logs: logs}
}

// ListByProject GET /api/projects/:id/progress-logs
func (h *ProgressLogHandler) ListByProject(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"project_id":  c.Param("id"),
		"stage":       c.Query("stage"),
		"reporter_id": c.Query("reporterId"),
	}

	logs, total, err := h.logs.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, logs, total, page, pageSize)
}

// ListByTask GET /api/progress-logs/task/:taskId
func (h *ProgressLogHandler) ListByTask(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"task_id": c.Param("taskId"),
	}

	logs, total, err := h.logs.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, logs, total, page, pageSize)
}

// Get GET /api/progress-logs/:id
func (h *ProgressLogHandler) Get(c *gin.Context) {
	log, err := h.logs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, log)
}

// Create POST /api/projects/:id/progress-logs
func (h *ProgressLogHandler) Create(c *gin.Context) {
	var req service.CreateProgressLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	log, err := h.logs.Create(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "进度日志上报成功", log)
}

// Update PUT /api/progress-logs/:id
func (h *ProgressLogHandler) Update(c *gin.Context) {
	var req service.UpdateProgressLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	log, err := h.logs.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "进度日志更新成功", log)
}

// Delete DELETE /api/progress-logs/:id
func (h *ProgressLogHandler) Delete(c *gin.Context) {
	if err := h.logs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "进度日志已删除", nil)
}
