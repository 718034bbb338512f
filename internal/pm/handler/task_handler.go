package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/service"
)

// TaskHandler 任务接口
type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// ListByProject GET /api/projects/:id/tasks
func (h *TaskHandler) ListByProject(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"project_id":  c.Param("id"),
		"status":      c.Query("status"),
		"priority":    c.Query("priority"),
		"assignee_id": c.Query("assigneeId"),
		"search":      c.Query("search"),
	}

	tasks, total, err := h.tasks.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, tasks, total, page, pageSize)
}

// My GET /api/tasks/my 当前用户名下的任务
func (h *TaskHandler) My(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"assignee_id": GetUserID(c),
		"status":      c.Query("status"),
		"priority":    c.Query("priority"),
	}

	tasks, total, err := h.tasks.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, tasks, total, page, pageSize)
}

// Get GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, task)
}

// Create POST /api/projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "任务创建成功", task)
}

// Update PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "任务更新成功", task)
}

// UpdateProgress PATCH /api/tasks/:id/progress
func (h *TaskHandler) UpdateProgress(c *gin.Context) {
	var req struct {
		Progress *int `json:"progress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	task, err := h.tasks.UpdateProgress(c.Request.Context(), c.Param("id"), *req.Progress)
	if err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "任务进度已更新", task)
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.tasks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "任务已删除", nil)
}

// Stats GET /api/projects/:id/tasks/stats
func (h *TaskHandler) Stats(c *gin.Context) {
	stats, err := h.tasks.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, stats)
}
