package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/service"
)

// ProjectHandler 项目接口
type ProjectHandler struct {
	projects *service.ProjectService
}

func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// List GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":       c.Query("status"),
		"manager_id":   c.Query("managerId"),
		"project_type": c.Query("projectType"),
		"search":       c.Query("search"),
	}

	projects, total, err := h.projects.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, projects, total, page, pageSize)
}

// Get GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, project)
}

// Create POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	project, err := h.projects.Create(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "项目创建成功", project)
}

// Update PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	project, err := h.projects.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "项目更新成功", project)
}

// Delete DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "项目已删除", nil)
}

// Stats GET /api/projects/stats
func (h *ProjectHandler) Stats(c *gin.Context) {
	stats, err := h.projects.Stats(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, stats)
}
