package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/service"
)

// FinancialHandler 收支接口
type FinancialHandler struct {
	financial *service.FinancialService
}

func NewFinancialHandler(financial *service.FinancialService) *FinancialHandler {
	return &FinancialHandler{financial: financial}
}

// List GET /api/financial-records
func (h *FinancialHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"project_id":    c.Query("projectId"),
		"record_type":   c.Query("recordType"),
		"status":        c.Query("status"),
		"cost_category": c.Query("costCategory"),
		"start_date":    c.Query("startDate"),
		"end_date":      c.Query("endDate"),
	}

	records, total, err := h.financial.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, records, total, page, pageSize)
}

// Get GET /api/financial-records/:id
func (h *FinancialHandler) Get(c *gin.Context) {
	record, err := h.financial.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, record)
}

// Create POST /api/financial-records
func (h *FinancialHandler) Create(c *gin.Context) {
	var req service.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	record, err := h.financial.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "收支记录创建成功", record)
}

// Update PUT /api/financial-records/:id
func (h *FinancialHandler) Update(c *gin.Context) {
	var req service.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	record, err := h.financial.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "收支记录更新成功", record)
}

// Delete DELETE /api/financial-records/:id
func (h *FinancialHandler) Delete(c *gin.Context) {
	if err := h.financial.Delete(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "收支记录已删除", nil)
}

// ProjectStats GET /api/projects/:id/financial-stats
func (h *FinancialHandler) ProjectStats(c *gin.Context) {
	stats, err := h.financial.ProjectStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, stats)
}

// AllProjectsStats GET /api/financial-records/stats/all-projects
func (h *FinancialHandler) AllProjectsStats(c *gin.Context) {
	stats, err := h.financial.AllProjectsStats(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, stats)
}

// Export GET /api/financial-records/export 导出xlsx
func (h *FinancialHandler) Export(c *gin.Context) {
	filters := map[string]string{
		"project_id":  c.Query("projectId"),
		"record_type": c.Query("recordType"),
		"status":      c.Query("status"),
		"start_date":  c.Query("startDate"),
		"end_date":    c.Query("endDate"),
	}

	buf, err := h.financial.Export(c.Request.Context(), filters)
	if err != nil {
		Fail(c, err)
		return
	}

	filename := fmt.Sprintf("financial-records-%s.xlsx", time.Now().Format("20060102150405"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
