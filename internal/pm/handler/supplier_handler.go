package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/service"
)

// SupplierHandler 供应商接口
type SupplierHandler struct {
	suppliers *service.SupplierService
}

func NewSupplierHandler(suppliers *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

// List GET /api/suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("search"),
	}

	suppliers, total, err := h.suppliers.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, suppliers, total, page, pageSize)
}

// Stats GET /api/suppliers/stats
func (h *SupplierHandler) Stats(c *gin.Context) {
	stats, err := h.suppliers.Stats(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, stats)
}

// Get GET /api/suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	supplier, err := h.suppliers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, supplier)
}

// Create POST /api/suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	supplier, err := h.suppliers.Create(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "供应商创建成功", supplier)
}

// Update PUT /api/suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	supplier, err := h.suppliers.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "供应商更新成功", supplier)
}

// Delete DELETE /api/suppliers/:id
func (h *SupplierHandler) Delete(c *gin.Context) {
	if err := h.suppliers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "供应商已删除", nil)
}
