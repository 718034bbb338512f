package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/service"
)

// PurchaseHandler 采购与物流接口
type PurchaseHandler struct {
	purchases *service.PurchaseService
}

func NewPurchaseHandler(purchases *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

// ListOrders GET /api/purchase-orders
func (h *PurchaseHandler) ListOrders(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"project_id":  c.Query("projectId"),
		"supplier_id": c.Query("supplierId"),
		"status":      c.Query("status"),
		"search":      c.Query("search"),
	}

	orders, total, err := h.purchases.ListOrders(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, orders, total, page, pageSize)
}

// GetOrder GET /api/purchase-orders/:id
func (h *PurchaseHandler) GetOrder(c *gin.Context) {
	order, err := h.purchases.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, order)
}

// CreateOrder POST /api/purchase-orders
func (h *PurchaseHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	order, err := h.purchases.CreateOrder(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "采购单创建成功", order)
}

// UpdateOrder PUT /api/purchase-orders/:id
func (h *PurchaseHandler) UpdateOrder(c *gin.Context) {
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	order, err := h.purchases.UpdateOrder(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "采购单更新成功", order)
}

// DeleteOrder DELETE /api/purchase-orders/:id
func (h *PurchaseHandler) DeleteOrder(c *gin.Context) {
	if err := h.purchases.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "采购单已删除", nil)
}

// Stats GET /api/purchase-orders/stats
func (h *PurchaseHandler) Stats(c *gin.Context) {
	filters := map[string]string{
		"project_id": c.Query("projectId"),
		"start_date": c.Query("startDate"),
		"end_date":   c.Query("endDate"),
	}

	stats, err := h.purchases.Stats(c.Request.Context(), filters)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, stats)
}

// ListOrderLogistics GET /api/purchase-orders/:id/logistics
func (h *PurchaseHandler) ListOrderLogistics(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"purchase_order_id": c.Param("id"),
		"status":            c.Query("status"),
	}

	records, total, err := h.purchases.ListLogistics(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, records, total, page, pageSize)
}

// ListAllLogistics GET /api/logistics
func (h *PurchaseHandler) ListAllLogistics(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":            c.Query("status"),
		"logistics_company": c.Query("company"),
	}

	records, total, err := h.purchases.ListLogistics(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, records, total, page, pageSize)
}

// GetLogistics GET /api/logistics/:id
func (h *PurchaseHandler) GetLogistics(c *gin.Context) {
	record, err := h.purchases.GetLogistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, record)
}

// CreateLogistics POST /api/purchase-orders/:id/logistics
func (h *PurchaseHandler) CreateLogistics(c *gin.Context) {
	var req service.CreateLogisticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	record, err := h.purchases.CreateLogistics(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "物流记录创建成功", record)
}

// UpdateLogistics PUT /api/logistics/:id
func (h *PurchaseHandler) UpdateLogistics(c *gin.Context) {
	var req service.UpdateLogisticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	record, err := h.purchases.UpdateLogistics(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "物流记录更新成功", record)
}

// ConfirmReceipt POST /api/logistics/:id/confirm-receipt
func (h *PurchaseHandler) ConfirmReceipt(c *gin.Context) {
	var req service.ConfirmReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	record, err := h.purchases.ConfirmReceipt(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "已确认收货", record)
}

// DeleteLogistics DELETE /api/logistics/:id
func (h *PurchaseHandler) DeleteLogistics(c *gin.Context) {
	if err := h.purchases.DeleteLogistics(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "物流记录已删除", nil)
}
