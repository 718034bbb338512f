package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 并发撞号时的重试次数，靠order_no唯一索引兜底
const orderNoRetries = 3

// PurchaseService 采购服务
type PurchaseService struct {
	orders    *repository.PurchaseRepository
	logistics *repository.LogisticsRepository
	projects  *repository.ProjectRepository
	suppliers *repository.SupplierRepository
	logger    *zap.Logger
}

func NewPurchaseService(orders *repository.PurchaseRepository, logistics *repository.LogisticsRepository, projects *repository.ProjectRepository, suppliers *repository.SupplierRepository, logger *zap.Logger) *PurchaseService {
	return &PurchaseService{
		orders:    orders,
		logistics: logistics,
		projects:  projects,
		suppliers: suppliers,
		logger:    logger,
	}
}

// PurchaseItemInput 采购明细入参
type PurchaseItemInput struct {
	ItemCode      string  `json:"itemCode" binding:"required,max=50"`
	ItemName      string  `json:"itemName" binding:"required,max=200"`
	Specification string  `json:"specification" binding:"max=500"`
	Unit          string  `json:"unit" binding:"required,max=20"`
	Quantity      float64 `json:"quantity" binding:"required,gt=0"`
	UnitPrice     float64 `json:"unitPrice" binding:"gte=0"`
	Notes         string  `json:"notes"`
}

// CreateOrderRequest 创建采购单请求
type CreateOrderRequest struct {
	ProjectID    string              `json:"projectId" binding:"required"`
	SupplierID   string              `json:"supplierId" binding:"required"`
	OrderDate    string              `json:"orderDate"`
	ExpectedDate string              `json:"expectedDate"`
	TotalAmount  *float64            `json:"totalAmount"`
	Notes        string              `json:"notes"`
	Items        []PurchaseItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest 更新采购单请求，nil字段表示不修改
type UpdateOrderRequest struct {
	SupplierID   *string             `json:"supplierId"`
	OrderDate    *string             `json:"orderDate"`
	ExpectedDate *string             `json:"expectedDate"`
	TotalAmount  *float64            `json:"totalAmount"`
	Status       *string             `json:"status" binding:"omitempty,oneof=pending approved ordered received completed cancelled"`
	Notes        *string             `json:"notes"`
	Items        []PurchaseItemInput `json:"items" binding:"omitempty,min=1,dive"`
}

// PurchaseStats 采购统计
type PurchaseStats struct {
	TotalOrders    int64                    `json:"totalOrders"`
	TotalAmount    float64                  `json:"totalAmount"`
	PendingCount   int64                    `json:"pendingCount"`
	ApprovedCount  int64                    `json:"approvedCount"`
	CompletedCount int64                    `json:"completedCount"`
	BySupplier     []repository.SupplierAgg `json:"bySupplier"`
}

// CreateOrder 创建采购单。单号为PO+日期+当日3位序号，明细小计一律服务端计算。
func (s *PurchaseService) CreateOrder(ctx context.Context, creatorID string, req *CreateOrderRequest) (*entity.PurchaseOrder, error) {
	if _, err := s.projects.FindByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("项目不存在: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.suppliers.FindByID(ctx, req.SupplierID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("供应商不存在: %w", repository.ErrNotFound)
		}
		return nil, err
	}

	items := make([]entity.PurchaseItem, 0, len(req.Items))
	var computed float64
	for _, in := range req.Items {
		subtotal := in.Quantity * in.UnitPrice
		computed += subtotal
		items = append(items, entity.PurchaseItem{
			ID:            uuid.New().String()[:32],
			ItemCode:      in.ItemCode,
			ItemName:      in.ItemName,
			Specification: in.Specification,
			Unit:          in.Unit,
			Quantity:      in.Quantity,
			UnitPrice:     in.UnitPrice,
			Subtotal:      subtotal,
			Notes:         in.Notes,
		})
	}

	total := computed
	if req.TotalAmount != nil {
		total = *req.TotalAmount
	}

	orderDate, err := parseDateField(req.OrderDate, "orderDate")
	if err != nil {
		return nil, err
	}
	expected, err := parseDateField(req.ExpectedDate, "expectedDate")
	if err != nil {
		return nil, err
	}

	var order *entity.PurchaseOrder
	var lastErr error
	for attempt := 0; attempt < orderNoRetries; attempt++ {
		orderNo, err := s.orders.NextOrderNo(ctx)
		if err != nil {
			return nil, err
		}

		order = &entity.PurchaseOrder{
			ID:          uuid.New().String()[:32],
			OrderNo:     orderNo,
			ProjectID:   req.ProjectID,
			SupplierID:  req.SupplierID,
			TotalAmount: total,
			Status:      entity.OrderStatusPending,
			Notes:       req.Notes,
			CreatedBy:   creatorID,
			Items:       items,
		}
		if orderDate != nil {
			order.OrderDate = *orderDate
		}
		order.ExpectedDate = expected
		for i := range order.Items {
			order.Items[i].PurchaseOrderID = order.ID
		}

		lastErr = s.orders.Create(ctx, order)
		if lastErr == nil {
			s.logger.Info("采购单创建成功",
				zap.String("order_id", order.ID),
				zap.String("order_no", order.OrderNo))
			return order, nil
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return nil, lastErr
		}
		// 撞号重试，下一轮重新取号
	}
	return nil, lastErr
}

// UpdateOrder 更新采购单，已完成的采购单不可修改
func (s *PurchaseService) UpdateOrder(ctx context.Context, id string, req *UpdateOrderRequest) (*entity.PurchaseOrder, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == entity.OrderStatusCompleted {
		return nil, &BusinessError{Message: "已完成的采购单不能修改"}
	}

	if req.SupplierID != nil && *req.SupplierID != order.SupplierID {
		if _, err := s.suppliers.FindByID(ctx, *req.SupplierID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("供应商不存在: %w", repository.ErrNotFound)
			}
			return nil, err
		}
		order.SupplierID = *req.SupplierID
		order.Supplier = nil
	}
	if req.OrderDate != nil {
		d, err := parseDateField(*req.OrderDate, "orderDate")
		if err != nil {
			return nil, err
		}
		if d != nil {
			order.OrderDate = *d
		}
	}
	if req.ExpectedDate != nil && *req.ExpectedDate != "" {
		d, err := parseDateField(*req.ExpectedDate, "expectedDate")
		if err != nil {
			return nil, err
		}
		order.ExpectedDate = d
	}
	if req.Status != nil {
		order.Status = *req.Status
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	if req.Items != nil {
		items := make([]entity.PurchaseItem, 0, len(req.Items))
		var computed float64
		for _, in := range req.Items {
			subtotal := in.Quantity * in.UnitPrice
			computed += subtotal
			items = append(items, entity.PurchaseItem{
				ID:              uuid.New().String()[:32],
				PurchaseOrderID: order.ID,
				ItemCode:        in.ItemCode,
				ItemName:        in.ItemName,
				Specification:   in.Specification,
				Unit:            in.Unit,
				Quantity:        in.Quantity,
				UnitPrice:       in.UnitPrice,
				Subtotal:        subtotal,
				Notes:           in.Notes,
			})
		}
		order.TotalAmount = computed
		if req.TotalAmount != nil {
			order.TotalAmount = *req.TotalAmount
		}
		if err := s.orders.ReplaceItems(ctx, order, items); err != nil {
			return nil, err
		}
		order.Items = items
		return order, nil
	}

	if req.TotalAmount != nil {
		order.TotalAmount = *req.TotalAmount
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder 删除采购单，仅限pending或cancelled状态，且名下不能有物流记录
func (s *PurchaseService) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != entity.OrderStatusPending && order.Status != entity.OrderStatusCancelled {
		return &BusinessError{Message: "当前状态的采购单不能删除"}
	}
	count, err := s.orders.CountLogistics(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &BusinessError{Message: "采购单存在物流记录，不能删除"}
	}
	return s.orders.Delete(ctx, id)
}

// GetOrder 查询单个采购单
func (s *PurchaseService) GetOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.orders.FindByID(ctx, id)
}

// ListOrders 查询采购单列表
func (s *PurchaseService) ListOrders(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.orders.FindAll(ctx, page, pageSize, filters)
}

// Stats 采购统计，可按项目和订单日期区间过滤
func (s *PurchaseService) Stats(ctx context.Context, filters map[string]string) (*PurchaseStats, error) {
	byStatus, err := s.orders.AggregateByStatus(ctx, filters)
	if err != nil {
		return nil, err
	}
	bySupplier, err := s.orders.AggregateBySupplier(ctx, filters)
	if err != nil {
		return nil, err
	}

	stats := &PurchaseStats{BySupplier: bySupplier}
	for _, row := range byStatus {
		stats.TotalOrders += row.Count
		stats.TotalAmount += row.Total
		switch row.Status {
		case entity.OrderStatusPending:
			stats.PendingCount = row.Count
		case entity.OrderStatusApproved:
			stats.ApprovedCount = row.Count
		case entity.OrderStatusCompleted:
			stats.CompletedCount = row.Count
		}
	}
	return stats, nil
}

// CreateLogisticsRequest 创建物流请求
type CreateLogisticsRequest struct {
	LogisticsNo      string `json:"logisticsNo" binding:"required,max=50"`
	LogisticsCompany string `json:"logisticsCompany" binding:"required,max=100"`
	ShipDate         string `json:"shipDate"`
	ExpectedArrival  string `json:"expectedArrival"`
	Receiver         string `json:"receiver" binding:"max=50"`
	Notes            string `json:"notes"`
}

// UpdateLogisticsRequest 更新物流请求，nil字段表示不修改
type UpdateLogisticsRequest struct {
	LogisticsNo      *string `json:"logisticsNo"`
	LogisticsCompany *string `json:"logisticsCompany"`
	ShipDate         *string `json:"shipDate"`
	ExpectedArrival  *string `json:"expectedArrival"`
	Status           *string `json:"status" binding:"omitempty,oneof=in_transit delivered exception"`
	Receiver         *string `json:"receiver"`
	Notes            *string `json:"notes"`
}

// ConfirmReceiptRequest 确认收货请求
type ConfirmReceiptRequest struct {
	ActualArrival string `json:"actualArrival" binding:"required"`
	Receiver      string `json:"receiver" binding:"required,max=50"`
	Notes         string `json:"notes"`
}

// CreateLogistics 创建物流记录，运单号全局唯一
func (s *PurchaseService) CreateLogistics(ctx context.Context, orderID string, req *CreateLogisticsRequest) (*entity.Logistics, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("采购单不存在: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.logistics.FindByLogisticsNo(ctx, req.LogisticsNo); err == nil {
		return nil, &ConflictError{Message: "运单号已存在"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	record := &entity.Logistics{
		ID:               uuid.New().String()[:32],
		PurchaseOrderID:  orderID,
		LogisticsNo:      req.LogisticsNo,
		LogisticsCompany: req.LogisticsCompany,
		Status:           entity.LogisticsStatusInTransit,
		Receiver:         req.Receiver,
		Notes:            req.Notes,
	}
	ship, err := parseDateField(req.ShipDate, "shipDate")
	if err != nil {
		return nil, err
	}
	record.ShipDate = ship
	arrival, err := parseDateField(req.ExpectedArrival, "expectedArrival")
	if err != nil {
		return nil, err
	}
	record.ExpectedArrival = arrival

	if err := s.logistics.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("物流记录创建成功",
		zap.String("logistics_id", record.ID),
		zap.String("logistics_no", record.LogisticsNo))
	return record, nil
}

// UpdateLogistics 更新物流记录，运单号变更时重查唯一性
func (s *PurchaseService) UpdateLogistics(ctx context.Context, id string, req *UpdateLogisticsRequest) (*entity.Logistics, error) {
	record, err := s.logistics.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.LogisticsNo != nil && *req.LogisticsNo != record.LogisticsNo {
		if _, err := s.logistics.FindByLogisticsNo(ctx, *req.LogisticsNo); err == nil {
			return nil, &ConflictError{Message: "运单号已存在"}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		record.LogisticsNo = *req.LogisticsNo
	}
	if req.LogisticsCompany != nil {
		record.LogisticsCompany = *req.LogisticsCompany
	}
	if req.ShipDate != nil && *req.ShipDate != "" {
		d, err := parseDateField(*req.ShipDate, "shipDate")
		if err != nil {
			return nil, err
		}
		record.ShipDate = d
	}
	if req.ExpectedArrival != nil && *req.ExpectedArrival != "" {
		d, err := parseDateField(*req.ExpectedArrival, "expectedArrival")
		if err != nil {
			return nil, err
		}
		record.ExpectedArrival = d
	}
	if req.Status != nil {
		record.Status = *req.Status
	}
	if req.Receiver != nil {
		record.Receiver = *req.Receiver
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}

	if err := s.logistics.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ConfirmReceipt 确认收货。唯一会写入实际到货时间的入口，状态强制置为delivered。
func (s *PurchaseService) ConfirmReceipt(ctx context.Context, id string, req *ConfirmReceiptRequest) (*entity.Logistics, error) {
	record, err := s.logistics.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	arrival, err := parseDate(req.ActualArrival)
	if err != nil {
		return nil, &ValidationError{
			Message: "参数校验失败",
			Details: map[string]string{"actualArrival": "到货时间格式不正确"},
		}
	}

	record.Status = entity.LogisticsStatusDelivered
	record.ActualArrival = &arrival
	record.Receiver = req.Receiver
	if req.Notes != "" {
		record.Notes = req.Notes
	}

	if err := s.logistics.Update(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("物流已确认收货", zap.String("logistics_id", record.ID))
	return record, nil
}

// DeleteLogistics 删除物流记录
func (s *PurchaseService) DeleteLogistics(ctx context.Context, id string) error {
	if _, err := s.logistics.FindByID(ctx, id); err != nil {
		return err
	}
	return s.logistics.Delete(ctx, id)
}

// GetLogistics 查询单条物流记录
func (s *PurchaseService) GetLogistics(ctx context.Context, id string) (*entity.Logistics, error) {
	return s.logistics.FindByID(ctx, id)
}

// ListLogistics 查询物流列表，支持按状态和物流公司模糊过滤
func (s *PurchaseService) ListLogistics(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Logistics, int64, error) {
	return s.logistics.FindAll(ctx, page, pageSize, filters)
}
