package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"gorm.io/gorm"
)

// PurchaseRepository 采购单仓库
type PurchaseRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewPurchaseRepository(db *gorm.DB, rdb *redis.Client) *PurchaseRepository {
	return &PurchaseRepository{db: db, rdb: rdb}
}

// FindAll 查询采购单列表
func (r *PurchaseRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	var orders []entity.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{})

	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("order_no ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Supplier").
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&orders).Error

	return orders, total, err
}

// FindByID 根据ID查找采购单（含明细）
func (r *PurchaseRepository) FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var order entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Project").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Create 创建采购单及明细
func (r *PurchaseRepository) Create(ctx context.Context, order *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Update 更新采购单表头
func (r *PurchaseRepository) Update(ctx context.Context, order *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Omit("Items", "Supplier", "Project").Save(order).Error
}

// ReplaceItems 更新采购单并整体替换明细
func (r *PurchaseRepository) ReplaceItems(ctx context.Context, order *entity.PurchaseOrder, items []entity.PurchaseItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", order.ID).Delete(&entity.PurchaseItem{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Items", "Supplier", "Project").Save(order).Error
	})
}

// Delete 删除采购单及明细
func (r *PurchaseRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", id).Delete(&entity.PurchaseItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.PurchaseOrder{}).Error
	})
}

// CountLogistics 统计采购单关联的物流记录数
func (r *PurchaseRepository) CountLogistics(ctx context.Context, orderID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Logistics{}).
		Where("purchase_order_id = ?", orderID).
		Count(&count).Error
	return count, err
}

// StatusAgg 按状态聚合的采购单数与金额
type StatusAgg struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Total  float64 `json:"total"`
}

// SupplierAgg 按供应商聚合的采购单数与金额
type SupplierAgg struct {
	SupplierID   string  `json:"supplierId"`
	SupplierName string  `json:"supplierName"`
	OrderCount   int64   `json:"orderCount"`
	TotalAmount  float64 `json:"totalAmount"`
}

// AggregateByStatus 按状态汇总采购单数量与金额，可按订单日期区间过滤
func (r *PurchaseRepository) AggregateByStatus(ctx context.Context, filters map[string]string) ([]StatusAgg, error) {
	var rows []StatusAgg
	query := r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total")
	query = applyOrderStatsFilters(query, filters)
	err := query.Group("status").Scan(&rows).Error
	return rows, err
}

// AggregateBySupplier 按供应商汇总采购单数量与金额，带供应商名称
func (r *PurchaseRepository) AggregateBySupplier(ctx context.Context, filters map[string]string) ([]SupplierAgg, error) {
	var rows []SupplierAgg
	query := r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Select("purchase_orders.supplier_id, suppliers.name AS supplier_name, COUNT(*) AS order_count, COALESCE(SUM(purchase_orders.total_amount), 0) AS total_amount").
		Joins("JOIN suppliers ON suppliers.id = purchase_orders.supplier_id")
	query = applyOrderStatsFilters(query, filters)
	err := query.
		Group("purchase_orders.supplier_id, suppliers.name").
		Order("total_amount DESC").
		Scan(&rows).Error
	return rows, err
}

func applyOrderStatsFilters(query *gorm.DB, filters map[string]string) *gorm.DB {
	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("purchase_orders.project_id = ?", projectID)
	}
	if from := filters["start_date"]; from != "" {
		query = query.Where("purchase_orders.order_date >= ?", from)
	}
	if to := filters["end_date"]; to != "" {
		query = query.Where("purchase_orders.order_date <= ?", to)
	}
	return query
}

// NextOrderNo 生成采购单号 PO+YYYYMMDD+3位当日序号。
// 优先使用Redis做当日计数器，未配置Redis时退化为扫描当日最大单号。
func (r *PurchaseRepository) NextOrderNo(ctx context.Context) (string, error) {
	day := time.Now().Format("20060102")
	prefix := "PO" + day

	if r.rdb != nil {
		key := "po:seq:" + day
		seq, err := r.rdb.Incr(ctx, key).Result()
		if err == nil {
			// 计数器只在当日有效，隔日自动过期
			r.rdb.Expire(ctx, key, 48*time.Hour)
			return fmt.Sprintf("%s%03d", prefix, seq), nil
		}
		// Redis不可用时走数据库兜底
	}

	var maxNo string
	err := r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Select("COALESCE(MAX(order_no), '')").
		Where("order_no LIKE ?", prefix+"%").
		Scan(&maxNo).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxNo != "" {
		fmt.Sscanf(maxNo, prefix+"%03d", &seq)
	}
	seq++
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}
