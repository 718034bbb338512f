package repository

import (
	"context"
	"errors"

	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"gorm.io/gorm"
)

// SupplierRepository 供应商仓库
type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// FindAll 查询供应商列表
func (r *SupplierRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	var suppliers []entity.Supplier
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Supplier{})

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR contact_person ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&suppliers).Error
	return suppliers, total, err
}

// FindByID 根据ID查找供应商
func (r *SupplierRepository) FindByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var supplier entity.Supplier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindByName 根据名称查找供应商
func (r *SupplierRepository) FindByName(ctx context.Context, name string) (*entity.Supplier, error) {
	var supplier entity.Supplier
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// Create 创建供应商
func (r *SupplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

// Update 更新供应商
func (r *SupplierRepository) Update(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete 删除供应商
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Supplier{}).Error
}

// Count 统计供应商总数
func (r *SupplierRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Supplier{}).Count(&count).Error
	return count, err
}

// AggregateOrders 按供应商汇总采购单数量与金额，无订单的供应商也计入
func (r *SupplierRepository) AggregateOrders(ctx context.Context) ([]SupplierAgg, error) {
	var rows []SupplierAgg
	err := r.db.WithContext(ctx).
		Model(&entity.Supplier{}).
		Select("suppliers.id AS supplier_id, suppliers.name AS supplier_name, COUNT(purchase_orders.id) AS order_count, COALESCE(SUM(purchase_orders.total_amount), 0) AS total_amount").
		Joins("LEFT JOIN purchase_orders ON purchase_orders.supplier_id = suppliers.id").
		Group("suppliers.id, suppliers.name").
		Order("total_amount DESC").
		Scan(&rows).Error
	return rows, err
}

// CountOrders 统计供应商名下采购单数量
func (r *SupplierRepository) CountOrders(ctx context.Context, supplierID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	return count, err
}
