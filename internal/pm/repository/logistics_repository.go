package repository

import (
	"context"
	"errors"

	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"gorm.io/gorm"
)

// LogisticsRepository 物流仓库
type LogisticsRepository struct {
	db *gorm.DB
}

func NewLogisticsRepository(db *gorm.DB) *LogisticsRepository {
	return &LogisticsRepository{db: db}
}

// FindAll 查询物流列表
func (r *LogisticsRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Logistics, int64, error) {
	var records []entity.Logistics
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Logistics{})

	if orderID := filters["purchase_order_id"]; orderID != "" {
		query = query.Where("purchase_order_id = ?", orderID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if company := filters["logistics_company"]; company != "" {
		query = query.Where("logistics_company ILIKE ?", "%"+company+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("PurchaseOrder").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&records).Error

	return records, total, err
}

// FindByID 根据ID查找物流记录
func (r *LogisticsRepository) FindByID(ctx context.Context, id string) (*entity.Logistics, error) {
	var record entity.Logistics
	err := r.db.WithContext(ctx).
		Preload("PurchaseOrder").
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByLogisticsNo 根据运单号查找物流记录
func (r *LogisticsRepository) FindByLogisticsNo(ctx context.Context, no string) (*entity.Logistics, error) {
	var record entity.Logistics
	err := r.db.WithContext(ctx).Where("logistics_no = ?", no).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Create 创建物流记录
func (r *LogisticsRepository) Create(ctx context.Context, record *entity.Logistics) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Update 更新物流记录
func (r *LogisticsRepository) Update(ctx context.Context, record *entity.Logistics) error {
	return r.db.WithContext(ctx).Omit("PurchaseOrder").Save(record).Error
}

// Delete 删除物流记录
func (r *LogisticsRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Logistics{}).Error
}
