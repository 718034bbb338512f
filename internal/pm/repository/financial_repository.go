package repository

import (
	"context"
	"errors"

	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"gorm.io/gorm"
)

// FinancialRepository 收支记录仓库
type FinancialRepository struct {
	db *gorm.DB
}

func NewFinancialRepository(db *gorm.DB) *FinancialRepository {
	return &FinancialRepository{db: db}
}

// FindAll 查询收支记录列表
func (r *FinancialRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.FinancialRecord, int64, error) {
	var records []entity.FinancialRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.FinancialRecord{})

	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if recordType := filters["record_type"]; recordType != "" {
		query = query.Where("record_type = ?", recordType)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if category := filters["cost_category"]; category != "" {
		query = query.Where("cost_category = ?", category)
	}
	if from := filters["start_date"]; from != "" {
		query = query.Where("transaction_date >= ?", from)
	}
	if to := filters["end_date"]; to != "" {
		query = query.Where("transaction_date <= ?", to)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Project").
		Preload("Creator").
		Order("transaction_date DESC, created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&records).Error

	return records, total, err
}

// FindByID 根据ID查找收支记录
func (r *FinancialRepository) FindByID(ctx context.Context, id string) (*entity.FinancialRecord, error) {
	var record entity.FinancialRecord
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Creator").
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

// FindConfirmedByProject 查询项目下全部已确认记录（统计用，不分页）
func (r *FinancialRepository) FindConfirmedByProject(ctx context.Context, projectID string) ([]entity.FinancialRecord, error) {
	var records []entity.FinancialRecord
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, entity.RecordStatusConfirmed).
		Order("transaction_date ASC").
		Find(&records).Error
	return records, err
}

// FindForExport 按过滤条件查询全部记录（导出用，不分页）
func (r *FinancialRepository) FindForExport(ctx context.Context, filters map[string]string) ([]entity.FinancialRecord, error) {
	var records []entity.FinancialRecord

	query := r.db.WithContext(ctx).Model(&entity.FinancialRecord{})
	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if recordType := filters["record_type"]; recordType != "" {
		query = query.Where("record_type = ?", recordType)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if from := filters["start_date"]; from != "" {
		query = query.Where("transaction_date >= ?", from)
	}
	if to := filters["end_date"]; to != "" {
		query = query.Where("transaction_date <= ?", to)
	}

	err := query.
		Preload("Project").
		Preload("Creator").
		Order("transaction_date DESC").
		Find(&records).Error
	return records, err
}

// Create 创建收支记录
func (r *FinancialRepository) Create(ctx context.Context, record *entity.FinancialRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Update 更新收支记录
func (r *FinancialRepository) Update(ctx context.Context, record *entity.FinancialRecord) error {
	return r.db.WithContext(ctx).Omit("Project", "Creator").Save(record).Error
}

// Delete 删除收支记录
func (r *FinancialRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.FinancialRecord{}).Error
}
