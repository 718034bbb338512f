package repository

import (
	"context"
	"errors"

	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"gorm.io/gorm"
)

// ProjectRepository 项目仓库
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindAll 查询项目列表
func (r *ProjectRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Project, int64, error) {
	var projects []entity.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Project{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if managerID := filters["manager_id"]; managerID != "" {
		query = query.Where("manager_id = ?", managerID)
	}
	if projectType := filters["project_type"]; projectType != "" {
		query = query.Where("project_type = ?", projectType)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("project_name ILIKE ? OR project_code ILIKE ? OR customer_name ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Manager").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&projects).Error

	return projects, total, err
}

// FindByID 根据ID查找项目
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).Preload("Manager").Where("id = ?", id).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// FindByCode 根据项目编号查找项目
func (r *ProjectRepository) FindByCode(ctx context.Context, code string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).Where("project_code = ?", code).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// FindIDs 查询全部项目ID与名称（统计用）
func (r *ProjectRepository) FindIDs(ctx context.Context) ([]entity.Project, error) {
	var projects []entity.Project
	err := r.db.WithContext(ctx).
		Select("id", "project_code", "project_name", "status", "contract_amount").
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// Create 创建项目
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update 更新项目
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Omit("Manager").Save(project).Error
}

// DeleteCascade 删除项目及其全部下属数据（任务、日志、采购单、物流、收支）
func (r *ProjectRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orderIDs []string
		if err := tx.Model(&entity.PurchaseOrder{}).
			Where("project_id = ?", id).
			Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("purchase_order_id IN ?", orderIDs).Delete(&entity.Logistics{}).Error; err != nil {
				return err
			}
			if err := tx.Where("purchase_order_id IN ?", orderIDs).Delete(&entity.PurchaseItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&entity.PurchaseOrder{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", id).Delete(&entity.ProgressLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&entity.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&entity.FinancialRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Project{}).Error
	})
}

// CountByStatus 按状态统计项目数量
func (r *ProjectRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&entity.Project{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Status] = r.Count
	}
	return result, nil
}
