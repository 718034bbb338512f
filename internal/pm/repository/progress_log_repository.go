package repository

import (
	"context"
	"errors"

	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"gorm.io/gorm"
)

// ProgressLogRepository 进度日志仓库
type ProgressLogRepository struct {
	db *gorm.DB
}

func NewProgressLogRepository(db *gorm.DB) *ProgressLogRepository {
	return &ProgressLogRepository{db: db}
}

// FindAll 查询进度日志列表
func (r *ProgressLogRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProgressLog, int64, error) {
	var logs []entity.ProgressLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProgressLog{})

	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if taskID := filters["task_id"]; taskID != "" {
		query = query.Where("task_id = ?", taskID)
	}
	if stage := filters["stage"]; stage != "" {
		query = query.Where("stage = ?", stage)
	}
	if reporterID := filters["reporter_id"]; reporterID != "" {
		query = query.Where("reporter_id = ?", reporterID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Reporter").
		Preload("Task").
		Order("report_date DESC, created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&logs).Error

	return logs, total, err
}

// FindByID 根据ID查找进度日志
func (r *ProgressLogRepository) FindByID(ctx context.Context, id string) (*entity.ProgressLog, error) {
	var log entity.ProgressLog
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Task").
		Where("id = ?", id).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// Create 创建进度日志
func (r *ProgressLogRepository) Create(ctx context.Context, log *entity.ProgressLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// Update 更新进度日志
func (r *ProgressLogRepository) Update(ctx context.Context, log *entity.ProgressLog) error {
	return r.db.WithContext(ctx).Omit("Project", "Task", "Reporter").Save(log).Error
}

// Delete 删除进度日志
func (r *ProgressLogRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ProgressLog{}).Error
}
