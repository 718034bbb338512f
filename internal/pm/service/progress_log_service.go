package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/repository"
	"go.uber.org/zap"
)

// ProgressLogService 进度日志服务
type ProgressLogService struct {
	logs     *repository.ProgressLogRepository
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
	users    *repository.UserRepository
	logger   *zap.Logger
}

func NewProgressLogService(logs *repository.ProgressLogRepository, projects *repository.ProjectRepository, tasks *repository.TaskRepository, users *repository.UserRepository, logger *zap.Logger) *ProgressLogService {
	return &ProgressLogService{logs: logs, projects: projects, tasks: tasks, users: users, logger: logger}
}

// CreateProgressLogRequest 创建进度日志请求
type CreateProgressLogRequest struct {
	TaskID       *string `json:"taskId"`
	Stage        string  `json:"stage" binding:"required,max=50"`
	ProgressDesc string  `json:"progressDesc" binding:"required"`
	Issues       string  `json:"issues"`
	Photos       string  `json:"photos"`
	ReportDate   string  `json:"reportDate"`
}

// UpdateProgressLogRequest 更新进度日志请求，nil字段表示不修改
type UpdateProgressLogRequest struct {
	TaskID       *string `json:"taskId"`
	Stage        *string `json:"stage"`
	ProgressDesc *string `json:"progressDesc"`
	Issues       *string `json:"issues"`
	Photos       *string `json:"photos"`
	ReportDate   *string `json:"reportDate"`
}

// Create 创建进度日志。关联任务时任务必须属于同一项目。
func (s *ProgressLogService) Create(ctx context.Context, projectID, reporterID string, req *CreateProgressLogRequest) (*entity.ProgressLog, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("项目不存在: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, reporterID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("上报人不存在: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	if err := s.checkTaskBelongs(ctx, req.TaskID, projectID); err != nil {
		return nil, err
	}

	log := &entity.ProgressLog{
		ID:           uuid.New().String()[:32],
		ProjectID:    projectID,
		TaskID:       req.TaskID,
		Stage:        req.Stage,
		ProgressDesc: req.ProgressDesc,
		Issues:       req.Issues,
		Photos:       req.Photos,
		ReporterID:   reporterID,
	}
	if d, err := parseDateField(req.ReportDate, "reportDate"); err != nil {
		return nil, err
	} else if d != nil {
		log.ReportDate = *d
	}

	if err := s.logs.Create(ctx, log); err != nil {
		return nil, err
	}

	s.logger.Info("进度日志已上报",
		zap.String("log_id", log.ID),
		zap.String("project_id", projectID))
	return log, nil
}

// Update 更新进度日志，变更关联任务时重新校验归属
func (s *ProgressLogService) Update(ctx context.Context, id string, req *UpdateProgressLogRequest) (*entity.ProgressLog, error) {
	log, err := s.logs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TaskID != nil {
		if *req.TaskID == "" {
			log.TaskID = nil
		} else {
			if err := s.checkTaskBelongs(ctx, req.TaskID, log.ProjectID); err != nil {
				return nil, err
			}
			log.TaskID = req.TaskID
		}
		log.Task = nil
	}
	if req.Stage != nil {
		log.Stage = *req.Stage
	}
	if req.ProgressDesc != nil {
		log.ProgressDesc = *req.ProgressDesc
	}
	if req.Issues != nil {
		log.Issues = *req.Issues
	}
	if req.Photos != nil {
		log.Photos = *req.Photos
	}
	if req.ReportDate != nil {
		d, err := parseDateField(*req.ReportDate, "reportDate")
		if err != nil {
			return nil, err
		}
		if d != nil {
			log.ReportDate = *d
		}
	}

	if err := s.logs.Update(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// Delete 删除进度日志
func (s *ProgressLogService) Delete(ctx context.Context, id string) error {
	if _, err := s.logs.FindByID(ctx, id); err != nil {
		return err
	}
	return s.logs.Delete(ctx, id)
}

// Get 查询单条进度日志
func (s *ProgressLogService) Get(ctx context.Context, id string) (*entity.ProgressLog, error) {
	return s.logs.FindByID(ctx, id)
}

// List 查询进度日志列表
func (s *ProgressLogService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProgressLog, int64, error) {
	return s.logs.FindAll(ctx, page, pageSize, filters)
}

func (s *ProgressLogService) checkTaskBelongs(ctx context.Context, taskID *string, projectID string) error {
	if taskID == nil || *taskID == "" {
		return nil
	}
	task, err := s.tasks.FindByID(ctx, *taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("任务不存在: %w", repository.ErrNotFound)
		}
		return err
	}
	if task.ProjectID != projectID {
		return &BusinessError{Message: "任务不属于该项目"}
	}
	return nil
}
