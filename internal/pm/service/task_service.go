package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/repository"
	"go.uber.org/zap"
)

// TaskService 任务服务
type TaskService struct {
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
	users    *repository.UserRepository
	logger   *zap.Logger
}

func NewTaskService(tasks *repository.TaskRepository, projects *repository.ProjectRepository, users *repository.UserRepository, logger *zap.Logger) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, users: users, logger: logger}
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description"`
	TaskType    string  `json:"taskType" binding:"max=50"`
	AssigneeID  *string `json:"assigneeId"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=high medium low"`
	Status      string  `json:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	Progress    *int    `json:"progress" binding:"omitempty,gte=0,lte=100"`
	StartDate   string  `json:"startDate"`
	DueDate     string  `json:"dueDate"`
}

// UpdateTaskRequest 更新任务请求，nil字段表示不修改
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	TaskType    *string `json:"taskType"`
	AssigneeID  *string `json:"assigneeId"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=high medium low"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	Progress    *int    `json:"progress" binding:"omitempty,gte=0,lte=100"`
	StartDate   *string `json:"startDate"`
	DueDate     *string `json:"dueDate"`
}

// TaskStats 任务统计
type TaskStats struct {
	Total          int64   `json:"total"`
	Pending        int64   `json:"pending"`
	InProgress     int64   `json:"inProgress"`
	Completed      int64   `json:"completed"`
	Overdue        int64   `json:"overdue"`
	CompletionRate float64 `json:"completionRate"`
}

// Create 创建任务
func (s *TaskService) Create(ctx context.Context, projectID string, req *CreateTaskRequest) (*entity.Task, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("项目不存在: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	if req.AssigneeID != nil && *req.AssigneeID != "" {
		if _, err := s.users.FindByID(ctx, *req.AssigneeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("任务负责人不存在: %w", repository.ErrNotFound)
			}
			return nil, err
		}
	}

	progress := 0
	if req.Progress != nil {
		progress = *req.Progress
	}
	status := req.Status
	if status == "" {
		status = entity.TaskStatusPending
	}
	if status == entity.TaskStatusCompleted && progress != 100 {
		return nil, &BusinessError{Message: "已完成的任务进度必须为100"}
	}

	priority := req.Priority
	if priority == "" {
		priority = entity.TaskPriorityMedium
	}

	task := &entity.Task{
		ID:          uuid.New().String()[:32],
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		TaskType:    req.TaskType,
		AssigneeID:  req.AssigneeID,
		Priority:    priority,
		Status:      status,
		Progress:    progress,
	}
	start, err := parseDateField(req.StartDate, "startDate")
	if err != nil {
		return nil, err
	}
	task.StartDate = start
	due, err := parseDateField(req.DueDate, "dueDate")
	if err != nil {
		return nil, err
	}
	task.DueDate = due

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("任务创建成功",
		zap.String("task_id", task.ID),
		zap.String("project_id", projectID))
	return task, nil
}

// Update 更新任务。进度与状态联动规则按固定优先级执行，每次更新只命中一条：
//  1. 状态改为completed时进度强制为100
//  2. 当前状态为completed且进度被调低时状态回退为in_progress
//  3. 进度改为100且当前状态非completed时状态置为completed
func (s *TaskService) Update(ctx context.Context, id string, req *UpdateTaskRequest) (*entity.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AssigneeID != nil && *req.AssigneeID != "" {
		if _, err := s.users.FindByID(ctx, *req.AssigneeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("任务负责人不存在: %w", repository.ErrNotFound)
			}
			return nil, err
		}
	}

	// 联动规则基于更新前的存量状态判断
	switch {
	case req.Status != nil && *req.Status == entity.TaskStatusCompleted:
		task.Status = entity.TaskStatusCompleted
		task.Progress = 100
	case req.Progress != nil && *req.Progress < 100 && task.Status == entity.TaskStatusCompleted:
		task.Progress = *req.Progress
		task.Status = entity.TaskStatusInProgress
	case req.Progress != nil && *req.Progress == 100 && task.Status != entity.TaskStatusCompleted:
		task.Progress = 100
		task.Status = entity.TaskStatusCompleted
	default:
		if req.Status != nil {
			task.Status = *req.Status
		}
		if req.Progress != nil {
			task.Progress = *req.Progress
		}
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.TaskType != nil {
		task.TaskType = *req.TaskType
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
		task.Assignee = nil
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.StartDate != nil && *req.StartDate != "" {
		d, err := parseDateField(*req.StartDate, "startDate")
		if err != nil {
			return nil, err
		}
		task.StartDate = d
	}
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := parseDateField(*req.DueDate, "dueDate")
		if err != nil {
			return nil, err
		}
		task.DueDate = d
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateProgress 仅更新任务进度，复用联动规则
func (s *TaskService) UpdateProgress(ctx context.Context, id string, progress int) (*entity.Task, error) {
	if progress < 0 || progress > 100 {
		return nil, &ValidationError{
			Message: "参数校验失败",
			Details: map[string]string{"progress": "进度必须在0到100之间"},
		}
	}
	return s.Update(ctx, id, &UpdateTaskRequest{Progress: &progress})
}

// Delete 删除任务
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if _, err := s.tasks.FindByID(ctx, id); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}

// Get 查询单个任务
func (s *TaskService) Get(ctx context.Context, id string) (*entity.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

// List 查询任务列表
func (s *TaskService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Task, int64, error) {
	return s.tasks.FindAll(ctx, page, pageSize, filters)
}

// Stats 项目任务统计
func (s *TaskService) Stats(ctx context.Context, projectID string) (*TaskStats, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	stats := &TaskStats{}
	for _, t := range tasks {
		stats.Total++
		switch t.Status {
		case entity.TaskStatusPending:
			stats.Pending++
		case entity.TaskStatusInProgress:
			stats.InProgress++
		case entity.TaskStatusCompleted:
			stats.Completed++
		}
	}
	overdue, err := s.tasks.CountOverdue(ctx, projectID, time.Now())
	if err != nil {
		return nil, err
	}
	stats.Overdue = overdue
	if stats.Total > 0 {
		stats.CompletionRate = math.Round(float64(stats.Completed) / float64(stats.Total) * 100)
	}
	return stats, nil
}
