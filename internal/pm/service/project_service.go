package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/repository"
	"go.uber.org/zap"
)

// ProjectService 项目生命周期服务
type ProjectService struct {
	projects *repository.ProjectRepository
	users    *repository.UserRepository
	logger   *zap.Logger
}

func NewProjectService(projects *repository.ProjectRepository, users *repository.UserRepository, logger *zap.Logger) *ProjectService {
	return &ProjectService{projects: projects, users: users, logger: logger}
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	ProjectCode    string  `json:"projectCode" binding:"required,max=50"`
	TelecomCode    string  `json:"telecomCode" binding:"max=50"`
	ProjectName    string  `json:"projectName" binding:"required,max=200"`
	CustomerName   string  `json:"customerName" binding:"required,max=100"`
	ProjectType    string  `json:"projectType" binding:"max=50"`
	ProjectAddress string  `json:"projectAddress" binding:"max=500"`
	ContractAmount float64 `json:"contractAmount" binding:"gte=0"`
	ManagerID      string  `json:"managerId" binding:"required"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	Description    string  `json:"description"`
}

// UpdateProjectRequest 更新项目请求，nil字段表示不修改
type UpdateProjectRequest struct {
	ProjectCode    *string  `json:"projectCode"`
	TelecomCode    *string  `json:"telecomCode"`
	ProjectName    *string  `json:"projectName"`
	CustomerName   *string  `json:"customerName"`
	ProjectType    *string  `json:"projectType"`
	ProjectAddress *string  `json:"projectAddress"`
	ContractAmount *float64 `json:"contractAmount"`
	ManagerID      *string  `json:"managerId"`
	StartDate      *string  `json:"startDate"`
	EndDate        *string  `json:"endDate"`
	Status         *string  `json:"status"`
	Description    *string  `json:"description"`
}

// ProjectStats 项目状态统计
type ProjectStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
}

// Create 创建项目，项目编号唯一，负责人必须存在
func (s *ProjectService) Create(ctx context.Context, req *CreateProjectRequest) (*entity.Project, error) {
	if _, err := s.projects.FindByCode(ctx, req.ProjectCode); err == nil {
		return nil, &ConflictError{Message: "项目编号已存在"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, req.ManagerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("项目负责人不存在: %w", repository.ErrNotFound)
		}
		return nil, err
	}

	project := &entity.Project{
		ID:             uuid.New().String()[:32],
		ProjectCode:    req.ProjectCode,
		TelecomCode:    req.TelecomCode,
		ProjectName:    req.ProjectName,
		CustomerName:   req.CustomerName,
		ProjectType:    req.ProjectType,
		ProjectAddress: req.ProjectAddress,
		ContractAmount: req.ContractAmount,
		ManagerID:      req.ManagerID,
		Status:         entity.ProjectStatusPending,
		Description:    req.Description,
	}
	start, err := parseDateField(req.StartDate, "startDate")
	if err != nil {
		return nil, err
	}
	if start != nil {
		project.StartDate = *start
	}
	end, err := parseDateField(req.EndDate, "endDate")
	if err != nil {
		return nil, err
	}
	if end != nil {
		project.EndDate = *end
	}
	if err := checkProjectDates(project.StartDate, project.EndDate); err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("项目创建成功",
		zap.String("project_id", project.ID),
		zap.String("project_code", project.ProjectCode))
	return project, nil
}

// Update 更新项目，状态变更按流转图校验
func (s *ProjectService) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*entity.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ProjectCode != nil && *req.ProjectCode != project.ProjectCode {
		if _, err := s.projects.FindByCode(ctx, *req.ProjectCode); err == nil {
			return nil, &ConflictError{Message: "项目编号已存在"}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		project.ProjectCode = *req.ProjectCode
	}
	if req.ManagerID != nil && *req.ManagerID != project.ManagerID {
		if _, err := s.users.FindByID(ctx, *req.ManagerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("项目负责人不存在: %w", repository.ErrNotFound)
			}
			return nil, err
		}
		project.ManagerID = *req.ManagerID
		project.Manager = nil
	}
	if req.Status != nil && *req.Status != project.Status {
		if !entity.CanTransition(project.Status, *req.Status) {
			return nil, &BadRequestError{
				Message: fmt.Sprintf("项目状态不能从 %s 变更为 %s", project.Status, *req.Status),
			}
		}
		project.Status = *req.Status
	}

	if req.TelecomCode != nil {
		project.TelecomCode = *req.TelecomCode
	}
	if req.ProjectName != nil {
		project.ProjectName = *req.ProjectName
	}
	if req.CustomerName != nil {
		project.CustomerName = *req.CustomerName
	}
	if req.ProjectType != nil {
		project.ProjectType = *req.ProjectType
	}
	if req.ProjectAddress != nil {
		project.ProjectAddress = *req.ProjectAddress
	}
	if req.ContractAmount != nil {
		project.ContractAmount = *req.ContractAmount
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.StartDate != nil {
		d, err := parseDateField(*req.StartDate, "startDate")
		if err != nil {
			return nil, err
		}
		if d != nil {
			project.StartDate = *d
		}
	}
	if req.EndDate != nil {
		d, err := parseDateField(*req.EndDate, "endDate")
		if err != nil {
			return nil, err
		}
		if d != nil {
			project.EndDate = *d
		}
	}
	if err := checkProjectDates(project.StartDate, project.EndDate); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete 删除项目，级联删除下属任务、日志、采购单和收支记录
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.projects.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.projects.DeleteCascade(ctx, id); err != nil {
		return err
	}
	s.logger.Info("项目已删除", zap.String("project_id", id))
	return nil
}

// Get 查询单个项目
func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	return s.projects.FindByID(ctx, id)
}

// List 查询项目列表
func (s *ProjectService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Project, int64, error) {
	return s.projects.FindAll(ctx, page, pageSize, filters)
}

// Stats 项目状态统计。进行中包含勘察到施工四个阶段，已完成包含交付和结算。
func (s *ProjectService) Stats(ctx context.Context) (*ProjectStats, error) {
	counts, err := s.projects.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ProjectStats{}
	for status, count := range counts {
		stats.Total += count
		switch status {
		case entity.ProjectStatusPending:
			stats.Pending += count
		case entity.ProjectStatusSurvey, entity.ProjectStatusProposal,
			entity.ProjectStatusPurchasing, entity.ProjectStatusImplementing:
			stats.InProgress += count
		case entity.ProjectStatusDelivered, entity.ProjectStatusSettled:
			stats.Completed += count
		case entity.ProjectStatusCancelled:
			stats.Cancelled += count
		}
	}
	return stats, nil
}

// parseDate 解析日期，接受 2006-01-02 或 RFC3339
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// parseDateField 解析可选日期字段。空串返回nil，格式非法返回字段级校验错误。
func parseDateField(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := parseDate(value)
	if err != nil {
		return nil, &ValidationError{
			Message: "参数校验失败",
			Details: map[string]string{field: "日期格式不正确"},
		}
	}
	return &d, nil
}

// checkProjectDates 开始与结束日期同时存在时，结束必须晚于开始
func checkProjectDates(start, end time.Time) error {
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		return &ValidationError{
			Message: "参数校验失败",
			Details: map[string]string{"endDate": "结束日期必须晚于开始日期"},
		}
	}
	return nil
}
