package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/repository"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// FinancialService 收支服务
type FinancialService struct {
	records  *repository.FinancialRepository
	projects *repository.ProjectRepository
	logger   *zap.Logger
}

func NewFinancialService(records *repository.FinancialRepository, projects *repository.ProjectRepository, logger *zap.Logger) *FinancialService {
	return &FinancialService{records: records, projects: projects, logger: logger}
}

// CreateRecordRequest 创建收支记录请求
type CreateRecordRequest struct {
	ProjectID       string  `json:"projectId" binding:"required"`
	RecordType      string  `json:"recordType" binding:"required,oneof=income expense"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	Description     string  `json:"description" binding:"required,max=500"`
	TransactionDate string  `json:"transactionDate"`
	Status          string  `json:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	CostCategory    string  `json:"costCategory" binding:"max=50"`
	InvoiceNo       string  `json:"invoiceNo" binding:"max=50"`
	PaymentMethod   string  `json:"paymentMethod" binding:"max=50"`
	Remark          string  `json:"remark"`
}

// UpdateRecordRequest 更新收支记录请求，nil字段表示不修改
type UpdateRecordRequest struct {
	RecordType      *string  `json:"recordType" binding:"omitempty,oneof=income expense"`
	Amount          *float64 `json:"amount" binding:"omitempty,gt=0"`
	Description     *string  `json:"description"`
	TransactionDate *string  `json:"transactionDate"`
	Status          *string  `json:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	CostCategory    *string  `json:"costCategory"`
	InvoiceNo       *string  `json:"invoiceNo"`
	PaymentMethod   *string  `json:"paymentMethod"`
	Remark          *string  `json:"remark"`
}

// ProjectFinancialStats 单项目财务统计，只统计已确认记录
type ProjectFinancialStats struct {
	ProjectID         string             `json:"projectId"`
	ProjectCode       string             `json:"projectCode,omitempty"`
	ProjectName       string             `json:"projectName,omitempty"`
	TotalIncome       float64            `json:"totalIncome"`
	TotalExpense      float64            `json:"totalExpense"`
	Profit            float64            `json:"profit"`
	ProfitMargin      float64            `json:"profitMargin"`
	ExpenseByCategory map[string]float64 `json:"expenseByCategory"`
	RecordCount       int                `json:"recordCount"`
}

// Create 创建收支记录，支出必须带成本分类
func (s *FinancialService) Create(ctx context.Context, creatorID string, req *CreateRecordRequest) (*entity.FinancialRecord, error) {
	if _, err := s.projects.FindByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("项目不存在: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	if req.RecordType == entity.RecordTypeExpense && strings.TrimSpace(req.CostCategory) == "" {
		return nil, &BusinessError{Message: "支出记录必须填写成本分类"}
	}

	status := req.Status
	if status == "" {
		status = entity.RecordStatusPending
	}

	record := &entity.FinancialRecord{
		ID:            uuid.New().String()[:32],
		ProjectID:     req.ProjectID,
		RecordType:    req.RecordType,
		Amount:        req.Amount,
		Description:   req.Description,
		Status:        status,
		CostCategory:  req.CostCategory,
		InvoiceNo:     req.InvoiceNo,
		PaymentMethod: req.PaymentMethod,
		Remark:        req.Remark,
		CreatorID:     creatorID,
	}
	if d, err := parseDateField(req.TransactionDate, "transactionDate"); err != nil {
		return nil, err
	} else if d != nil {
		record.TransactionDate = *d
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("收支记录创建成功",
		zap.String("record_id", record.ID),
		zap.String("record_type", record.RecordType),
		zap.Float64("amount", record.Amount))
	return record, nil
}

// Update 更新收支记录。已确认记录的金额与类型不可变更。
func (s *FinancialService) Update(ctx context.Context, id string, req *UpdateRecordRequest) (*entity.FinancialRecord, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if record.Status == entity.RecordStatusConfirmed {
		if req.Amount != nil && *req.Amount != record.Amount {
			return nil, &BusinessError{Message: "已确认记录的金额不能修改"}
		}
		if req.RecordType != nil && *req.RecordType != record.RecordType {
			return nil, &BusinessError{Message: "已确认记录的收支类型不能修改"}
		}
	}

	recordType := record.RecordType
	if req.RecordType != nil {
		recordType = *req.RecordType
	}
	category := record.CostCategory
	if req.CostCategory != nil {
		category = *req.CostCategory
	}
	if recordType == entity.RecordTypeExpense && strings.TrimSpace(category) == "" {
		return nil, &BusinessError{Message: "支出记录必须填写成本分类"}
	}

	record.RecordType = recordType
	record.CostCategory = category
	if req.Amount != nil {
		record.Amount = *req.Amount
	}
	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.Status != nil {
		record.Status = *req.Status
	}
	if req.InvoiceNo != nil {
		record.InvoiceNo = *req.InvoiceNo
	}
	if req.PaymentMethod != nil {
		record.PaymentMethod = *req.PaymentMethod
	}
	if req.Remark != nil {
		record.Remark = *req.Remark
	}
	if req.TransactionDate != nil {
		d, err := parseDateField(*req.TransactionDate, "transactionDate")
		if err != nil {
			return nil, err
		}
		if d != nil {
			record.TransactionDate = *d
		}
	}

	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete 删除收支记录，已确认记录不可删除
func (s *FinancialService) Delete(ctx context.Context, id string) error {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if record.Status == entity.RecordStatusConfirmed {
		return &BusinessError{Message: "已确认的记录不能删除"}
	}
	return s.records.Delete(ctx, id)
}

// Get 查询单条收支记录
func (s *FinancialService) Get(ctx context.Context, id string) (*entity.FinancialRecord, error) {
	return s.records.FindByID(ctx, id)
}

// List 查询收支记录列表
func (s *FinancialService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.FinancialRecord, int64, error) {
	return s.records.FindAll(ctx, page, pageSize, filters)
}

// ProjectStats 单项目财务统计。只计入已确认记录，利润率为利润占收入的百分比，
// 保留两位小数，收入为零时利润率记为零。未分类支出归入other。
func (s *FinancialService) ProjectStats(ctx context.Context, projectID string) (*ProjectFinancialStats, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.computeStats(ctx, projectID)
}

// AllProjectsStats 全部项目财务统计。逐项目并发计算，单个项目统计失败时
// 以全零行占位，不中断整体汇总。
func (s *FinancialService) AllProjectsStats(ctx context.Context) ([]ProjectFinancialStats, error) {
	projects, err := s.projects.FindIDs(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ProjectFinancialStats, len(projects))
	var wg sync.WaitGroup
	for i, p := range projects {
		wg.Add(1)
		go func(i int, p entity.Project) {
			defer wg.Done()
			stats, err := s.computeStats(ctx, p.ID)
			if err != nil {
				s.logger.Warn("项目财务统计失败，以零值占位",
					zap.String("project_id", p.ID),
					zap.Error(err))
				results[i] = ProjectFinancialStats{
					ProjectID:         p.ID,
					ProjectCode:       p.ProjectCode,
					ProjectName:       p.ProjectName,
					ExpenseByCategory: map[string]float64{},
				}
				return
			}
			stats.ProjectCode = p.ProjectCode
			stats.ProjectName = p.ProjectName
			results[i] = *stats
		}(i, p)
	}
	wg.Wait()
	return results, nil
}

func (s *FinancialService) computeStats(ctx context.Context, projectID string) (*ProjectFinancialStats, error) {
	records, err := s.records.FindConfirmedByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	stats := &ProjectFinancialStats{
		ProjectID:         projectID,
		ExpenseByCategory: map[string]float64{},
	}
	for _, r := range records {
		stats.RecordCount++
		switch r.RecordType {
		case entity.RecordTypeIncome:
			stats.TotalIncome += r.Amount
		case entity.RecordTypeExpense:
			stats.TotalExpense += r.Amount
			category := strings.TrimSpace(r.CostCategory)
			if category == "" {
				category = entity.CostCategoryOther
			}
			stats.ExpenseByCategory[category] += r.Amount
		}
	}
	stats.Profit = stats.TotalIncome - stats.TotalExpense
	if stats.TotalIncome > 0 {
		stats.ProfitMargin = math.Round(stats.Profit/stats.TotalIncome*100*100) / 100
	}
	return stats, nil
}

// Export 导出收支记录为xlsx
func (s *FinancialService) Export(ctx context.Context, filters map[string]string) (*bytes.Buffer, error) {
	records, err := s.records.FindForExport(ctx, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "收支记录"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"项目编号", "项目名称", "类型", "金额", "说明", "交易日期", "状态", "成本分类", "发票号", "付款方式", "创建人"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	typeNames := map[string]string{
		entity.RecordTypeIncome:  "收入",
		entity.RecordTypeExpense: "支出",
	}
	for row, r := range records {
		values := []interface{}{
			"", "", typeNames[r.RecordType], r.Amount, r.Description,
			r.TransactionDate.Format("2006-01-02"), r.Status, r.CostCategory,
			r.InvoiceNo, r.PaymentMethod, "",
		}
		if r.Project != nil {
			values[0] = r.Project.ProjectCode
			values[1] = r.Project.ProjectName
		}
		if r.Creator != nil {
			values[10] = r.Creator.RealName
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf, nil
}
