package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/repository"
	"go.uber.org/zap"
)

// SupplierService 供应商服务
type SupplierService struct {
	suppliers *repository.SupplierRepository
	logger    *zap.Logger
}

func NewSupplierService(suppliers *repository.SupplierRepository, logger *zap.Logger) *SupplierService {
	return &SupplierService{suppliers: suppliers, logger: logger}
}

// CreateSupplierRequest 创建供应商请求
type CreateSupplierRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	ContactPerson string `json:"contactPerson" binding:"max=50"`
	ContactPhone  string `json:"contactPhone" binding:"max=20"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address" binding:"max=500"`
	BankAccount   string `json:"bankAccount" binding:"max=50"`
}

// UpdateSupplierRequest 更新供应商请求，nil字段表示不修改
type UpdateSupplierRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contactPerson"`
	ContactPhone  *string `json:"contactPhone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	BankAccount   *string `json:"bankAccount"`
}

// Create 创建供应商，名称唯一
func (s *SupplierService) Create(ctx context.Context, req *CreateSupplierRequest) (*entity.Supplier, error) {
	if _, err := s.suppliers.FindByName(ctx, req.Name); err == nil {
		return nil, &ConflictError{Message: "供应商名称已存在"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	supplier := &entity.Supplier{
		ID:            uuid.New().String()[:32],
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		ContactPhone:  req.ContactPhone,
		Email:         req.Email,
		Address:       req.Address,
		BankAccount:   req.BankAccount,
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("供应商创建成功", zap.String("supplier_id", supplier.ID), zap.String("name", supplier.Name))
	return supplier, nil
}

// Update 更新供应商，名称变更时重查唯一性
func (s *SupplierService) Update(ctx context.Context, id string, req *UpdateSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != supplier.Name {
		if _, err := s.suppliers.FindByName(ctx, *req.Name); err == nil {
			return nil, &ConflictError{Message: "供应商名称已存在"}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		supplier.Name = *req.Name
	}
	if req.ContactPerson != nil {
		supplier.ContactPerson = *req.ContactPerson
	}
	if req.ContactPhone != nil {
		supplier.ContactPhone = *req.ContactPhone
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.BankAccount != nil {
		supplier.BankAccount = *req.BankAccount
	}

	if err := s.suppliers.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Delete 删除供应商，名下仍有采购单时拒绝
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	if _, err := s.suppliers.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.suppliers.CountOrders(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &BusinessError{Message: "该供应商名下存在采购单，无法删除"}
	}
	return s.suppliers.Delete(ctx, id)
}

// SupplierStats 供应商统计
type SupplierStats struct {
	TotalSuppliers int64                    `json:"totalSuppliers"`
	ByOrders       []repository.SupplierAgg `json:"byOrders"`
}

// Stats 供应商统计：总数与按采购金额排序的订单汇总
func (s *SupplierService) Stats(ctx context.Context) (*SupplierStats, error) {
	total, err := s.suppliers.Count(ctx)
	if err != nil {
		return nil, err
	}
	byOrders, err := s.suppliers.AggregateOrders(ctx)
	if err != nil {
		return nil, err
	}
	return &SupplierStats{TotalSuppliers: total, ByOrders: byOrders}, nil
}

// Get 查询单个供应商
func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.suppliers.FindByID(ctx, id)
}

// List 查询供应商列表
func (s *SupplierService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	return s.suppliers.FindAll(ctx, page, pageSize, filters)
}
