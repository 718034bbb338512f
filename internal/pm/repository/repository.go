package repository

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	User        *UserRepository
	Project     *ProjectRepository
	Task        *TaskRepository
	ProgressLog *ProgressLogRepository
	Supplier    *SupplierRepository
	Purchase    *PurchaseRepository
	Logistics   *LogisticsRepository
	Financial   *FinancialRepository
}

// NewRepositories 创建仓库集合，rdb 可为 nil（采购单号退化为数据库扫描）
func NewRepositories(db *gorm.DB, rdb *redis.Client) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Project:     NewProjectRepository(db),
		Task:        NewTaskRepository(db),
		ProgressLog: NewProgressLogRepository(db),
		Supplier:    NewSupplierRepository(db),
		Purchase:    NewPurchaseRepository(db, rdb),
		Logistics:   NewLogisticsRepository(db),
		Financial:   NewFinancialRepository(db),
	}
}
