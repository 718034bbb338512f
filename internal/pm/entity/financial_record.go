package entity

import "time"

// FinancialRecord 收支记录
type FinancialRecord struct {
	ID              string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectID       string    `json:"projectId" gorm:"size:32;not null;index"`
	RecordType      string    `json:"recordType" gorm:"size:20;not null"` // income/expense
	Amount          float64   `json:"amount" gorm:"type:decimal(15,2);not null"`
	Description     string    `json:"description" gorm:"size:500;not null"`
	TransactionDate time.Time `json:"transactionDate"`
	Status          string    `json:"status" gorm:"size:20;default:pending"`
	CostCategory    string    `json:"costCategory" gorm:"size:50"` // 支出记录必填
	InvoiceNo       string    `json:"invoiceNo" gorm:"size:50"`
	PaymentMethod   string    `json:"paymentMethod" gorm:"size:50"`
	Remark          string    `json:"remark" gorm:"type:text"`
	CreatorID       string    `json:"creatorId" gorm:"size:32;not null"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	// 关联
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Creator *User    `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
}

func (FinancialRecord) TableName() string {
	return "financial_records"
}

// 记录类型
const (
	RecordTypeIncome  = "income"
	RecordTypeExpense = "expense"
)

// 记录状态：确认后金额与类型冻结，且不可删除
const (
	RecordStatusPending   = "pending"
	RecordStatusConfirmed = "confirmed"
	RecordStatusCancelled = "cancelled"
)

// 缺省成本分类（统计时未分类支出归入 other）
const CostCategoryOther = "other"
