package entity

import "time"

// PurchaseOrder 采购单
type PurchaseOrder struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	OrderNo      string     `json:"orderNo" gorm:"size:32;uniqueIndex;not null"` // PO + YYYYMMDD + 3位当日序号
	ProjectID    string     `json:"projectId" gorm:"size:32;not null;index"`
	SupplierID   string     `json:"supplierId" gorm:"size:32;not null;index"`
	OrderDate    time.Time  `json:"orderDate"`
	ExpectedDate *time.Time `json:"expectedDate"`
	TotalAmount  float64    `json:"totalAmount" gorm:"type:decimal(15,2)"`
	Status       string     `json:"status" gorm:"size:20;default:pending"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedBy    string     `json:"createdBy" gorm:"size:32"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// 关联
	Items    []PurchaseItem `json:"items,omitempty" gorm:"foreignKey:PurchaseOrderID"`
	Project  *Project       `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Supplier *Supplier      `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// 采购单状态
const (
	OrderStatusPending   = "pending"
	OrderStatusApproved  = "approved"
	OrderStatusOrdered   = "ordered"
	OrderStatusReceived  = "received"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// PurchaseItem 采购明细
type PurchaseItem struct {
	ID              string    `json:"id" gorm:"primaryKey;size:32"`
	PurchaseOrderID string    `json:"purchaseOrderId" gorm:"size:32;not null;index"`
	ItemCode        string    `json:"itemCode" gorm:"size:50;not null"`
	ItemName        string    `json:"itemName" gorm:"size:200;not null"`
	Specification   string    `json:"specification" gorm:"size:500"`
	Unit            string    `json:"unit" gorm:"size:20;not null"`
	Quantity        float64   `json:"quantity" gorm:"type:decimal(10,2);not null"`
	UnitPrice       float64   `json:"unitPrice" gorm:"type:decimal(12,4);not null"`
	Subtotal        float64   `json:"subtotal" gorm:"type:decimal(15,2);not null"` // 服务端计算，不信任入参
	Notes           string    `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (PurchaseItem) TableName() string {
	return "purchase_items"
}
