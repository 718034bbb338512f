package entity

import "time"

// Logistics 物流信息
type Logistics struct {
	ID               string     `json:"id" gorm:"primaryKey;size:32"`
	PurchaseOrderID  string     `json:"purchaseOrderId" gorm:"size:32;not null;index"`
	LogisticsNo      string     `json:"logisticsNo" gorm:"size:50;uniqueIndex;not null"`
	LogisticsCompany string     `json:"logisticsCompany" gorm:"size:100;not null"`
	ShipDate         *time.Time `json:"shipDate"`
	ExpectedArrival  *time.Time `json:"expectedArrival"`
	ActualArrival    *time.Time `json:"actualArrival"` // 仅在确认收货时写入
	Status           string     `json:"status" gorm:"size:20;default:in_transit"`
	Receiver         string     `json:"receiver" gorm:"size:50"`
	Notes            string     `json:"notes" gorm:"type:text"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	// 关联
	PurchaseOrder *PurchaseOrder `json:"purchaseOrder,omitempty" gorm:"foreignKey:PurchaseOrderID"`
}

func (Logistics) TableName() string {
	return "logistics"
}

// 物流状态
const (
	LogisticsStatusInTransit = "in_transit"
	LogisticsStatusDelivered = "delivered"
	LogisticsStatusException = "exception"
)
