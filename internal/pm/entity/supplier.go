package entity

import "time"

// Supplier 供应商
type Supplier struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	Name          string    `json:"name" gorm:"size:200;uniqueIndex;not null"`
	ContactPerson string    `json:"contactPerson" gorm:"size:50"`
	ContactPhone  string    `json:"contactPhone" gorm:"size:20"`
	Email         string    `json:"email" gorm:"size:100"`
	Address       string    `json:"address" gorm:"size:500"`
	BankAccount   string    `json:"bankAccount" gorm:"size:50"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
