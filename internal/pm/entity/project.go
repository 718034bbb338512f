package entity

import "time"

// Project 工程项目
type Project struct {
	ID             string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectCode    string    `json:"projectCode" gorm:"size:50;uniqueIndex;not null"`
	TelecomCode    string    `json:"telecomCode" gorm:"size:50"`
	ProjectName    string    `json:"projectName" gorm:"size:200;not null"`
	CustomerName   string    `json:"customerName" gorm:"size:100;not null"`
	ProjectType    string    `json:"projectType" gorm:"size:50"`
	ProjectAddress string    `json:"projectAddress" gorm:"size:500"`
	ContractAmount float64   `json:"contractAmount" gorm:"type:decimal(15,2)"`
	ManagerID      string    `json:"managerId" gorm:"size:32;not null;index"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	Status         string    `json:"status" gorm:"size:20;default:pending"`
	Description    string    `json:"description" gorm:"type:text"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// 关联
	Manager *User `json:"manager,omitempty" gorm:"foreignKey:ManagerID"`
}

func (Project) TableName() string {
	return "projects"
}

// 项目状态
const (
	ProjectStatusPending      = "pending"      // 待启动
	ProjectStatusSurvey       = "survey"       // 勘察
	ProjectStatusProposal     = "proposal"     // 方案
	ProjectStatusPurchasing   = "purchasing"   // 采购
	ProjectStatusImplementing = "implementing" // 施工
	ProjectStatusAcceptance   = "acceptance"   // 验收
	ProjectStatusDelivered    = "delivered"    // 交付
	ProjectStatusSettled      = "settled"      // 结算
	ProjectStatusCancelled    = "cancelled"    // 取消
)

// ValidProjectTransitions 合法的项目状态流转
var ValidProjectTransitions = map[string][]string{
	ProjectStatusPending:      {ProjectStatusSurvey, ProjectStatusCancelled},
	ProjectStatusSurvey:       {ProjectStatusProposal, ProjectStatusCancelled},
	ProjectStatusProposal:     {ProjectStatusPurchasing, ProjectStatusCancelled},
	ProjectStatusPurchasing:   {ProjectStatusImplementing, ProjectStatusCancelled},
	ProjectStatusImplementing: {ProjectStatusAcceptance},
	ProjectStatusAcceptance:   {ProjectStatusDelivered},
	ProjectStatusDelivered:    {ProjectStatusSettled},
	ProjectStatusSettled:      {},
	ProjectStatusCancelled:    {},
}

// CanTransition 判断项目状态能否从 from 流转到 to
func CanTransition(from, to string) bool {
	for _, s := range ValidProjectTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
