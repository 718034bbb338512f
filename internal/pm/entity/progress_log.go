package entity

import "time"

// ProgressLog 施工进度日志
type ProgressLog struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectID    string    `json:"projectId" gorm:"size:32;not null;index"`
	TaskID       *string   `json:"taskId" gorm:"size:32;index"`
	Stage        string    `json:"stage" gorm:"size:50;not null"`
	ProgressDesc string    `json:"progressDesc" gorm:"type:text;not null"`
	Issues       string    `json:"issues" gorm:"type:text"`
	Photos       string    `json:"photos" gorm:"type:text"` // JSON数组字符串，存照片URL
	ReporterID   string    `json:"reporterId" gorm:"size:32;not null"`
	ReportDate   time.Time `json:"reportDate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// 关联
	Project  *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Task     *Task    `json:"task,omitempty" gorm:"foreignKey:TaskID"`
	Reporter *User    `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
}

func (ProgressLog) TableName() string {
	return "progress_logs"
}
