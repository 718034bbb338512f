package entity

import "time"

// Task 项目任务
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	ProjectID   string     `json:"projectId" gorm:"size:32;not null;index"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Description string     `json:"description" gorm:"type:text"`
	TaskType    string     `json:"taskType" gorm:"size:50"`
	AssigneeID  *string    `json:"assigneeId" gorm:"size:32;index"`
	Priority    string     `json:"priority" gorm:"size:20;default:medium"`
	Status      string     `json:"status" gorm:"size:20;default:pending"`
	Progress    int        `json:"progress" gorm:"default:0"` // 0-100
	StartDate   *time.Time `json:"startDate"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// 关联
	Project  *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Assignee *User    `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID"`
}

func (Task) TableName() string {
	return "tasks"
}

// 任务状态
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// 任务优先级
const (
	TaskPriorityHigh   = "high"
	TaskPriorityMedium = "medium"
	TaskPriorityLow    = "low"
)
