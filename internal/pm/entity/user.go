package entity

import "time"

// User 系统用户
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Username     string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:100;not null"`
	RealName     string    `json:"realName" gorm:"size:50;not null"`
	Role         string    `json:"role" gorm:"size:20;default:user"`
	Department   string    `json:"department" gorm:"size:100"`
	Phone        string    `json:"phone" gorm:"size:20"`
	Email        string    `json:"email" gorm:"size:100"`
	Status       string    `json:"status" gorm:"size:20;default:active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// 用户角色
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// 用户状态
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)
