package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（管理员通过 RoleType 区分）
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                          // 主键
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`                             // 邮箱
	PasswordHash       string         `gorm:"not null" json:"-"`                                             // 密码哈希
	FullName           string         `gorm:"type:varchar(120);default:''" json:"full_name"`                 // 姓名
	Phone              string         `gorm:"type:varchar(40);default:''" json:"phone"`                      // 电话
	Locale             string         `gorm:"type:varchar(20);default:'en'" json:"locale"`                   // 语言偏好
	RoleType           string         `gorm:"type:varchar(20);not null;default:'customer'" json:"role_type"` // 角色（customer/support/admin）
	Status             string         `gorm:"type:varchar(20);default:'active'" json:"status"`               // 账号状态
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                                   // Token 版本
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                                                // 该时间前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                                                 // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
