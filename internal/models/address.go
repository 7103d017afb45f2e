package models

import (
	"time"
)

// Address 用户收货地址
type Address struct {
	ID        uint      `gorm:"primarykey" json:"id"`                           // 主键
	UserID    uint      `gorm:"not null;index" json:"user_id"`                  // 用户ID
	FirstName string    `gorm:"type:varchar(80);not null" json:"first_name"`    // 名
	LastName  string    `gorm:"type:varchar(80);not null" json:"last_name"`     // 姓
	Email     string    `gorm:"type:varchar(200)" json:"email"`                 // 联系邮箱
	Phone     string    `gorm:"type:varchar(40);not null" json:"phone"`         // 电话
	Line1     string    `gorm:"type:varchar(255);not null" json:"line1"`        // 地址行 1
	Line2     string    `gorm:"type:varchar(255)" json:"line2"`                 // 地址行 2
	City      string    `gorm:"type:varchar(120);not null" json:"city"`         // 城市
	State     string    `gorm:"type:varchar(120);not null" json:"state"`        // 省/州
	Zip       string    `gorm:"type:varchar(20);not null" json:"zip"`           // 邮编
	Country   string    `gorm:"type:varchar(80);not null" json:"country"`       // 国家
	IsDefault bool      `gorm:"not null;default:false;index" json:"is_default"` // 是否默认
	CreatedAt time.Time `json:"created_at"`                                     // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                     // 更新时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}

// Snapshot 复制为订单地址快照
func (a Address) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Phone:     a.Phone,
		Line1:     a.Line1,
		Line2:     a.Line2,
		City:      a.City,
		State:     a.State,
		Zip:       a.Zip,
		Country:   a.Country,
	}
}
