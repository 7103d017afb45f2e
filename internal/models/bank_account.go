package models

import (
	"time"
)

// BankAccount 用户退款收款账户
type BankAccount struct {
	ID                uint      `gorm:"primarykey" json:"id"`                                  // 主键
	UserID            uint      `gorm:"not null;index" json:"user_id"`                         // 用户ID
	BankName          string    `gorm:"type:varchar(120);not null" json:"bank_name"`           // 银行名称
	AccountHolderName string    `gorm:"type:varchar(120);not null" json:"account_holder_name"` // 开户人
	AccountNumber     string    `gorm:"type:varchar(64);not null" json:"-"`                    // 账号（不直接返回）
	IFSCCode          string    `gorm:"column:ifsc_code;type:varchar(20)" json:"ifsc_code"`    // 银行识别码
	CreatedAt         time.Time `json:"created_at"`                                            // 创建时间
}

// TableName 指定表名
func (BankAccount) TableName() string {
	return "bank_accounts"
}

// MaskedAccountNumber 仅保留后四位
func (b BankAccount) MaskedAccountNumber() string {
	runes := []rune(b.AccountNumber)
	if len(runes) <= 4 {
		return string(runes)
	}
	return "••••••••" + string(runes[len(runes)-4:])
}
