package models

import (
	"time"
)

// ReturnRequest 退货申请，退款金额默认为订单总额
type ReturnRequest struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                       // 主键
	OrderID      uint      `gorm:"not null;index" json:"order_id"`                             // 订单ID
	UserID       uint      `gorm:"not null;index" json:"user_id"`                              // 用户ID
	Reason       string    `gorm:"type:text;not null" json:"reason"`                           // 退货原因
	Status       string    `gorm:"type:varchar(32);index;not null" json:"status"`              // 状态
	RefundAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"refund_amount"` // 退款金额
	AdminNote    string    `gorm:"type:varchar(500)" json:"admin_note,omitempty"`              // 处理备注
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                 // 更新时间

	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"` // 关联订单
}

// TableName 指定表名
func (ReturnRequest) TableName() string {
	return "returns"
}
