package models

import (
	"time"
)

// Order 订单表，取消为状态变更而非删除
type Order struct {
	ID                 uint            `gorm:"primarykey" json:"id"`                                                      // 主键
	OrderNumber        string          `gorm:"uniqueIndex;not null" json:"order_number"`                                  // 订单编号
	UserID             uint            `gorm:"not null;uniqueIndex:idx_orders_user_idem,priority:1;index" json:"user_id"` // 用户ID
	IdempotencyKey     *string         `gorm:"type:varchar(80);uniqueIndex:idx_orders_user_idem,priority:2" json:"-"`     // 下单幂等键
	Status             string          `gorm:"type:varchar(32);index;not null" json:"status"`                             // 订单状态
	PaymentStatus      string          `gorm:"type:varchar(32);index;not null" json:"payment_status"`                     // 支付状态
	PaymentMethod      string          `gorm:"type:varchar(32);not null" json:"payment_method"`                           // 支付方式
	Currency           string          `gorm:"type:varchar(8);not null" json:"currency"`                                  // 币种
	SubtotalAmount     Money           `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal_amount"`              // 商品小计
	ShippingAmount     Money           `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_amount"`              // 运费
	TotalAmount        Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`                 // 实付金额
	ShippingAddress    AddressSnapshot `gorm:"type:json" json:"shipping_address"`                                         // 收货地址快照
	BillingAddress     AddressSnapshot `gorm:"type:json" json:"billing_address"`                                          // 账单地址快照
	ExternalPaymentRef string          `gorm:"type:varchar(128);index" json:"external_payment_ref,omitempty"`             // 外部支付流水
	PaymentError       string          `gorm:"type:varchar(500)" json:"payment_error,omitempty"`                          // 最近一次支付失败描述
	StockDeducted      bool            `gorm:"not null;default:false" json:"-"`                                           // 是否已扣减库存
	PaidAt             *time.Time      `gorm:"index" json:"paid_at"`                                                      // 支付时间
	CanceledAt         *time.Time      `gorm:"index" json:"canceled_at"`                                                  // 取消时间
	CreatedAt          time.Time       `gorm:"index" json:"created_at"`                                                   // 创建时间
	UpdatedAt          time.Time       `json:"updated_at"`                                                                // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
