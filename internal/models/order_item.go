package models

import (
	"time"
)

// OrderItem 订单项，创建后不可变，单价为下单瞬间快照
type OrderItem struct {
	ID                  uint      `gorm:"primarykey" json:"id"`                                                // 主键
	OrderID             uint      `gorm:"not null;index" json:"order_id"`                                      // 订单ID
	ProductID           uint      `gorm:"not null;index" json:"product_id"`                                    // 商品ID
	VariantID           *uint     `gorm:"index" json:"variant_id,omitempty"`                                   // 规格ID
	SelectedSize        string    `gorm:"type:varchar(32);not null;default:''" json:"selected_size"`           // 尺码
	ProductName         string    `gorm:"type:varchar(200);not null;default:''" json:"product_name"`           // 商品名称快照
	Quantity            int       `gorm:"not null" json:"quantity"`                                            // 数量
	UnitPriceAtPurchase Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price_at_purchase"` // 下单单价
	TotalPrice          Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`            // 小计
	CreatedAt           time.Time `json:"created_at"`                                                          // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
