package models

import (
	"time"
)

// CartItem 购物车行，归属登录用户或匿名会话之一
type CartItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                          // 主键
	UserID       *uint     `gorm:"index" json:"user_id,omitempty"`                                // 用户ID
	SessionID    string    `gorm:"type:varchar(64);index;default:''" json:"session_id,omitempty"` // 匿名会话
	ProductID    uint      `gorm:"not null;index" json:"product_id"`                              // 商品ID
	VariantID    *uint     `gorm:"index" json:"variant_id,omitempty"`                             // 规格ID
	SelectedSize string    `gorm:"type:varchar(32);not null;default:''" json:"selected_size"`     // 尺码
	Quantity     int       `gorm:"not null" json:"quantity"`                                      // 数量
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                    // 更新时间

	Product *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"` // 关联规格
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
