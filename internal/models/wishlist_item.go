package models

import (
	"time"
)

// WishlistItem 心愿单条目，同一用户同一商品只保留一条
type WishlistItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                        // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product,priority:1" json:"-"`          // 用户ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product,priority:2" json:"product_id"` // 商品ID
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                                     // 加入时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品
}

// TableName 指定表名
func (WishlistItem) TableName() string {
	return "wishlist_items"
}
