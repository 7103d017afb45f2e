package models

import (
	"time"
)

// Review 商品评价，每个用户对同一商品一条
type Review struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                                       // 主键
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_reviews_product_user,priority:1" json:"product_id"` // 商品ID
	UserID     uint      `gorm:"not null;uniqueIndex:idx_reviews_product_user,priority:2;index" json:"-"`    // 用户ID
	AuthorName string    `gorm:"type:varchar(120);not null;default:''" json:"author_name"`                   // 评价人名称快照
	Rating     int       `gorm:"not null" json:"rating"`                                                     // 评分 1-5
	Title      string    `gorm:"type:varchar(200);not null;default:''" json:"title"`                         // 标题
	Comment    string    `gorm:"type:text" json:"comment"`                                                   // 内容
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                                    // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                                                                 // 更新时间
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
