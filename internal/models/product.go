package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                          // 主键
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`                              // 唯一标识
	Name          string         `gorm:"type:varchar(200);not null" json:"name"`                        // 名称
	Description   string         `gorm:"type:text" json:"description"`                                  // 描述
	CategoryID    *uint          `gorm:"index" json:"category_id"`                                      // 分类ID
	BrandID       *uint          `gorm:"index" json:"brand_id"`                                         // 品牌ID
	Gender        string         `gorm:"type:varchar(16);index;not null;default:''" json:"gender"`      // 适用人群
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`            // 售价
	ComparePrice  *Money         `gorm:"type:decimal(20,2)" json:"compare_price,omitempty"`             // 划线价
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`                      // 库存
	Sizes         StringArray    `gorm:"type:json" json:"sizes"`                                        // 可选尺码
	Images        StringArray    `gorm:"type:json" json:"images"`                                       // 图片
	CODEligible   bool           `gorm:"column:cod_eligible;not null;default:true" json:"cod_eligible"` // 是否支持货到付款
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                           // 是否上架
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	Category *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类
	Brand    *Brand           `gorm:"foreignKey:BrandID" json:"brand,omitempty"`       // 品牌
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`  // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ProductVariant 商品规格，价格为空时沿用商品价格
type ProductVariant struct {
	ID            uint           `gorm:"primarykey" json:"id"`                         // 主键
	ProductID     uint           `gorm:"not null;index" json:"product_id"`             // 商品ID
	Name          string         `gorm:"type:varchar(120);not null" json:"name"`       // 规格名称
	SKU           string         `gorm:"column:sku;type:varchar(64);index" json:"sku"` // SKU 编码
	Price         *Money         `gorm:"type:decimal(20,2)" json:"price,omitempty"`    // 规格价格
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`     // 规格库存
	IsActive      bool           `gorm:"default:true" json:"is_active"`                // 是否启用
	CreatedAt     time.Time      `json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                   // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
