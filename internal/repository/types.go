package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartOwner 购物车归属，UserID 与 SessionID 二选一
type CartOwner struct {
	UserID    uint
	SessionID string
}

// IsZero 判断是否未指定归属
func (o CartOwner) IsZero() bool {
	return o.UserID == 0 && o.SessionID == ""
}

func (o CartOwner) scope(db *gorm.DB) *gorm.DB {
	if o.UserID != 0 {
		return db.Where("user_id = ?", o.UserID)
	}
	return db.Where("user_id IS NULL AND session_id = ?", o.SessionID)
}

// ProductListFilter 商品列表过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	Search       string
	OnlyActive   bool
	InStockOnly  bool
	CategorySlug string
	BrandSlugs   []string
	Genders      []string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Sort         string
}

// 商品列表排序
const (
	ProductSortNewest    = "newest"
	ProductSortPriceAsc  = "price_asc"
	ProductSortPriceDesc = "price_desc"
	ProductSortName      = "name"
)

// OrderListFilter 订单列表过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	UserID        uint
	Status        string
	PaymentStatus string
	OrderNumber   string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// ReturnListFilter 退货列表过滤条件
type ReturnListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
}

// UserListFilter 用户列表过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	RoleType string
}
