package repository

import (
	"errors"

	"github.com/SyncShire/E-Commerce/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByOwner(owner CartOwner) ([]models.CartItem, error)
	FindLine(owner CartOwner, productID uint, variantID *uint, size string) (*models.CartItem, error)
	GetByIDAndOwner(id uint, owner CartOwner) (*models.CartItem, error)
	Create(item *models.CartItem) error
	UpdateQuantity(id uint, quantity int) error
	Delete(id uint, owner CartOwner) (int64, error)
	ClearByOwner(owner CartOwner) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByOwner 获取归属方的购物车行（含商品与规格）
func (r *GormCartRepository) ListByOwner(owner CartOwner) ([]models.CartItem, error) {
	var items []models.CartItem
	if owner.IsZero() {
		return items, nil
	}
	query := owner.scope(r.db.Preload("Product").Preload("Variant"))
	if err := query.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindLine 按 (商品, 规格, 尺码) 查找已有行
func (r *GormCartRepository) FindLine(owner CartOwner, productID uint, variantID *uint, size string) (*models.CartItem, error) {
	query := owner.scope(r.db.Model(&models.CartItem{})).
		Where("product_id = ? AND selected_size = ?", productID, size)
	if variantID == nil {
		query = query.Where("variant_id IS NULL")
	} else {
		query = query.Where("variant_id = ?", *variantID)
	}
	var item models.CartItem
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByIDAndOwner 获取归属方的单行
func (r *GormCartRepository) GetByIDAndOwner(id uint, owner CartOwner) (*models.CartItem, error) {
	var item models.CartItem
	if err := owner.scope(r.db.Model(&models.CartItem{})).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 新增购物车行
func (r *GormCartRepository) Create(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateQuantity 更新数量
func (r *GormCartRepository) UpdateQuantity(id uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity).Error
}

// Delete 删除归属方的单行，返回影响行数
func (r *GormCartRepository) Delete(id uint, owner CartOwner) (int64, error) {
	if owner.IsZero() {
		return 0, nil
	}
	result := owner.scope(r.db.Where("id = ?", id)).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// ClearByOwner 清空购物车
func (r *GormCartRepository) ClearByOwner(owner CartOwner) error {
	if owner.IsZero() {
		return nil
	}
	return owner.scope(r.db).Delete(&models.CartItem{}).Error
}
