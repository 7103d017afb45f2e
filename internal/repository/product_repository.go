package repository

import (
	"errors"
	"strings"

	"github.com/SyncShire/E-Commerce/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	GetBySlug(slug string, onlyActive bool) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	CountBySlug(slug string, excludeID uint) (int64, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	GetVariant(id uint) (*models.ProductVariant, error)
	ListVariantsByIDs(ids []uint) ([]models.ProductVariant, error)
	CreateVariant(variant *models.ProductVariant) error
	UpdateVariant(variant *models.ProductVariant) error
	DeductStock(productID uint, variantID *uint, quantity int) error
	RestoreStock(productID uint, variantID *uint, quantity int) error
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// List 商品列表，分类与品牌按 slug 子查询过滤
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := applyKeyword(r.db.Model(&models.Product{}), filter.Search, "name", "slug")
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.InStockOnly {
		query = query.Where("stock_quantity > ?", 0)
	}
	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		query = query.Where("category_id IN (?)", r.db.Model(&models.Category{}).Select("id").Where("slug = ?", slug))
	}
	if len(filter.BrandSlugs) > 0 {
		query = query.Where("brand_id IN (?)", r.db.Model(&models.Brand{}).Select("id").Where("slug IN ?", filter.BrandSlugs))
	}
	if len(filter.Genders) > 0 {
		query = query.Where("gender IN ?", filter.Genders)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	query = applyPagination(query, filter.Page, filter.PageSize)
	query = query.Preload("Variants", "is_active = ?", true).Preload("Category").Preload("Brand")
	if err := query.Order(productOrder(filter.Sort)).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func productOrder(sort string) string {
	switch sort {
	case ProductSortPriceAsc:
		return "price asc, id desc"
	case ProductSortPriceDesc:
		return "price desc, id desc"
	case ProductSortName:
		return "name asc, id asc"
	default:
		return "id desc"
	}
}

func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Variants").Preload("Category").Preload("Brand").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetBySlug 前台详情只返回上架商品与启用规格
func (r *GormProductRepository) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	var product models.Product
	query := r.db.Where("slug = ?", strings.TrimSpace(slug)).Preload("Category").Preload("Brand")
	if onlyActive {
		query = query.Where("is_active = ?", true).Preload("Variants", "is_active = ?", true)
	} else {
		query = query.Preload("Variants")
	}
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品（含已下架）
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CountBySlug slug 唯一性检查
func (r *GormProductRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 只保存商品本身，规格与分类品牌关联单独维护
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Omit(clause.Associations).Save(product).Error
}

func (r *GormProductRepository) GetVariant(id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

func (r *GormProductRepository) ListVariantsByIDs(ids []uint) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if len(ids) == 0 {
		return variants, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *GormProductRepository) CreateVariant(variant *models.ProductVariant) error {
	return r.db.Create(variant).Error
}

func (r *GormProductRepository) UpdateVariant(variant *models.ProductVariant) error {
	return r.db.Save(variant).Error
}

// DeductStock 扣减库存，最低扣至 0；有规格时扣规格库存
func (r *GormProductRepository) DeductStock(productID uint, variantID *uint, quantity int) error {
	if productID == 0 || quantity <= 0 {
		return errors.New("invalid stock deduct params")
	}
	expr := gorm.Expr("CASE WHEN stock_quantity >= ? THEN stock_quantity - ? ELSE 0 END", quantity, quantity)
	if variantID != nil {
		return r.db.Model(&models.ProductVariant{}).
			Where("id = ? AND product_id = ?", *variantID, productID).
			Update("stock_quantity", expr).Error
	}
	return r.db.Model(&models.Product{}).Where("id = ?", productID).Update("stock_quantity", expr).Error
}

// RestoreStock 取消订单时回补库存
func (r *GormProductRepository) RestoreStock(productID uint, variantID *uint, quantity int) error {
	if productID == 0 || quantity <= 0 {
		return errors.New("invalid stock restore params")
	}
	expr := gorm.Expr("stock_quantity + ?", quantity)
	if variantID != nil {
		return r.db.Model(&models.ProductVariant{}).
			Where("id = ? AND product_id = ?", *variantID, productID).
			Update("stock_quantity", expr).Error
	}
	return r.db.Model(&models.Product{}).Where("id = ?", productID).Update("stock_quantity", expr).Error
}
