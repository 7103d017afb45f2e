package repository

import (
	"errors"

	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/models"

	"gorm.io/gorm"
)

// ReviewSummary 商品评分汇总
type ReviewSummary struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

// ReviewRepository 评价数据访问接口
type ReviewRepository interface {
	ListByProduct(productID uint, page, pageSize int) ([]models.Review, int64, error)
	Summary(productID uint) (ReviewSummary, error)
	GetByUserProduct(userID, productID uint) (*models.Review, error)
	Create(review *models.Review) error
	Update(review *models.Review) error
	HasPurchased(userID, productID uint) (bool, error)
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// ListByProduct 最新评价在前
func (r *GormReviewRepository) ListByProduct(productID uint, page, pageSize int) ([]models.Review, int64, error) {
	query := r.db.Model(&models.Review{}).Where("product_id = ?", productID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reviews []models.Review
	if err := applyPagination(query, page, pageSize).Order("created_at DESC, id DESC").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *GormReviewRepository) Summary(productID uint) (ReviewSummary, error) {
	var summary ReviewSummary
	err := r.db.Model(&models.Review{}).
		Select("COUNT(*) as count, COALESCE(AVG(rating), 0) as average").
		Where("product_id = ?", productID).
		Scan(&summary).Error
	return summary, err
}

func (r *GormReviewRepository) GetByUserProduct(userID, productID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *GormReviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

// HasPurchased 用户是否有已送达的订单包含该商品
func (r *GormReviewRepository) HasPurchased(userID, productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ?", userID, productID).
		Where("orders.status IN ?", []string{constants.OrderStatusDelivered, constants.OrderStatusCompleted, constants.OrderStatusReturnRequested}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
