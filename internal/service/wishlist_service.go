package service

import (
	"context"

	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/repository"
)

// WishlistService 心愿单
type WishlistService struct {
	repo        repository.WishlistRepository
	productRepo repository.ProductRepository
}

// NewWishlistService 创建心愿单服务
func NewWishlistService(repo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{repo: repo, productRepo: productRepo}
}

// List 用户心愿单
func (s *WishlistService) List(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	items, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, wrapStore(err)
	}
	// 已删除商品的条目不再展示
	visible := items[:0]
	for _, item := range items {
		if item.Product != nil {
			visible = append(visible, item)
		}
	}
	return visible, nil
}

// Add 加入心愿单，只接受上架商品，重复加入幂等
func (s *WishlistService) Add(ctx context.Context, userID, productID uint) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return wrapStore(err)
	}
	if product == nil || !product.IsActive {
		return ErrProductNotFound
	}
	if err := s.repo.Add(&models.WishlistItem{UserID: userID, ProductID: productID}); err != nil {
		return wrapStore(err)
	}
	logger.Ctx(ctx).Debugw("wishlist_item_added", "user_id", userID, "product_id", productID)
	return nil
}

// Remove 移出心愿单
func (s *WishlistService) Remove(ctx context.Context, userID, productID uint) error {
	affected, err := s.repo.Remove(userID, productID)
	if err != nil {
		return wrapStore(err)
	}
	if affected == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}

// Contains 商品是否在用户心愿单中
func (s *WishlistService) Contains(ctx context.Context, userID, productID uint) (bool, error) {
	ok, err := s.repo.Contains(userID, productID)
	if err != nil {
		return false, wrapStore(err)
	}
	return ok, nil
}
