package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/repository"

	"github.com/shopspring/decimal"
)

// CartLineDetail 购物车行详情（用于响应）
type CartLineDetail struct {
	ID           uint                   `json:"id"`
	ProductID    uint                   `json:"product_id"`
	VariantID    *uint                  `json:"variant_id,omitempty"`
	SelectedSize string                 `json:"selected_size"`
	Quantity     int                    `json:"quantity"`
	UnitPrice    models.Money           `json:"unit_price"`
	LineTotal    models.Money           `json:"line_total"`
	Product      *models.Product        `json:"product,omitempty"`
	Variant      *models.ProductVariant `json:"variant,omitempty"`
}

// CartSnapshot 变更后的最新购物车
type CartSnapshot struct {
	Items []CartLineDetail `json:"items"`
	Total models.Money     `json:"total"`
	Count int              `json:"count"`
}

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	ProductID uint
	VariantID *uint
	Quantity  int
	Size      string
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// FetchCart 读取购物车，存储异常时降级为空
func (s *CartService) FetchCart(ctx context.Context, id Identity) []CartLineDetail {
	items, err := s.cartRepo.ListByOwner(id.Owner())
	if err != nil {
		logger.Ctx(ctx).Warnw("cart_fetch_failed", "identity_kind", id.Kind, "error", err)
		return []CartLineDetail{}
	}
	details := make([]CartLineDetail, 0, len(items))
	for _, item := range items {
		unit := lineUnitPrice(item.Product, item.Variant)
		details = append(details, CartLineDetail{
			ID:           item.ID,
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			SelectedSize: item.SelectedSize,
			Quantity:     item.Quantity,
			UnitPrice:    models.NewMoneyFromDecimal(unit),
			LineTotal:    models.NewMoneyFromDecimal(unit.Mul(decimal.NewFromInt(int64(item.Quantity)))),
			Product:      item.Product,
			Variant:      item.Variant,
		})
	}
	return details
}

// Snapshot 读取购物车并计算合计
func (s *CartService) Snapshot(ctx context.Context, id Identity) CartSnapshot {
	lines := s.FetchCart(ctx, id)
	return CartSnapshot{
		Items: lines,
		Total: models.NewMoneyFromDecimal(CartTotal(lines)),
		Count: CartCount(lines),
	}
}

// AddToCart 加购；同一 (商品, 规格, 尺码) 合并数量
func (s *CartService) AddToCart(ctx context.Context, id Identity, input AddCartItemInput) (CartSnapshot, error) {
	if input.Quantity < 1 {
		return CartSnapshot{}, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return CartSnapshot{}, fmt.Errorf("%w: %v", ErrCartFailed, err)
	}
	if product == nil || !product.IsActive {
		return CartSnapshot{}, ErrProductNotAvailable
	}

	var variant *models.ProductVariant
	if input.VariantID != nil {
		variant = findVariant(product, *input.VariantID)
		if variant == nil || !variant.IsActive {
			return CartSnapshot{}, ErrVariantInvalid
		}
	}

	size := strings.TrimSpace(input.Size)
	if len(product.Sizes) > 0 {
		if size == "" {
			return CartSnapshot{}, ErrSizeRequired
		}
		if !product.Sizes.Contains(size) {
			return CartSnapshot{}, ErrSizeInvalid
		}
	} else {
		size = ""
	}

	if availableStock(product, variant) <= 0 {
		return CartSnapshot{}, ErrOutOfStock
	}

	owner := id.Owner()
	existing, err := s.cartRepo.FindLine(owner, product.ID, input.VariantID, size)
	if err != nil {
		return CartSnapshot{}, fmt.Errorf("%w: %v", ErrCartFailed, err)
	}
	if existing != nil {
		return s.UpdateQuantity(ctx, id, existing.ID, existing.Quantity+input.Quantity)
	}

	item := &models.CartItem{
		ProductID:    product.ID,
		VariantID:    input.VariantID,
		SelectedSize: size,
		Quantity:     input.Quantity,
	}
	if id.IsUser() {
		userID := id.UserID
		item.UserID = &userID
	} else {
		item.SessionID = id.Token
	}
	if err := s.cartRepo.Create(item); err != nil {
		return CartSnapshot{}, fmt.Errorf("%w: %v", ErrCartFailed, err)
	}
	return s.Snapshot(ctx, id), nil
}

// UpdateQuantity 修改行数量
func (s *CartService) UpdateQuantity(ctx context.Context, id Identity, lineID uint, quantity int) (CartSnapshot, error) {
	if quantity < 1 {
		return CartSnapshot{}, ErrInvalidQuantity
	}
	line, err := s.cartRepo.GetByIDAndOwner(lineID, id.Owner())
	if err != nil {
		return CartSnapshot{}, fmt.Errorf("%w: %v", ErrCartFailed, err)
	}
	if line == nil {
		return CartSnapshot{}, ErrCartLineNotFound
	}
	if err := s.cartRepo.UpdateQuantity(line.ID, quantity); err != nil {
		return CartSnapshot{}, fmt.Errorf("%w: %v", ErrCartFailed, err)
	}
	return s.Snapshot(ctx, id), nil
}

// RemoveFromCart 删除行
func (s *CartService) RemoveFromCart(ctx context.Context, id Identity, lineID uint) (CartSnapshot, error) {
	affected, err := s.cartRepo.Delete(lineID, id.Owner())
	if err != nil {
		return CartSnapshot{}, fmt.Errorf("%w: %v", ErrCartFailed, err)
	}
	if affected == 0 {
		return CartSnapshot{}, ErrCartLineNotFound
	}
	return s.Snapshot(ctx, id), nil
}

// ClearCart 清空购物车
func (s *CartService) ClearCart(ctx context.Context, id Identity) error {
	if err := s.cartRepo.ClearByOwner(id.Owner()); err != nil {
		return fmt.Errorf("%w: %v", ErrCartFailed, err)
	}
	return nil
}

// CartTotal 按 规格价 ?? 商品价 计算，缺失价格按 0
func CartTotal(lines []CartLineDetail) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		unit := lineUnitPrice(line.Product, line.Variant)
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2)
}

// CartCount 数量合计
func CartCount(lines []CartLineDetail) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}

func lineUnitPrice(product *models.Product, variant *models.ProductVariant) decimal.Decimal {
	if variant != nil && variant.Price != nil {
		return variant.Price.Decimal
	}
	if product != nil {
		return product.Price.Decimal
	}
	return decimal.Zero
}

func availableStock(product *models.Product, variant *models.ProductVariant) int {
	if variant != nil {
		return variant.StockQuantity
	}
	if product == nil {
		return 0
	}
	return product.StockQuantity
}

func findVariant(product *models.Product, variantID uint) *models.ProductVariant {
	if product == nil {
		return nil
	}
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			return &product.Variants[i]
		}
	}
	return nil
}
