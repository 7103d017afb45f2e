package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/SyncShire/E-Commerce/internal/config"
	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const quoteLoadConcurrency = 8

// QuoteInput 结算试算输入：已保存地址或新地址二选一
type QuoteInput struct {
	AddressID       *uint
	ShippingAddress *AddressInput
	SaveAddress     bool
}

// QuoteLine 试算行，单价即下单价
type QuoteLine struct {
	CartItemID   uint         `json:"cart_item_id"`
	ProductID    uint         `json:"product_id"`
	VariantID    *uint        `json:"variant_id,omitempty"`
	ProductName  string       `json:"product_name"`
	VariantName  string       `json:"variant_name,omitempty"`
	SelectedSize string       `json:"selected_size"`
	Quantity     int          `json:"quantity"`
	UnitPrice    models.Money `json:"unit_price"`
	LineTotal    models.Money `json:"line_total"`
	CODEligible  bool         `json:"cod_eligible"`
}

// PaymentMethodOption 可选支付方式
type PaymentMethodOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Quote 结算试算结果，不落库
type Quote struct {
	Lines           []QuoteLine            `json:"lines"`
	Subtotal        models.Money           `json:"subtotal"`
	Shipping        models.Money           `json:"shipping"`
	Total           models.Money           `json:"total"`
	Currency        string                 `json:"currency"`
	CurrencySymbol  string                 `json:"currency_symbol"`
	CODAvailable    bool                   `json:"cod_available"`
	PaymentMethods  []PaymentMethodOption  `json:"payment_methods"`
	ShippingAddress models.AddressSnapshot `json:"shipping_address"`
	SavedAddressID  *uint                  `json:"saved_address_id,omitempty"`
}

// CheckoutService 结算编排
type CheckoutService struct {
	cfg            config.CheckoutConfig
	cartRepo       repository.CartRepository
	productRepo    repository.ProductRepository
	addressService *AddressService
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(cfg config.CheckoutConfig, cartRepo repository.CartRepository, productRepo repository.ProductRepository, addressService *AddressService) *CheckoutService {
	return &CheckoutService{
		cfg:            cfg,
		cartRepo:       cartRepo,
		productRepo:    productRepo,
		addressService: addressService,
	}
}

// Quote 汇总购物车、地址、运费与货到付款资格
func (s *CheckoutService) Quote(ctx context.Context, userID uint, input QuoteInput) (quote *Quote, err error) {
	ctx, span := tracer.Start(ctx, "checkout.quote")
	span.SetAttributes(attribute.Int64("user.id", int64(userID)))
	defer func() { endSpan(span, err) }()

	items, err := s.cartRepo.ListByOwner(repository.CartOwner{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartFailed, err)
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	snapshot, savedID, err := s.resolveAddress(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	lines, err := s.loadLines(ctx, items)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	codAvailable := true
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal.Decimal)
		if !line.CODEligible {
			codAvailable = false
		}
	}
	shipping := ShippingFor(s.cfg, subtotal)

	methods := []PaymentMethodOption{{Code: constants.PaymentMethodWidget, Label: "Stripe"}}
	if codAvailable {
		methods = append(methods, PaymentMethodOption{Code: constants.PaymentMethodCOD, Label: "Cash on Delivery"})
	}

	span.SetAttributes(
		attribute.Int("quote.lines", len(lines)),
		attribute.Bool("quote.cod_available", codAvailable),
	)
	return &Quote{
		Lines:           lines,
		Subtotal:        models.NewMoneyFromDecimal(subtotal),
		Shipping:        models.NewMoneyFromDecimal(shipping),
		Total:           models.NewMoneyFromDecimal(subtotal.Add(shipping)),
		Currency:        s.cfg.Currency,
		CurrencySymbol:  s.cfg.CurrencySymbol,
		CODAvailable:    codAvailable,
		PaymentMethods:  methods,
		ShippingAddress: snapshot,
		SavedAddressID:  savedID,
	}, nil
}

// ShippingFor 小计超过门槛免运费，否则收取固定运费
func ShippingFor(cfg config.CheckoutConfig, subtotal decimal.Decimal) decimal.Decimal {
	threshold, fee := cfg.ShippingRule()
	if subtotal.GreaterThan(threshold) {
		return decimal.Zero
	}
	return fee
}

func (s *CheckoutService) resolveAddress(ctx context.Context, userID uint, input QuoteInput) (models.AddressSnapshot, *uint, error) {
	if input.AddressID != nil && *input.AddressID != 0 {
		row, err := s.addressService.Get(ctx, userID, *input.AddressID)
		if err != nil {
			return models.AddressSnapshot{}, nil, err
		}
		id := row.ID
		return row.Snapshot(), &id, nil
	}
	if input.ShippingAddress == nil {
		return models.AddressSnapshot{}, nil, ErrAddressInvalid
	}
	normalized, err := input.ShippingAddress.normalize()
	if err != nil {
		return models.AddressSnapshot{}, nil, err
	}
	if !input.SaveAddress {
		return normalized.Snapshot(), nil, nil
	}
	row, err := s.addressService.Create(ctx, userID, normalized)
	if err != nil {
		return models.AddressSnapshot{}, nil, err
	}
	id := row.ID
	return row.Snapshot(), &id, nil
}

// loadLines 并发读取每行的最新商品与规格
func (s *CheckoutService) loadLines(ctx context.Context, items []models.CartItem) ([]QuoteLine, error) {
	lines := make([]QuoteLine, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteLoadConcurrency)

	for idx := range items {
		idx := idx
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := items[idx]
			product, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrCartFailed, err)
			}
			if product == nil || !product.IsActive {
				return ErrProductNotAvailable
			}
			var variant *models.ProductVariant
			if item.VariantID != nil {
				variant = findVariant(product, *item.VariantID)
				if variant == nil || !variant.IsActive {
					return ErrVariantInvalid
				}
			}
			if item.Quantity > availableStock(product, variant) {
				return ErrInsufficientStock
			}

			unit := lineUnitPrice(product, variant)
			line := QuoteLine{
				CartItemID:   item.ID,
				ProductID:    product.ID,
				VariantID:    item.VariantID,
				ProductName:  strings.TrimSpace(product.Name),
				SelectedSize: item.SelectedSize,
				Quantity:     item.Quantity,
				UnitPrice:    models.NewMoneyFromDecimal(unit),
				LineTotal:    models.NewMoneyFromDecimal(unit.Mul(decimal.NewFromInt(int64(item.Quantity)))),
				CODEligible:  product.CODEligible,
			}
			if variant != nil {
				line.VariantName = variant.Name
			}
			lines[idx] = line
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lines, nil
}
