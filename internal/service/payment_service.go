package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/SyncShire/E-Commerce/internal/cache"
	"github.com/SyncShire/E-Commerce/internal/config"
	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/payment"
	"github.com/SyncShire/E-Commerce/internal/queue"
	"github.com/SyncShire/E-Commerce/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const (
	maxIdempotencyKeyLength = 80
	orderNumberAttempts     = 5
	paymentErrorMaxRunes    = 500
)

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	PaymentMethod   string
	AddressID       *uint
	ShippingAddress *AddressInput
	BillingAddress  *AddressInput
	SaveAddress     bool
	IdempotencyKey  string
}

// PlaceOrderResult 下单结果；在线支付时携带组件参数
type PlaceOrderResult struct {
	Order    *models.Order         `json:"order"`
	Widget   *payment.WidgetSession `json:"widget,omitempty"`
	Replayed bool                  `json:"replayed"`
}

// ReconcileInput 支付组件回传结果
type ReconcileInput struct {
	Outcome          string
	PaymentRef       string
	ErrorDescription string
}

// PaymentServiceOptions 支付服务依赖
type PaymentServiceOptions struct {
	Checkout        config.CheckoutConfig
	Order           config.OrderConfig
	ThemeColor      string
	CheckoutService *CheckoutService
	CartService     *CartService
	OrderRepo       repository.OrderRepository
	ProductRepo     repository.ProductRepository
	Gateway         payment.Gateway
	Cache           *cache.Store
	QueueClient     *queue.Client
	Notification    *NotificationService
}

// PaymentService 下单与支付对账
type PaymentService struct {
	checkoutCfg     config.CheckoutConfig
	orderCfg        config.OrderConfig
	themeColor      string
	checkoutSvc     *CheckoutService
	cartSvc         *CartService
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	gateway         payment.Gateway
	queueClient     *queue.Client
	notificationSvc *NotificationService
	guard           *inflightGuard
	now             func() time.Time
}

// NewPaymentService 创建支付服务
func NewPaymentService(opts PaymentServiceOptions) *PaymentService {
	ttl := time.Duration(opts.Checkout.InflightTTLSeconds) * time.Second
	return &PaymentService{
		checkoutCfg:     opts.Checkout,
		orderCfg:        opts.Order,
		themeColor:      opts.ThemeColor,
		checkoutSvc:     opts.CheckoutService,
		cartSvc:         opts.CartService,
		orderRepo:       opts.OrderRepo,
		productRepo:     opts.ProductRepo,
		gateway:         opts.Gateway,
		queueClient:     opts.QueueClient,
		notificationSvc: opts.Notification,
		guard:           newInflightGuard(opts.Cache, ttl),
		now:             time.Now,
	}
}

func normalizePaymentMethod(raw string) (string, error) {
	switch method := strings.ToLower(strings.TrimSpace(raw)); method {
	case constants.PaymentMethodCOD, constants.PaymentMethodWidget:
		return method, nil
	default:
		return "", ErrPaymentMethodInvalid
	}
}

func normalizeIdempotencyKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if len(key) > maxIdempotencyKeyLength {
		return "", ErrInvalidInput
	}
	return key, nil
}

// PlaceOrder 下单：幂等检查、重新试算、事务写入订单与订单项，再按支付方式分支
func (s *PaymentService) PlaceOrder(ctx context.Context, userID uint, input PlaceOrderInput) (result *PlaceOrderResult, err error) {
	ctx, span := tracer.Start(ctx, "checkout.place_order")
	span.SetAttributes(attribute.Int64("user.id", int64(userID)))
	defer func() { endSpan(span, err) }()

	if userID == 0 {
		return nil, ErrForbidden
	}
	method, err := normalizePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	idemKey, err := normalizeIdempotencyKey(input.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("payment.method", method))

	release, ok := s.guard.Acquire(ctx, inflightKey(userID, idemKey))
	if !ok {
		return nil, ErrCheckoutInFlight
	}
	defer release()

	if existing, err := s.orderRepo.GetByUserAndIdempotencyKey(userID, idemKey); err != nil {
		return nil, wrapStore(err)
	} else if existing != nil {
		return s.replay(ctx, existing)
	}

	quote, err := s.checkoutSvc.Quote(ctx, userID, QuoteInput{
		AddressID:       input.AddressID,
		ShippingAddress: input.ShippingAddress,
		SaveAddress:     input.SaveAddress,
	})
	if err != nil {
		return nil, err
	}
	if method == constants.PaymentMethodCOD && !quote.CODAvailable {
		return nil, ErrCODNotAvailable
	}

	billing := quote.ShippingAddress
	if input.BillingAddress != nil {
		normalized, err := input.BillingAddress.normalize()
		if err != nil {
			return nil, err
		}
		billing = normalized.Snapshot()
	}

	order, err := s.createOrder(userID, method, idemKey, quote, billing)
	if err != nil {
		if idemKey != "" {
			if existing, lookupErr := s.orderRepo.GetByUserAndIdempotencyKey(userID, idemKey); lookupErr == nil && existing != nil {
				return s.replay(ctx, existing)
			}
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("order.number", order.OrderNumber))
	logger.Ctx(ctx).Infow("checkout_order_created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"user_id", userID,
		"payment_method", method,
		"total_amount", order.TotalAmount.String(),
	)

	if method == constants.PaymentMethodCOD {
		return s.confirmCOD(ctx, order)
	}
	widget, err := s.openWidget(ctx, order)
	if err != nil {
		return nil, err
	}
	s.scheduleTimeoutCancel(ctx, order)
	return &PlaceOrderResult{Order: order, Widget: widget}, nil
}

// replay 同一幂等键重复提交时返回已有订单
func (s *PaymentService) replay(ctx context.Context, order *models.Order) (*PlaceOrderResult, error) {
	logger.Ctx(ctx).Infow("checkout_order_replayed", "order_id", order.ID, "order_number", order.OrderNumber)
	result := &PlaceOrderResult{Order: order, Replayed: true}
	if order.PaymentMethod == constants.PaymentMethodWidget &&
		order.Status == constants.OrderStatusPending &&
		order.PaymentStatus == constants.PaymentStatusPending {
		widget, err := s.openWidget(ctx, order)
		if err != nil {
			return nil, err
		}
		result.Widget = widget
	}
	return result, nil
}

func (s *PaymentService) createOrder(userID uint, method, idemKey string, quote *Quote, billing models.AddressSnapshot) (*models.Order, error) {
	order := &models.Order{
		UserID:          userID,
		Status:          constants.OrderStatusPending,
		PaymentStatus:   constants.PaymentStatusPending,
		PaymentMethod:   method,
		Currency:        quote.Currency,
		SubtotalAmount:  quote.Subtotal,
		ShippingAmount:  quote.Shipping,
		TotalAmount:     quote.Total,
		ShippingAddress: quote.ShippingAddress,
		BillingAddress:  billing,
	}
	if idemKey != "" {
		key := idemKey
		order.IdempotencyKey = &key
	}
	items := make([]models.OrderItem, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		name := line.ProductName
		if line.VariantName != "" {
			name = name + " - " + line.VariantName
		}
		items = append(items, models.OrderItem{
			ProductID:           line.ProductID,
			VariantID:           line.VariantID,
			SelectedSize:        line.SelectedSize,
			ProductName:         name,
			Quantity:            line.Quantity,
			UnitPriceAtPurchase: line.UnitPrice,
			TotalPrice:          line.LineTotal,
		})
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		number, err := s.nextOrderNumber(orderRepo)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		return orderRepo.Create(order, items)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
	}
	return order, nil
}

func (s *PaymentService) nextOrderNumber(orderRepo repository.OrderRepository) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		number := generateOrderNumber(s.now())
		count, err := orderRepo.CountByNumber(number)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", errors.New("order number exhausted")
}

// generateOrderNumber ORD + 时间戳 + 6 位随机数
func generateOrderNumber(now time.Time) string {
	return "ORD" + now.Format("20060102150405") + randNumeric(6)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}

// confirmCOD 货到付款：直接进入处理中并扣减库存，支付状态保持待支付
func (s *PaymentService) confirmCOD(ctx context.Context, order *models.Order) (*PlaceOrderResult, error) {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).UpdateFieldsIf(order.ID, constants.OrderStatusPending, constants.PaymentStatusPending, map[string]interface{}{
			"status":         constants.OrderStatusProcessing,
			"stock_deducted": true,
			"updated_at":     s.now(),
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderStatusInvalid
		}
		return consumeStockByItems(s.productRepo.WithTx(tx), order.Items)
	})
	if err != nil {
		logger.Ctx(ctx).Errorw("checkout_cod_confirm_failed", "order_id", order.ID, "error", err)
		if errors.Is(err, ErrOrderStatusInvalid) {
			return nil, err
		}
		return nil, wrapStore(err)
	}
	order.Status = constants.OrderStatusProcessing
	order.StockDeducted = true

	s.afterConfirmed(ctx, order)
	return &PlaceOrderResult{Order: order}, nil
}

// afterConfirmed 确认后清空购物车并发送确认邮件，失败只记录
func (s *PaymentService) afterConfirmed(ctx context.Context, order *models.Order) {
	if s.cartSvc != nil {
		identity := Identity{Kind: constants.IdentityKindUser, UserID: order.UserID}
		if err := s.cartSvc.ClearCart(ctx, identity); err != nil {
			logger.Ctx(ctx).Warnw("checkout_cart_clear_failed", "order_id", order.ID, "error", err)
		}
	}
	s.notificationSvc.NotifyOrderConfirmed(ctx, order.ID)
}

// openWidget 创建托管支付会话；失败时订单保持待支付
func (s *PaymentService) openWidget(ctx context.Context, order *models.Order) (*payment.WidgetSession, error) {
	if s.gateway == nil {
		return nil, ErrPaymentProviderUnavailable
	}
	amount, err := payment.ToMinorUnits(order.TotalAmount.Decimal, order.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentProviderUnavailable, err)
	}
	prefill := payment.Prefill{
		Name:  order.ShippingAddress.FullName(),
		Email: order.ShippingAddress.Email,
		Phone: order.ShippingAddress.Phone,
	}
	if prefill.Email == "" || prefill.Name == "" {
		if recipient, err := s.orderRepo.ResolveRecipientByOrderID(order.ID); err == nil {
			if prefill.Email == "" {
				prefill.Email = recipient.Email
			}
			if prefill.Name == "" {
				prefill.Name = recipient.Name
			}
		}
	}

	session, err := s.gateway.CreateSession(ctx, payment.SessionInput{
		OrderNumber:    order.OrderNumber,
		Amount:         amount,
		Currency:       order.Currency,
		Prefill:        prefill,
		Metadata:       map[string]string{"order_id": fmt.Sprintf("%d", order.ID)},
		IdempotencyKey: "order:" + order.OrderNumber,
	})
	if err != nil {
		logger.Ctx(ctx).Errorw("checkout_widget_session_failed",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrPaymentProviderUnavailable, err)
	}
	if session.ThemeColor == "" {
		session.ThemeColor = s.themeColor
	}
	// 记录会话流水，取消订单时据此作废
	if ref := strings.TrimSpace(session.PaymentRef); ref != "" && ref != order.ExternalPaymentRef {
		if err := s.orderRepo.UpdateFields(order.ID, map[string]interface{}{"external_payment_ref": ref}); err != nil {
			logger.Ctx(ctx).Warnw("checkout_widget_ref_record_failed", "order_id", order.ID, "payment_ref", ref, "error", err)
		} else {
			order.ExternalPaymentRef = ref
		}
	}
	return session, nil
}

func (s *PaymentService) scheduleTimeoutCancel(ctx context.Context, order *models.Order) {
	if s.orderCfg.PaymentExpireMinutes <= 0 || !s.queueClient.Enabled() {
		return
	}
	delay := time.Duration(s.orderCfg.PaymentExpireMinutes) * time.Minute
	if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{OrderID: order.ID}, delay); err != nil {
		logger.Ctx(ctx).Warnw("order_enqueue_timeout_cancel_failed", "order_id", order.ID, "error", err)
	}
}

// Reconcile 处理支付组件回传的结果
func (s *PaymentService) Reconcile(ctx context.Context, userID uint, orderNumber string, input ReconcileInput) (order *models.Order, err error) {
	ctx, span := tracer.Start(ctx, "checkout.reconcile")
	span.SetAttributes(
		attribute.Int64("user.id", int64(userID)),
		attribute.String("order.number", orderNumber),
		attribute.String("payment.outcome", input.Outcome),
	)
	defer func() { endSpan(span, err) }()

	order, err = s.orderRepo.GetByNumberAndUser(strings.TrimSpace(orderNumber), userID)
	if err != nil {
		return nil, wrapStore(err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	switch strings.ToLower(strings.TrimSpace(input.Outcome)) {
	case constants.PaymentOutcomeFailure:
		description := truncateRunes(sanitizeText(input.ErrorDescription), paymentErrorMaxRunes)
		s.recordPaymentError(ctx, order, description)
		return nil, &PaymentDeclinedError{Description: description, cause: ErrPaymentFailed}
	case constants.PaymentOutcomeDismiss:
		logger.Ctx(ctx).Infow("payment_dismissed", "order_id", order.ID, "order_number", order.OrderNumber)
		return nil, ErrPaymentCancelled
	case constants.PaymentOutcomeSuccess:
		return s.confirmWidget(ctx, order, strings.TrimSpace(input.PaymentRef))
	default:
		return nil, ErrPaymentOutcomeInvalid
	}
}

// recordPaymentError 只记录失败描述，订单状态保持不变
func (s *PaymentService) recordPaymentError(ctx context.Context, order *models.Order, description string) {
	logger.Ctx(ctx).Infow("payment_failed", "order_id", order.ID, "order_number", order.OrderNumber, "description", description)
	if description == "" || order.PaymentStatus != constants.PaymentStatusPending {
		return
	}
	if err := s.orderRepo.UpdateFields(order.ID, map[string]interface{}{"payment_error": description}); err != nil {
		logger.Ctx(ctx).Warnw("payment_error_record_failed", "order_id", order.ID, "error", err)
	}
}

func (s *PaymentService) confirmWidget(ctx context.Context, order *models.Order, ref string) (*models.Order, error) {
	if ref == "" {
		return nil, ErrPaymentRefRequired
	}
	if order.PaymentMethod != constants.PaymentMethodWidget {
		return nil, ErrPaymentMethodInvalid
	}
	if order.PaymentStatus == constants.PaymentStatusPaid && order.ExternalPaymentRef == ref {
		return order, nil
	}
	if order.Status != constants.OrderStatusPending || order.PaymentStatus != constants.PaymentStatusPending {
		return nil, s.escalateCaptured(ctx, order, ref)
	}
	if err := s.verify(ctx, order, ref); err != nil {
		return nil, err
	}

	now := s.now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).UpdateFieldsIf(order.ID, constants.OrderStatusPending, constants.PaymentStatusPending, map[string]interface{}{
			"status":               constants.OrderStatusProcessing,
			"payment_status":       constants.PaymentStatusPaid,
			"external_payment_ref": ref,
			"payment_error":        "",
			"paid_at":              now,
			"stock_deducted":       true,
			"updated_at":           now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderStatusInvalid
		}
		return consumeStockByItems(s.productRepo.WithTx(tx), order.Items)
	})
	if err != nil {
		if latest, lookupErr := s.orderRepo.GetByID(order.ID); lookupErr == nil && latest != nil &&
			latest.PaymentStatus == constants.PaymentStatusPaid && latest.ExternalPaymentRef == ref {
			return latest, nil
		}
		logger.Ctx(ctx).Errorw("payment_captured_not_recorded",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"payment_ref", ref,
			"error", err,
		)
		return nil, &PaymentRecordError{PaymentRef: ref, Err: err}
	}

	logger.Ctx(ctx).Infow("payment_confirmed", "order_id", order.ID, "order_number", order.OrderNumber, "payment_ref", ref)
	order.Status = constants.OrderStatusProcessing
	order.PaymentStatus = constants.PaymentStatusPaid
	order.ExternalPaymentRef = ref
	order.PaymentError = ""
	order.PaidAt = &now
	order.StockDeducted = true
	order.UpdatedAt = now

	s.afterConfirmed(ctx, order)
	return order, nil
}

// escalateCaptured 订单已不可确认（超时取消、已用其他流水支付等）时向网关核验；
// 扣款已成功则返回 PaymentRecordError 交由人工对账
func (s *PaymentService) escalateCaptured(ctx context.Context, order *models.Order, ref string) error {
	if s.gateway == nil {
		return ErrOrderStatusInvalid
	}
	result, err := s.gateway.Verify(ctx, ref)
	if err != nil {
		logger.Ctx(ctx).Warnw("payment_verify_failed", "order_id", order.ID, "payment_ref", ref, "error", err)
		return ErrOrderStatusInvalid
	}
	switch {
	case !result.Succeeded():
		return ErrOrderStatusInvalid
	case result.PaymentRef != "" && result.PaymentRef != ref:
		return ErrOrderStatusInvalid
	case result.OrderNumber != "" && result.OrderNumber != order.OrderNumber:
		return ErrOrderStatusInvalid
	}
	logger.Ctx(ctx).Errorw("payment_captured_not_recorded",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"status", order.Status,
		"payment_status", order.PaymentStatus,
		"payment_ref", ref,
	)
	return &PaymentRecordError{PaymentRef: ref, Err: ErrOrderStatusInvalid}
}

// verify 向网关核验状态、金额、币种与订单号
func (s *PaymentService) verify(ctx context.Context, order *models.Order, ref string) error {
	if s.gateway == nil {
		return ErrPaymentProviderUnavailable
	}
	expected, err := payment.ToMinorUnits(order.TotalAmount.Decimal, order.Currency)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentVerifyFailed, err)
	}
	result, err := s.gateway.Verify(ctx, ref)
	if err != nil {
		logger.Ctx(ctx).Warnw("payment_verify_failed", "order_id", order.ID, "payment_ref", ref, "error", err)
		return fmt.Errorf("%w: %v", ErrPaymentVerifyFailed, err)
	}
	switch {
	case !result.Succeeded():
		return fmt.Errorf("%w: status %s", ErrPaymentVerifyFailed, result.Status)
	case result.Amount != expected:
		return fmt.Errorf("%w: amount %d want %d", ErrPaymentVerifyFailed, result.Amount, expected)
	case result.Currency != "" && !strings.EqualFold(result.Currency, order.Currency):
		return fmt.Errorf("%w: currency %s want %s", ErrPaymentVerifyFailed, result.Currency, order.Currency)
	case result.OrderNumber != "" && result.OrderNumber != order.OrderNumber:
		return fmt.Errorf("%w: order number mismatch", ErrPaymentVerifyFailed)
	}
	return nil
}

func truncateRunes(raw string, limit int) string {
	runes := []rune(raw)
	if len(runes) <= limit {
		return raw
	}
	return string(runes[:limit])
}
