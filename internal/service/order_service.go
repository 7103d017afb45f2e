package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SyncShire/E-Commerce/internal/config"
	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/payment"
	"github.com/SyncShire/E-Commerce/internal/repository"

	"gorm.io/gorm"
)

const returnReasonMaxRunes = 1000

// OrderService 订单生命周期：取消、退货、查询与管理端覆盖
type OrderService struct {
	cfg             config.OrderConfig
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	returnRepo      repository.ReturnRepository
	notificationSvc *NotificationService
	gateway         payment.Gateway
	now             func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(cfg config.OrderConfig, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, returnRepo repository.ReturnRepository, notificationSvc *NotificationService) *OrderService {
	return &OrderService{
		cfg:             cfg,
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		returnRepo:      returnRepo,
		notificationSvc: notificationSvc,
		now:             time.Now,
	}
}

// SetPaymentGateway 设置在线支付网关，取消待支付订单时用于作废支付会话
func (s *OrderService) SetPaymentGateway(gateway payment.Gateway) {
	s.gateway = gateway
}

// voidWidgetPayment 作废待支付订单的在线支付会话；返回 true 表示网关侧已扣款，本地不可取消
func (s *OrderService) voidWidgetPayment(ctx context.Context, order *models.Order) bool {
	if s.gateway == nil ||
		order.PaymentMethod != constants.PaymentMethodWidget ||
		order.PaymentStatus != constants.PaymentStatusPending ||
		order.ExternalPaymentRef == "" {
		return false
	}
	err := s.gateway.Cancel(ctx, order.ExternalPaymentRef)
	if err == nil {
		return false
	}
	if result, verifyErr := s.gateway.Verify(ctx, order.ExternalPaymentRef); verifyErr == nil && result.Succeeded() {
		logger.Ctx(ctx).Warnw("order_cancel_skipped_payment_captured",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"payment_ref", order.ExternalPaymentRef,
		)
		return true
	}
	logger.Ctx(ctx).Warnw("order_payment_void_failed", "order_id", order.ID, "payment_ref", order.ExternalPaymentRef, "error", err)
	return false
}

func (s *OrderService) returnWindowDays() int {
	if s.cfg.ReturnWindowDays <= 0 {
		return 7
	}
	return s.cfg.ReturnWindowDays
}

func (s *OrderService) loadUserOrder(userID uint, orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if userID == 0 || orderNumber == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByNumberAndUser(orderNumber, userID)
	if err != nil {
		return nil, wrapStore(err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// cancelOrder 事务内置为已取消；已扣减库存时回补
func (s *OrderService) cancelOrder(order *models.Order, expectStatus, expectPaymentStatus string) error {
	now := s.now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		affected, err := orderRepo.UpdateFieldsIf(order.ID, expectStatus, expectPaymentStatus, map[string]interface{}{
			"status":         constants.OrderStatusCancelled,
			"canceled_at":    now,
			"stock_deducted": false,
			"updated_at":     now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderCancelNotAllowed
		}
		if order.StockDeducted {
			if err := releaseStockByItems(s.productRepo.WithTx(tx), order.Items); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	order.Status = constants.OrderStatusCancelled
	order.CanceledAt = &now
	order.StockDeducted = false
	order.UpdatedAt = now
	return nil
}

// CancelOrder 用户取消订单，仅待处理与处理中可取消
func (s *OrderService) CancelOrder(ctx context.Context, userID uint, orderNumber string) (*models.Order, error) {
	order, err := s.loadUserOrder(userID, orderNumber)
	if err != nil {
		return nil, err
	}
	if !canCustomerCancel(order.Status) {
		return nil, ErrOrderCancelNotAllowed
	}
	if s.voidWidgetPayment(ctx, order) {
		return nil, ErrOrderCancelNotAllowed
	}
	if err := s.cancelOrder(order, order.Status, order.PaymentStatus); err != nil {
		if errors.Is(err, ErrOrderCancelNotAllowed) {
			return nil, err
		}
		return nil, wrapStore(err)
	}
	logger.Ctx(ctx).Infow("order_cancelled", "order_id", order.ID, "order_number", order.OrderNumber, "user_id", userID)
	s.notificationSvc.NotifyOrderStatus(ctx, order.ID, constants.OrderStatusCancelled)
	return order, nil
}

// CancelExpiredOrder 超时未支付的在线支付订单自动取消
func (s *OrderService) CancelExpiredOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, wrapStore(err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending || order.PaymentStatus != constants.PaymentStatusPending {
		return order, nil
	}
	if order.PaymentMethod != constants.PaymentMethodWidget {
		return order, nil
	}
	if s.voidWidgetPayment(ctx, order) {
		// 已扣款，留待支付回传确认
		return order, nil
	}
	if err := s.cancelOrder(order, constants.OrderStatusPending, constants.PaymentStatusPending); err != nil {
		if errors.Is(err, ErrOrderCancelNotAllowed) {
			// 并发支付成功
			return order, nil
		}
		return nil, wrapStore(err)
	}
	logger.Ctx(ctx).Infow("order_timeout_cancelled", "order_id", order.ID, "order_number", order.OrderNumber)
	s.notificationSvc.NotifyOrderStatus(ctx, order.ID, constants.OrderStatusCancelled)
	return order, nil
}

// SweepExpiredOrders 兜底扫描超时未支付的在线支付订单，返回取消数量
func (s *OrderService) SweepExpiredOrders(ctx context.Context) (int, error) {
	if s.cfg.PaymentExpireMinutes <= 0 {
		return 0, nil
	}
	before := s.now().Add(-time.Duration(s.cfg.PaymentExpireMinutes) * time.Minute)
	ids, err := s.orderRepo.ListExpiredPending(constants.PaymentMethodWidget, before, 100)
	if err != nil {
		return 0, wrapStore(err)
	}
	cancelled := 0
	for _, id := range ids {
		order, err := s.CancelExpiredOrder(ctx, id)
		if err != nil {
			logger.Ctx(ctx).Warnw("order_sweep_cancel_failed", "order_id", id, "error", err)
			continue
		}
		if order != nil && order.Status == constants.OrderStatusCancelled {
			cancelled++
		}
	}
	return cancelled, nil
}

// RequestReturn 申请退货：已送达/已完成且在退货窗口内
func (s *OrderService) RequestReturn(ctx context.Context, userID uint, orderNumber, reason string) (*models.ReturnRequest, error) {
	reason = sanitizeText(reason)
	if reason == "" {
		return nil, ErrReturnReasonRequired
	}
	if len([]rune(reason)) > returnReasonMaxRunes {
		return nil, ErrReturnReasonTooLong
	}
	order, err := s.loadUserOrder(userID, orderNumber)
	if err != nil {
		return nil, err
	}
	if !canRequestReturn(order.Status) {
		return nil, ErrReturnNotAllowed
	}
	if !withinReturnWindow(order.CreatedAt, s.now(), s.returnWindowDays()) {
		return nil, ErrReturnWindowExpired
	}

	row := &models.ReturnRequest{
		OrderID:      order.ID,
		UserID:       userID,
		Reason:       reason,
		Status:       constants.ReturnStatusRequested,
		RefundAmount: order.TotalAmount,
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).UpdateFieldsIf(order.ID, order.Status, order.PaymentStatus, map[string]interface{}{
			"status":     constants.OrderStatusReturnRequested,
			"updated_at": s.now(),
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrReturnNotAllowed
		}
		return s.returnRepo.WithTx(tx).Create(row)
	})
	if err != nil {
		if errors.Is(err, ErrReturnNotAllowed) {
			return nil, err
		}
		return nil, wrapStore(err)
	}
	logger.Ctx(ctx).Infow("order_return_requested", "order_id", order.ID, "return_id", row.ID, "user_id", userID)
	s.notificationSvc.NotifyOrderStatus(ctx, order.ID, constants.OrderStatusReturnRequested)
	return row, nil
}

// ListOrdersByUser 用户订单列表
func (s *OrderService) ListOrdersByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
	if err != nil {
		return nil, 0, wrapStore(err)
	}
	return orders, total, nil
}

// GetOrderByUser 用户订单详情
func (s *OrderService) GetOrderByUser(userID uint, orderNumber string) (*models.Order, error) {
	return s.loadUserOrder(userID, orderNumber)
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.Status = normalizeStatus(filter.Status)
	filter.PaymentStatus = normalizeStatus(filter.PaymentStatus)
	orders, total, err := s.orderRepo.ListAdmin(filter)
	if err != nil {
		return nil, 0, wrapStore(err)
	}
	return orders, total, nil
}

// GetOrderForAdmin 管理端订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, wrapStore(err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateOrderStatus 管理端覆盖订单状态；取消时同样回补已扣减库存
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, target string) (*models.Order, error) {
	target = normalizeStatus(target)
	if !isKnownOrderStatus(target) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.GetOrderForAdmin(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == target {
		return order, nil
	}
	if !canTransition(order.Status, target) {
		logger.Ctx(ctx).Infow("order_status_override", "order_id", order.ID, "from", order.Status, "to", target)
	}

	if target == constants.OrderStatusCancelled {
		if s.voidWidgetPayment(ctx, order) {
			return nil, ErrOrderStatusInvalid
		}
		if err := s.cancelOrder(order, order.Status, order.PaymentStatus); err != nil {
			if errors.Is(err, ErrOrderCancelNotAllowed) {
				return nil, ErrOrderStatusInvalid
			}
			return nil, wrapStore(err)
		}
	} else {
		now := s.now()
		affected, err := s.orderRepo.UpdateFieldsIf(order.ID, order.Status, order.PaymentStatus, map[string]interface{}{
			"status":     target,
			"updated_at": now,
		})
		if err != nil {
			return nil, wrapStore(err)
		}
		if affected == 0 {
			return nil, ErrOrderStatusInvalid
		}
		order.Status = target
		order.UpdatedAt = now
	}
	s.notificationSvc.NotifyOrderStatus(ctx, order.ID, target)
	return order, nil
}

// UpdatePaymentStatus 管理端更新支付状态（如货到付款确认收款）
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uint, target string) (*models.Order, error) {
	target = normalizeStatus(target)
	if !isKnownPaymentStatus(target) {
		return nil, ErrPaymentStatusInvalid
	}
	order, err := s.GetOrderForAdmin(orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == target {
		return order, nil
	}
	now := s.now()
	updates := map[string]interface{}{
		"payment_status": target,
		"updated_at":     now,
	}
	if target == constants.PaymentStatusPaid && order.PaidAt == nil {
		updates["paid_at"] = now
		order.PaidAt = &now
	}
	if err := s.orderRepo.UpdateFields(order.ID, updates); err != nil {
		return nil, wrapStore(err)
	}
	logger.Ctx(ctx).Infow("order_payment_status_updated", "order_id", order.ID, "payment_status", target)
	order.PaymentStatus = target
	order.UpdatedAt = now
	return order, nil
}
