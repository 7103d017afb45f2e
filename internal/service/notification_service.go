package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/notify"
	"github.com/SyncShire/E-Commerce/internal/queue"
	"github.com/SyncShire/E-Commerce/internal/repository"
)

const inlineEmailTimeout = 15 * time.Second

// EmailSender 邮件端点抽象
type EmailSender interface {
	Send(ctx context.Context, emailType, to string, data map[string]interface{}) (*notify.Result, error)
	Enabled() bool
}

// NotificationService 订单邮件通知，失败只记录日志
type NotificationService struct {
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
	sender      EmailSender
}

// NewNotificationService 创建通知服务
func NewNotificationService(orderRepo repository.OrderRepository, queueClient *queue.Client, sender EmailSender) *NotificationService {
	return &NotificationService{
		orderRepo:   orderRepo,
		queueClient: queueClient,
		sender:      sender,
	}
}

// NotifyOrderConfirmed 下单确认邮件（尽力而为）
func (s *NotificationService) NotifyOrderConfirmed(ctx context.Context, orderID uint) {
	if s == nil || orderID == 0 {
		return
	}
	payload := queue.OrderEmailPayload{OrderID: orderID}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueOrderConfirmationEmail(payload)
		if err == nil {
			return
		}
		logger.Ctx(ctx).Warnw("order_confirmation_email_enqueue_failed", "order_id", orderID, "error", err)
	}
	s.sendInline(constants.EmailTypeOrderConfirmation, payload)
}

// NotifyOrderStatus 订单状态变更邮件（尽力而为）
func (s *NotificationService) NotifyOrderStatus(ctx context.Context, orderID uint, status string) {
	if s == nil || orderID == 0 {
		return
	}
	payload := queue.OrderEmailPayload{OrderID: orderID, Status: strings.TrimSpace(status)}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueOrderStatusEmail(payload)
		if err == nil {
			return
		}
		logger.Ctx(ctx).Warnw("order_status_email_enqueue_failed", "order_id", orderID, "status", status, "error", err)
	}
	s.sendInline(constants.EmailTypeOrderStatus, payload)
}

// sendInline 队列不可用时在后台协程中直接发送
func (s *NotificationService) sendInline(emailType string, payload queue.OrderEmailPayload) {
	if s.sender == nil || !s.sender.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), inlineEmailTimeout)
		defer cancel()
		if err := s.SendOrderEmail(ctx, emailType, payload); err != nil {
			logger.Warnw("order_email_send_failed",
				"order_id", payload.OrderID,
				"email_type", emailType,
				"error", err,
			)
		}
	}()
}

// SendOrderEmail 组装并发送订单邮件，供队列任务与内联发送共用
func (s *NotificationService) SendOrderEmail(ctx context.Context, emailType string, payload queue.OrderEmailPayload) error {
	if s.sender == nil || !s.sender.Enabled() {
		return nil
	}
	order, err := s.orderRepo.GetByID(payload.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	recipient, err := s.orderRepo.ResolveRecipientByOrderID(order.ID)
	if err != nil {
		return err
	}
	if recipient.Email == "" {
		logger.Ctx(ctx).Infow("order_email_skipped_no_recipient", "order_id", order.ID)
		return nil
	}

	data := orderEmailData(order, recipient, payload.Status)
	result, err := s.sender.Send(ctx, emailType, recipient.Email, data)
	if err != nil {
		if errors.Is(err, notify.ErrNotConfigured) {
			return nil
		}
		return err
	}
	fields := []interface{}{"order_id", order.ID, "email_type", emailType}
	if result != nil && result.ID != "" {
		fields = append(fields, "message_id", result.ID)
	}
	logger.Ctx(ctx).Infow("order_email_sent", fields...)
	return nil
}

func orderEmailData(order *models.Order, recipient repository.Recipient, status string) map[string]interface{} {
	data := map[string]interface{}{
		"order_number":  order.OrderNumber,
		"total_amount":  order.TotalAmount.String(),
		"customer_name": recipient.Name,
	}
	if status == "" {
		status = order.Status
	}
	if status != "" {
		data["status"] = status
	}
	return data
}
