package service

import (
	"strings"
	"time"

	"github.com/SyncShire/E-Commerce/internal/constants"
)

// 客户与支付触发的状态流转，管理员可覆盖为任意已知状态
var orderTransitions = map[string][]string{
	constants.OrderStatusPending:    {constants.OrderStatusProcessing, constants.OrderStatusCancelled},
	constants.OrderStatusProcessing: {constants.OrderStatusShipped, constants.OrderStatusCancelled},
	constants.OrderStatusShipped:    {constants.OrderStatusDelivered, constants.OrderStatusCompleted},
	constants.OrderStatusDelivered:  {constants.OrderStatusCompleted, constants.OrderStatusReturnRequested},
	constants.OrderStatusCompleted:  {constants.OrderStatusReturnRequested},
}

var knownOrderStatuses = map[string]struct{}{
	constants.OrderStatusPending:         {},
	constants.OrderStatusProcessing:      {},
	constants.OrderStatusShipped:         {},
	constants.OrderStatusDelivered:       {},
	constants.OrderStatusCompleted:       {},
	constants.OrderStatusCancelled:       {},
	constants.OrderStatusReturnRequested: {},
}

var knownPaymentStatuses = map[string]struct{}{
	constants.PaymentStatusPending:  {},
	constants.PaymentStatusPaid:     {},
	constants.PaymentStatusRefunded: {},
}

func normalizeStatus(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// isKnownOrderStatus 管理员覆盖时仅接受已知状态
func isKnownOrderStatus(status string) bool {
	_, ok := knownOrderStatuses[status]
	return ok
}

func isKnownPaymentStatus(status string) bool {
	_, ok := knownPaymentStatuses[status]
	return ok
}

// canTransition 判断常规流转是否合法
func canTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// canCustomerCancel 仅待处理与处理中可取消
func canCustomerCancel(status string) bool {
	return status == constants.OrderStatusPending || status == constants.OrderStatusProcessing
}

// canRequestReturn 仅已送达或已完成可退货
func canRequestReturn(status string) bool {
	return status == constants.OrderStatusDelivered || status == constants.OrderStatusCompleted
}

// withinReturnWindow 下单后 days 天内（含边界）
func withinReturnWindow(createdAt, now time.Time, days int) bool {
	if days <= 0 {
		return false
	}
	return now.Sub(createdAt) <= time.Duration(days)*24*time.Hour
}
