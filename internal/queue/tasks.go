package queue

import (
	"encoding/json"
	"errors"

	"github.com/SyncShire/E-Commerce/internal/constants"

	"github.com/hibiken/asynq"
)

// ErrDisabled 队列未启用
var ErrDisabled = errors.New("queue disabled")

const (
	// TaskOrderConfirmationEmail 下单确认邮件任务
	TaskOrderConfirmationEmail = constants.TaskOrderConfirmationEmail
	// TaskOrderStatusEmail 订单状态邮件任务
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskOrderTimeoutCancel 超时取消任务
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
)

// OrderEmailPayload 订单邮件任务载荷
type OrderEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status,omitempty"`
}

// OrderTimeoutCancelPayload 超时取消任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

func newTask(typeName string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typeName, body), nil
}

// NewOrderConfirmationEmailTask 创建下单确认邮件任务
func NewOrderConfirmationEmailTask(payload OrderEmailPayload) (*asynq.Task, error) {
	return newTask(TaskOrderConfirmationEmail, payload)
}

// NewOrderStatusEmailTask 创建订单状态邮件任务
func NewOrderStatusEmailTask(payload OrderEmailPayload) (*asynq.Task, error) {
	return newTask(TaskOrderStatusEmail, payload)
}

// NewOrderTimeoutCancelTask 创建超时取消任务
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	return newTask(TaskOrderTimeoutCancel, payload)
}
