package constants

// 订单状态
const (
	OrderStatusPending         = "pending"
	OrderStatusProcessing      = "processing"
	OrderStatusShipped         = "shipped"
	OrderStatusDelivered       = "delivered"
	OrderStatusCompleted       = "completed"
	OrderStatusCancelled       = "cancelled"
	OrderStatusReturnRequested = "return_requested"
)

// 支付状态
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// 支付方式
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodWidget = "widget"
)

// 支付结果（前端支付组件回传）
const (
	PaymentOutcomeSuccess = "success"
	PaymentOutcomeFailure = "failure"
	PaymentOutcomeDismiss = "dismiss"
)

// 退货状态
const (
	ReturnStatusRequested = "requested"
	ReturnStatusPending   = "pending"
	ReturnStatusApproved  = "approved"
	ReturnStatusRejected  = "rejected"
	ReturnStatusRefunded  = "refunded"
)

// 用户角色与状态
const (
	RoleCustomer = "customer"
	RoleSupport  = "support"
	RoleAdmin    = "admin"

	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 身份类型
const (
	IdentityKindUser      = "user"
	IdentityKindAnonymous = "anonymous"
)

// 邮件类型（邮件函数端点约定）
const (
	EmailTypeOrderConfirmation = "order_confirmation"
	EmailTypeOrderStatus       = "order_status"
)

// 队列
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskOrderConfirmationEmail = "order:confirmation_email"
	TaskOrderStatusEmail       = "order:status_email"
	TaskOrderTimeoutCancel     = "order:timeout_cancel"
)

// HTTP 头
const (
	HeaderSessionToken   = "X-Session-Token"
	HeaderIdempotencyKey = "Idempotency-Key"
)
