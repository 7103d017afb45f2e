package service

import (
	"errors"
	"fmt"
)

// 通用
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrForbidden     = errors.New("forbidden")
	ErrInternalStore = errors.New("store operation failed")
)

// 用户与认证
var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailExists        = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrProfileEmpty       = errors.New("profile update is empty")
	ErrInvalidRole        = errors.New("invalid role type")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaInvalid     = errors.New("captcha invalid")
)

// 商品
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrVariantInvalid      = errors.New("variant does not belong to product")
	ErrSizeRequired        = errors.New("size selection required")
	ErrSizeInvalid         = errors.New("size not offered")
	ErrOutOfStock          = errors.New("product out of stock")
	ErrSlugExists          = errors.New("slug already exists")
	ErrProductInvalid      = errors.New("product payload invalid")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryInvalid     = errors.New("category payload invalid")
	ErrCategoryInUse       = errors.New("category has products")
	ErrBrandNotFound       = errors.New("brand not found")
	ErrBrandInvalid        = errors.New("brand payload invalid")
	ErrBrandInUse          = errors.New("brand has products")
	ErrProductQueryInvalid = errors.New("product query invalid")
)

// 心愿单与评价
var (
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
	ErrReviewInvalid        = errors.New("review payload invalid")
	ErrReviewNotAllowed     = errors.New("review requires a delivered purchase")
)

// 经营分析
var (
	ErrAnalyticsRangeInvalid = errors.New("analytics range invalid")
)

// 购物车
var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrCartFailed       = errors.New("cart operation failed")
)

// 地址与退款账户
var (
	ErrAddressNotFound     = errors.New("address not found")
	ErrAddressInvalid      = errors.New("address missing required fields")
	ErrBankAccountInvalid  = errors.New("bank account invalid")
	ErrBankAccountNotFound = errors.New("bank account not found")
)

// 结算与支付
var (
	ErrInsufficientStock          = errors.New("insufficient stock")
	ErrCODNotAvailable            = errors.New("cash on delivery not available for this cart")
	ErrPaymentMethodInvalid       = errors.New("payment method invalid")
	ErrCheckoutInFlight           = errors.New("checkout already in progress")
	ErrOrderCreateFailed          = errors.New("order creation failed")
	ErrPaymentProviderUnavailable = errors.New("payment provider unavailable")
	ErrPaymentFailed              = errors.New("payment failed")
	ErrPaymentCancelled           = errors.New("payment cancelled")
	ErrPaymentRefRequired         = errors.New("payment reference required")
	ErrPaymentVerifyFailed        = errors.New("payment verification failed")
	ErrPaymentCapturedNotRecorded = errors.New("payment captured but not recorded")
	ErrPaymentOutcomeInvalid      = errors.New("payment outcome invalid")
)

// 订单与退货
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderStatusInvalid    = errors.New("order status invalid")
	ErrOrderCancelNotAllowed = errors.New("order cannot be cancelled")
	ErrReturnNotAllowed      = errors.New("order not eligible for return")
	ErrReturnWindowExpired   = errors.New("return window expired")
	ErrReturnReasonRequired  = errors.New("return reason required")
	ErrReturnReasonTooLong   = errors.New("return reason too long")
	ErrReturnNotFound        = errors.New("return request not found")
	ErrReturnStatusInvalid   = errors.New("return status invalid")
	ErrPaymentStatusInvalid  = errors.New("payment status invalid")
)

// PaymentDeclinedError 支付组件回传的失败描述
type PaymentDeclinedError struct {
	Description string
	cause       error
}

func (e *PaymentDeclinedError) Error() string {
	if e.Description == "" {
		return e.cause.Error()
	}
	return fmt.Sprintf("%s: %s", e.cause.Error(), e.Description)
}

func (e *PaymentDeclinedError) Unwrap() error {
	return e.cause
}

// PaymentRecordError 扣款成功但订单落库失败，携带外部流水号供人工对账
type PaymentRecordError struct {
	PaymentRef string
	Err        error
}

func (e *PaymentRecordError) Error() string {
	return fmt.Sprintf("%s (ref %s): %v", ErrPaymentCapturedNotRecorded.Error(), e.PaymentRef, e.Err)
}

func (e *PaymentRecordError) Unwrap() []error {
	return []error{ErrPaymentCapturedNotRecorded, e.Err}
}

func wrapStore(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInternalStore, err)
}
