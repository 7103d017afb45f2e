package shared

import (
	"errors"

	"github.com/SyncShire/E-Commerce/internal/http/response"
	"github.com/SyncShire/E-Commerce/internal/i18n"
	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil || c.Request == nil {
		return logger.S()
	}
	log := logger.Ctx(c.Request.Context())
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return log.With("request_id", id)
		}
	}
	return log
}

// RespondError 返回国际化错误响应，服务端故障记录错误日志
func RespondError(c *gin.Context, code int, key string, err error, args ...interface{}) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	if len(args) > 0 {
		msg = i18n.Sprintf(locale, key, args...)
	}
	respond(c, response.WrapError(code, msg, err))
}

func respond(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil {
		log := RequestLog(c).With("code", appErr.Code, "message", appErr.Message, "error", appErr.Err)
		if appErr.Internal() {
			log.Errorw("handler_error")
		} else {
			log.Warnw("handler_rejected")
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// MappedError 业务错误到响应码与文案 key 的映射
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// keyedError 自带文案 key 与参数的错误（如密码策略）
type keyedError interface {
	error
	Key() string
	Args() []interface{}
}

// ServiceErrorRules 全局业务错误映射，按顺序匹配
var ServiceErrorRules = []MappedError{
	{service.ErrTokenInvalid, response.CodeUnauthorized, "error.token_invalid"},
	{service.ErrTokenRevoked, response.CodeUnauthorized, "error.token_revoked"},
	{service.ErrInvalidEmail, response.CodeBadRequest, "error.email_invalid"},
	{service.ErrEmailExists, response.CodeConflict, "error.email_exists"},
	{service.ErrInvalidCredentials, response.CodeUnauthorized, "error.invalid_credentials"},
	{service.ErrUserDisabled, response.CodeUnauthorized, "error.user_disabled"},
	{service.ErrProfileEmpty, response.CodeBadRequest, "error.profile_empty"},
	{service.ErrInvalidRole, response.CodeBadRequest, "error.role_invalid"},
	{service.ErrCaptchaRequired, response.CodeBadRequest, "error.captcha_required"},
	{service.ErrCaptchaInvalid, response.CodeBadRequest, "error.captcha_invalid"},

	{service.ErrProductNotFound, response.CodeNotFound, "error.product_not_found"},
	{service.ErrProductNotAvailable, response.CodeBadRequest, "error.product_not_available"},
	{service.ErrVariantInvalid, response.CodeBadRequest, "error.variant_invalid"},
	{service.ErrSizeRequired, response.CodeBadRequest, "error.size_required"},
	{service.ErrSizeInvalid, response.CodeBadRequest, "error.size_invalid"},
	{service.ErrOutOfStock, response.CodeBadRequest, "error.out_of_stock"},
	{service.ErrSlugExists, response.CodeConflict, "error.slug_exists"},
	{service.ErrProductInvalid, response.CodeBadRequest, "error.product_invalid"},
	{service.ErrProductQueryInvalid, response.CodeBadRequest, "error.product_query_invalid"},
	{service.ErrCategoryNotFound, response.CodeNotFound, "error.category_not_found"},
	{service.ErrCategoryInvalid, response.CodeBadRequest, "error.category_invalid"},
	{service.ErrCategoryInUse, response.CodeConflict, "error.category_in_use"},
	{service.ErrBrandNotFound, response.CodeNotFound, "error.brand_not_found"},
	{service.ErrBrandInvalid, response.CodeBadRequest, "error.brand_invalid"},
	{service.ErrBrandInUse, response.CodeConflict, "error.brand_in_use"},

	{service.ErrWishlistItemNotFound, response.CodeNotFound, "error.wishlist_item_not_found"},
	{service.ErrReviewInvalid, response.CodeBadRequest, "error.review_invalid"},
	{service.ErrReviewNotAllowed, response.CodeForbidden, "error.review_not_allowed"},
	{service.ErrAnalyticsRangeInvalid, response.CodeBadRequest, "error.analytics_range_invalid"},

	{service.ErrInvalidQuantity, response.CodeBadRequest, "error.quantity_invalid"},
	{service.ErrCartLineNotFound, response.CodeNotFound, "error.cart_line_not_found"},
	{service.ErrCartEmpty, response.CodeBadRequest, "error.cart_empty"},

	{service.ErrAddressNotFound, response.CodeNotFound, "error.address_not_found"},
	{service.ErrAddressInvalid, response.CodeBadRequest, "error.address_invalid"},
	{service.ErrBankAccountInvalid, response.CodeBadRequest, "error.bank_account_invalid"},
	{service.ErrBankAccountNotFound, response.CodeNotFound, "error.bank_account_not_found"},

	{service.ErrInsufficientStock, response.CodeConflict, "error.insufficient_stock"},
	{service.ErrCODNotAvailable, response.CodeBadRequest, "error.cod_not_available"},
	{service.ErrPaymentMethodInvalid, response.CodeBadRequest, "error.payment_method_invalid"},
	{service.ErrCheckoutInFlight, response.CodeCheckoutInFlight, "error.checkout_in_flight"},
	{service.ErrPaymentFailed, response.CodePaymentFailed, "error.payment_failed_generic"},
	{service.ErrPaymentCancelled, response.CodePaymentCancelled, "error.payment_cancelled"},
	{service.ErrPaymentRefRequired, response.CodeBadRequest, "error.payment_ref_required"},
	{service.ErrPaymentOutcomeInvalid, response.CodeBadRequest, "error.payment_outcome_invalid"},

	{service.ErrOrderNotFound, response.CodeNotFound, "error.order_not_found"},
	{service.ErrOrderStatusInvalid, response.CodeConflict, "error.order_status_invalid"},
	{service.ErrOrderCancelNotAllowed, response.CodeConflict, "error.order_cancel_not_allowed"},
	{service.ErrReturnNotAllowed, response.CodeConflict, "error.return_not_allowed"},
	{service.ErrReturnWindowExpired, response.CodeConflict, "error.return_window_expired"},
	{service.ErrReturnReasonRequired, response.CodeBadRequest, "error.return_reason_required"},
	{service.ErrReturnReasonTooLong, response.CodeBadRequest, "error.return_reason_too_long"},
	{service.ErrReturnNotFound, response.CodeNotFound, "error.return_not_found"},
	{service.ErrReturnStatusInvalid, response.CodeBadRequest, "error.return_status_invalid"},
	{service.ErrPaymentStatusInvalid, response.CodeBadRequest, "error.payment_status_invalid"},

	{service.ErrInvalidInput, response.CodeBadRequest, "error.bad_request"},
	{service.ErrNotFound, response.CodeNotFound, "error.not_found"},
	{service.ErrForbidden, response.CodeForbidden, "error.forbidden"},
}

// loggedErrorRules 需要保留原始错误日志的映射（外部依赖故障）
var loggedErrorRules = []MappedError{
	{service.ErrPaymentProviderUnavailable, response.CodeInternal, "error.payment_provider_unavailable"},
	{service.ErrPaymentVerifyFailed, response.CodeBadRequest, "error.payment_verify_failed"},
	{service.ErrOrderCreateFailed, response.CodeInternal, "error.order_create_failed"},
	{service.ErrCartFailed, response.CodeInternal, "error.cart_failed"},
}

// RespondServiceError 按映射表返回业务错误，未命中时返回 fallback 并记录原始错误
func RespondServiceError(c *gin.Context, err error, fallbackKey string) {
	var recordErr *service.PaymentRecordError
	if errors.As(err, &recordErr) {
		RespondError(c, response.CodePaymentCapturedNotRecorded, "error.payment_captured_not_recorded", err, recordErr.PaymentRef)
		return
	}
	var declined *service.PaymentDeclinedError
	if errors.As(err, &declined) && declined.Description != "" {
		RespondError(c, response.CodePaymentFailed, "error.payment_failed", nil, declined.Description)
		return
	}
	var keyed keyedError
	if errors.As(err, &keyed) {
		RespondError(c, response.CodeBadRequest, keyed.Key(), nil, keyed.Args()...)
		return
	}
	for _, rule := range loggedErrorRules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, err)
			return
		}
	}
	for _, rule := range ServiceErrorRules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, response.CodeInternal, fallbackKey, err)
}
