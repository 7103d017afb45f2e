package response

const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

// 结算与支付业务码
const (
	CodePaymentFailed              = 1001
	CodePaymentCancelled           = 1002
	CodePaymentCapturedNotRecorded = 1003
	CodeCheckoutInFlight           = 1004
)
