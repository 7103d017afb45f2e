package public

import (
	"strings"

	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/http/handlers/shared"
	"github.com/SyncShire/E-Commerce/internal/http/response"
	"github.com/SyncShire/E-Commerce/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutQuoteRequest 结算试算请求
type CheckoutQuoteRequest struct {
	AddressID       *uint                 `json:"address_id"`
	ShippingAddress *service.AddressInput `json:"shipping_address"`
	SaveAddress     bool                  `json:"save_address"`
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	PaymentMethod   string                `json:"payment_method" binding:"required"`
	AddressID       *uint                 `json:"address_id"`
	ShippingAddress *service.AddressInput `json:"shipping_address"`
	BillingAddress  *service.AddressInput `json:"billing_address"`
	SaveAddress     bool                  `json:"save_address"`
	IdempotencyKey  string                `json:"idempotency_key"`
}

// ReconcilePaymentRequest 支付组件回传请求
type ReconcilePaymentRequest struct {
	Outcome          string `json:"outcome" binding:"required"`
	PaymentRef       string `json:"payment_ref"`
	ErrorDescription string `json:"error_description"`
}

// ReturnRequestPayload 退货申请请求
type ReturnRequestPayload struct {
	Reason string `json:"reason"`
}

// QuoteCheckout 结算试算，不落库
func (h *Handler) QuoteCheckout(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req CheckoutQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	quote, err := h.CheckoutService.Quote(c.Request.Context(), uid, service.QuoteInput{
		AddressID:       req.AddressID,
		ShippingAddress: req.ShippingAddress,
		SaveAddress:     req.SaveAddress,
	})
	if err != nil {
		shared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, quote)
}

// PlaceOrder 下单；幂等键优先取请求头
func (h *Handler) PlaceOrder(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	idempotencyKey := strings.TrimSpace(c.GetHeader(constants.HeaderIdempotencyKey))
	if idempotencyKey == "" {
		idempotencyKey = req.IdempotencyKey
	}

	result, err := h.PaymentService.PlaceOrder(c.Request.Context(), uid, service.PlaceOrderInput{
		PaymentMethod:   req.PaymentMethod,
		AddressID:       req.AddressID,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		SaveAddress:     req.SaveAddress,
		IdempotencyKey:  idempotencyKey,
	})
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_create_failed")
		return
	}
	response.Success(c, result)
}

// ReconcilePayment 回传支付组件结果并对账
func (h *Handler) ReconcilePayment(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req ReconcilePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.PaymentService.Reconcile(c.Request.Context(), uid, c.Param("order_no"), service.ReconcileInput{
		Outcome:          req.Outcome,
		PaymentRef:       req.PaymentRef,
		ErrorDescription: req.ErrorDescription,
	})
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}

// ListOrders 我的订单
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.QueryPagination(c)
	orders, total, err := h.OrderService.ListOrdersByUser(uid, page, pageSize)
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_fetch_failed")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 订单详情，他人订单按不存在处理
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderByUser(uid, c.Param("order_no"))
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.CancelOrder(c.Request.Context(), uid, c.Param("order_no"))
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}

// RequestReturn 申请退货
func (h *Handler) RequestReturn(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req ReturnRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	returnRequest, err := h.OrderService.RequestReturn(c.Request.Context(), uid, c.Param("order_no"), req.Reason)
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_update_failed")
		return
	}
	response.Success(c, returnRequest)
}
