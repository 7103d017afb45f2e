package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/SyncShire/E-Commerce/internal/http/handlers/shared"
	"github.com/SyncShire/E-Commerce/internal/http/response"
	"github.com/SyncShire/E-Commerce/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 订单状态覆盖请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePaymentStatusRequest 支付状态覆盖请求
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// UpdateReturnRequest 退货处理请求
type UpdateReturnRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// GetAdminOrders 管理端订单列表
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, pageSize := shared.QueryPagination(c)
	filter := repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		OrderNumber:   strings.TrimSpace(c.Query("order_number")),
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		uid, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			shared.RespondError(c, response.CodeBadRequest, "error.id_invalid", nil)
			return
		}
		filter.UserID = uint(uid)
	}
	var ok bool
	if filter.CreatedFrom, ok = parseTimeQuery(c, "created_from"); !ok {
		return
	}
	if filter.CreatedTo, ok = parseTimeQuery(c, "created_to"); !ok {
		return
	}

	orders, total, err := h.OrderService.ListOrdersForAdmin(filter)
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_fetch_failed")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// parseTimeQuery 支持 RFC3339 或 2006-01-02
func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, true
		}
	}
	shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
	return nil, false
}

// GetAdminOrder 管理端订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderForAdmin(id)
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// UpdateAdminOrderStatus 覆盖订单状态
func (h *Handler) UpdateAdminOrderStatus(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderService.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_update_failed")
		return
	}
	shared.RequestLog(c).Infow("admin_order_status_updated", "order_id", id, "status", order.Status, "operator_id", shared.OptionalUserID(c))
	response.Success(c, order)
}

// UpdateAdminPaymentStatus 覆盖支付状态（如货到付款已收款）
func (h *Handler) UpdateAdminPaymentStatus(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderService.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_update_failed")
		return
	}
	shared.RequestLog(c).Infow("admin_payment_status_updated", "order_id", id, "payment_status", order.PaymentStatus, "operator_id", shared.OptionalUserID(c))
	response.Success(c, order)
}

// GetAdminReturns 退货申请列表
func (h *Handler) GetAdminReturns(c *gin.Context) {
	page, pageSize := shared.QueryPagination(c)
	returns, total, err := h.ReturnService.ListReturnsForAdmin(repository.ReturnListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_fetch_failed")
		return
	}
	response.SuccessWithPage(c, returns, response.NewPagination(page, pageSize, total))
}

// UpdateAdminReturn 处理退货申请
func (h *Handler) UpdateAdminReturn(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req UpdateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	row, err := h.ReturnService.UpdateReturnStatus(c.Request.Context(), id, req.Status, req.Note)
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_update_failed")
		return
	}
	response.Success(c, row)
}
