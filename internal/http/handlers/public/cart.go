package public

import (
	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/http/handlers/shared"
	"github.com/SyncShire/E-Commerce/internal/http/response"
	"github.com/SyncShire/E-Commerce/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加购请求
type CartItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	VariantID *uint  `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// resolveIdentity 登录用户优先，否则使用匿名令牌；匿名时回写令牌头
func (h *Handler) resolveIdentity(c *gin.Context) service.Identity {
	identity, issued := h.SessionService.Resolve(
		c.Request.Context(),
		shared.OptionalUserID(c),
		c.GetHeader(constants.HeaderSessionToken),
	)
	if !identity.IsUser() {
		c.Header(constants.HeaderSessionToken, identity.Token)
		if issued {
			shared.RequestLog(c).Debugw("anonymous_session_issued")
		}
	}
	return identity
}

// GetCart 读取购物车，存储异常时返回空车
func (h *Handler) GetCart(c *gin.Context) {
	identity := h.resolveIdentity(c)
	response.Success(c, h.CartService.Snapshot(c.Request.Context(), identity))
}

// AddCartItem 加入购物车，相同商品规格尺码合并数量
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	identity := h.resolveIdentity(c)

	snapshot, err := h.CartService.AddToCart(c.Request.Context(), identity, service.AddCartItemInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		Size:      req.Size,
	})
	if err != nil {
		shared.RespondServiceError(c, err, "error.cart_failed")
		return
	}
	response.Success(c, snapshot)
}

// UpdateCartItem 修改购物车行数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	lineID, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	identity := h.resolveIdentity(c)

	snapshot, err := h.CartService.UpdateQuantity(c.Request.Context(), identity, lineID, req.Quantity)
	if err != nil {
		shared.RespondServiceError(c, err, "error.cart_failed")
		return
	}
	response.Success(c, snapshot)
}

// DeleteCartItem 删除购物车行
func (h *Handler) DeleteCartItem(c *gin.Context) {
	lineID, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	identity := h.resolveIdentity(c)

	snapshot, err := h.CartService.RemoveFromCart(c.Request.Context(), identity, lineID)
	if err != nil {
		shared.RespondServiceError(c, err, "error.cart_failed")
		return
	}
	response.Success(c, snapshot)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	identity := h.resolveIdentity(c)
	if err := h.CartService.ClearCart(c.Request.Context(), identity); err != nil {
		shared.RespondServiceError(c, err, "error.cart_failed")
		return
	}
	response.Success(c, service.CartSnapshot{Items: []service.CartLineDetail{}})
}
