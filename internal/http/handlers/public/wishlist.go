package public

import (
	"github.com/SyncShire/E-Commerce/internal/http/handlers/shared"
	"github.com/SyncShire/E-Commerce/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListWishlist 当前用户心愿单
func (h *Handler) ListWishlist(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	items, err := h.WishlistService.List(c.Request.Context(), uid)
	if err != nil {
		shared.RespondServiceError(c, err, "error.wishlist_failed")
		return
	}
	response.Success(c, items)
}

// AddWishlistItem 加入心愿单
func (h *Handler) AddWishlistItem(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	productID, ok := shared.ParamUint(c, "product_id")
	if !ok {
		return
	}
	if err := h.WishlistService.Add(c.Request.Context(), uid, productID); err != nil {
		shared.RespondServiceError(c, err, "error.wishlist_failed")
		return
	}
	response.Success(c, gin.H{"product_id": productID, "in_wishlist": true})
}

// RemoveWishlistItem 移出心愿单
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	productID, ok := shared.ParamUint(c, "product_id")
	if !ok {
		return
	}
	if err := h.WishlistService.Remove(c.Request.Context(), uid, productID); err != nil {
		shared.RespondServiceError(c, err, "error.wishlist_failed")
		return
	}
	response.Success(c, gin.H{"product_id": productID, "in_wishlist": false})
}
