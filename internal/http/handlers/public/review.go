package public

import (
	"github.com/SyncShire/E-Commerce/internal/http/handlers/shared"
	"github.com/SyncShire/E-Commerce/internal/http/response"
	"github.com/SyncShire/E-Commerce/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewRequest 提交评价请求
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// GetProductReviews 商品评价列表与评分汇总
func (h *Handler) GetProductReviews(c *gin.Context) {
	page, pageSize := shared.QueryPagination(c)
	reviews, total, err := h.ReviewService.ListForProduct(c.Param("slug"), page, pageSize)
	if err != nil {
		shared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}

// SubmitProductReview 提交或修改自己的评价
func (h *Handler) SubmitProductReview(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	review, err := h.ReviewService.Submit(c.Request.Context(), uid, c.Param("slug"), service.ReviewInput{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	})
	if err != nil {
		shared.RespondServiceError(c, err, "error.review_save_failed")
		return
	}
	response.Success(c, review)
}
