package admin

import (
	"strings"

	"github.com/SyncShire/E-Commerce/internal/http/handlers/shared"
	"github.com/SyncShire/E-Commerce/internal/http/response"
	"github.com/SyncShire/E-Commerce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 商品创建/更新请求，金额接受字符串或数字
type ProductRequest struct {
	Name          string           `json:"name" binding:"required"`
	Slug          string           `json:"slug"`
	Description   string           `json:"description"`
	CategoryID    *uint            `json:"category_id"`
	BrandID       *uint            `json:"brand_id"`
	Gender        string           `json:"gender"`
	Price         decimal.Decimal  `json:"price"`
	ComparePrice  *decimal.Decimal `json:"compare_price"`
	StockQuantity int              `json:"stock_quantity"`
	Sizes         []string         `json:"sizes"`
	Images        []string         `json:"images"`
	CODEligible   *bool            `json:"cod_eligible"`
	IsActive      *bool            `json:"is_active"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:          r.Name,
		Slug:          r.Slug,
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		BrandID:       r.BrandID,
		Gender:        r.Gender,
		Price:         r.Price,
		ComparePrice:  r.ComparePrice,
		StockQuantity: r.StockQuantity,
		Sizes:         r.Sizes,
		Images:        r.Images,
		CODEligible:   r.CODEligible,
		IsActive:      r.IsActive,
	}
}

// VariantRequest 规格创建/更新请求
type VariantRequest struct {
	Name          string           `json:"name" binding:"required"`
	SKU           string           `json:"sku"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity int              `json:"stock_quantity"`
	IsActive      *bool            `json:"is_active"`
}

func (r VariantRequest) toInput() service.VariantInput {
	return service.VariantInput{
		Name:          r.Name,
		SKU:           r.SKU,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		IsActive:      r.IsActive,
	}
}

// GetAdminProducts 管理端商品列表（含下架）
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := shared.QueryPagination(c)
	products, total, err := h.ProductService.ListAdmin(strings.TrimSpace(c.Query("search")), page, pageSize)
	if err != nil {
		shared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		shared.RespondServiceError(c, err, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		shared.RespondServiceError(c, err, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// CreateVariant 新增规格
func (h *Handler) CreateVariant(c *gin.Context) {
	productID, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	variant, err := h.ProductService.CreateVariant(productID, req.toInput())
	if err != nil {
		shared.RespondServiceError(c, err, "error.product_save_failed")
		return
	}
	response.Success(c, variant)
}

// UpdateVariant 更新规格
func (h *Handler) UpdateVariant(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	variant, err := h.ProductService.UpdateVariant(id, req.toInput())
	if err != nil {
		shared.RespondServiceError(c, err, "error.product_save_failed")
		return
	}
	response.Success(c, variant)
}
