package public

import (
	"strings"

	"github.com/SyncShire/E-Commerce/internal/http/handlers/shared"
	"github.com/SyncShire/E-Commerce/internal/http/response"
	"github.com/SyncShire/E-Commerce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status": "ok",
		"name":   h.Config.App.Name,
	})
}

// GetProducts 公开商品列表，支持分类/品牌/人群/价格筛选与排序
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := shared.QueryPagination(c)
	query := service.ProductQuery{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: c.Query("category"),
		Brands:   splitQuery(c, "brand"),
		Genders:  splitQuery(c, "gender"),
		Sort:     c.Query("sort"),
		Page:     page,
		PageSize: pageSize,
	}
	var ok bool
	if query.MinPrice, ok = parseDecimalQuery(c, "min_price"); !ok {
		return
	}
	if query.MaxPrice, ok = parseDecimalQuery(c, "max_price"); !ok {
		return
	}

	products, total, err := h.ProductService.ListPublic(query)
	if err != nil {
		shared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// splitQuery 支持 ?brand=a&brand=b 与 ?brand=a,b
func splitQuery(c *gin.Context, name string) []string {
	var values []string
	for _, raw := range c.QueryArray(name) {
		values = append(values, strings.Split(raw, ",")...)
	}
	return values
}

func parseDecimalQuery(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return nil, false
	}
	return &value, true
}

// GetProductBySlug 公开商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	product, err := h.ProductService.GetPublicBySlug(c.Param("slug"))
	if err != nil {
		shared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, product)
}

// GetCategories 公开分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CatalogService.ListCategories()
	if err != nil {
		shared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, categories)
}

// GetBrands 公开品牌列表
func (h *Handler) GetBrands(c *gin.Context) {
	brands, err := h.CatalogService.ListBrands()
	if err != nil {
		shared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, brands)
}
