package admin

import (
	"github.com/SyncShire/E-Commerce/internal/http/handlers/shared"
	"github.com/SyncShire/E-Commerce/internal/http/response"
	"github.com/SyncShire/E-Commerce/internal/service"

	"github.com/gin-gonic/gin"
)

// TaxonomyRequest 分类/品牌创建与更新请求，slug 为空时由名称生成
type TaxonomyRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Logo        string `json:"logo"`
	SortOrder   int    `json:"sort_order"`
}

func (r TaxonomyRequest) toInput() service.TaxonomyInput {
	image := r.Image
	if image == "" {
		image = r.Logo
	}
	return service.TaxonomyInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Image:       image,
		SortOrder:   r.SortOrder,
	}
}

// GetAdminCategories 分类列表
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CatalogService.ListCategories()
	if err != nil {
		shared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CatalogService.CreateCategory(req.toInput())
	if err != nil {
		shared.RespondServiceError(c, err, "error.category_save_failed")
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CatalogService.UpdateCategory(id, req.toInput())
	if err != nil {
		shared.RespondServiceError(c, err, "error.category_save_failed")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteCategory(id); err != nil {
		shared.RespondServiceError(c, err, "error.category_delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetAdminBrands 品牌列表
func (h *Handler) GetAdminBrands(c *gin.Context) {
	brands, err := h.CatalogService.ListBrands()
	if err != nil {
		shared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, brands)
}

// CreateBrand 创建品牌
func (h *Handler) CreateBrand(c *gin.Context) {
	var req TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	brand, err := h.CatalogService.CreateBrand(req.toInput())
	if err != nil {
		shared.RespondServiceError(c, err, "error.brand_save_failed")
		return
	}
	response.Success(c, brand)
}

// UpdateBrand 更新品牌
func (h *Handler) UpdateBrand(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	brand, err := h.CatalogService.UpdateBrand(id, req.toInput())
	if err != nil {
		shared.RespondServiceError(c, err, "error.brand_save_failed")
		return
	}
	response.Success(c, brand)
}

// DeleteBrand 删除品牌
func (h *Handler) DeleteBrand(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteBrand(id); err != nil {
		shared.RespondServiceError(c, err, "error.brand_delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
