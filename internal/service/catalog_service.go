package service

import (
	"regexp"
	"strings"

	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/repository"
)

var (
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugIllegal = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
)

// CatalogService 分类与品牌维护
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
}

// NewCatalogService 创建分类品牌服务
func NewCatalogService(categoryRepo repository.CategoryRepository, brandRepo repository.BrandRepository) *CatalogService {
	return &CatalogService{categoryRepo: categoryRepo, brandRepo: brandRepo}
}

// TaxonomyInput 创建/更新分类或品牌输入，Image 对品牌即 Logo
type TaxonomyInput struct {
	Name        string
	Slug        string
	Description string
	Image       string
	SortOrder   int
}

// deriveSlug 未指定 slug 时由名称生成
func deriveSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugIllegal.ReplaceAllString(slug, "")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func normalizeTaxonomyInput(input TaxonomyInput) (TaxonomyInput, bool) {
	input.Name = sanitizeText(input.Name)
	input.Description = sanitizeText(input.Description)
	input.Image = strings.TrimSpace(input.Image)
	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	if input.Slug == "" {
		input.Slug = deriveSlug(input.Name)
	}
	if input.Name == "" || !slugPattern.MatchString(input.Slug) {
		return TaxonomyInput{}, false
	}
	return input, true
}

// ListCategories 分类列表
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, wrapStore(err)
	}
	return categories, nil
}

// CreateCategory 创建分类
func (s *CatalogService) CreateCategory(input TaxonomyInput) (*models.Category, error) {
	input, ok := normalizeTaxonomyInput(input)
	if !ok {
		return nil, ErrCategoryInvalid
	}
	count, err := s.categoryRepo.CountBySlug(input.Slug, 0)
	if err != nil {
		return nil, wrapStore(err)
	}
	if count > 0 {
		return nil, ErrSlugExists
	}
	category := models.Category{}
	applyCategoryInput(&category, input)
	if err := s.categoryRepo.Create(&category); err != nil {
		return nil, wrapStore(err)
	}
	return &category, nil
}

// UpdateCategory 更新分类
func (s *CatalogService) UpdateCategory(id uint, input TaxonomyInput) (*models.Category, error) {
	input, ok := normalizeTaxonomyInput(input)
	if !ok {
		return nil, ErrCategoryInvalid
	}
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, wrapStore(err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	count, err := s.categoryRepo.CountBySlug(input.Slug, id)
	if err != nil {
		return nil, wrapStore(err)
	}
	if count > 0 {
		return nil, ErrSlugExists
	}
	applyCategoryInput(category, input)
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, wrapStore(err)
	}
	return category, nil
}

// DeleteCategory 删除分类，仍有商品引用时拒绝
func (s *CatalogService) DeleteCategory(id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return wrapStore(err)
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return wrapStore(err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return wrapStore(s.categoryRepo.Delete(id))
}

func applyCategoryInput(category *models.Category, input TaxonomyInput) {
	category.Name = input.Name
	category.Slug = input.Slug
	category.Description = input.Description
	category.Image = input.Image
	category.SortOrder = input.SortOrder
}

// ListBrands 品牌列表
func (s *CatalogService) ListBrands() ([]models.Brand, error) {
	brands, err := s.brandRepo.List()
	if err != nil {
		return nil, wrapStore(err)
	}
	return brands, nil
}

// CreateBrand 创建品牌
func (s *CatalogService) CreateBrand(input TaxonomyInput) (*models.Brand, error) {
	input, ok := normalizeTaxonomyInput(input)
	if !ok {
		return nil, ErrBrandInvalid
	}
	count, err := s.brandRepo.CountBySlug(input.Slug, 0)
	if err != nil {
		return nil, wrapStore(err)
	}
	if count > 0 {
		return nil, ErrSlugExists
	}
	brand := models.Brand{}
	applyBrandInput(&brand, input)
	if err := s.brandRepo.Create(&brand); err != nil {
		return nil, wrapStore(err)
	}
	return &brand, nil
}

// UpdateBrand 更新品牌
func (s *CatalogService) UpdateBrand(id uint, input TaxonomyInput) (*models.Brand, error) {
	input, ok := normalizeTaxonomyInput(input)
	if !ok {
		return nil, ErrBrandInvalid
	}
	brand, err := s.brandRepo.GetByID(id)
	if err != nil {
		return nil, wrapStore(err)
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}
	count, err := s.brandRepo.CountBySlug(input.Slug, id)
	if err != nil {
		return nil, wrapStore(err)
	}
	if count > 0 {
		return nil, ErrSlugExists
	}
	applyBrandInput(brand, input)
	if err := s.brandRepo.Update(brand); err != nil {
		return nil, wrapStore(err)
	}
	return brand, nil
}

// DeleteBrand 删除品牌，仍有商品引用时拒绝
func (s *CatalogService) DeleteBrand(id uint) error {
	brand, err := s.brandRepo.GetByID(id)
	if err != nil {
		return wrapStore(err)
	}
	if brand == nil {
		return ErrBrandNotFound
	}
	count, err := s.brandRepo.CountProducts(id)
	if err != nil {
		return wrapStore(err)
	}
	if count > 0 {
		return ErrBrandInUse
	}
	return wrapStore(s.brandRepo.Delete(id))
}

func applyBrandInput(brand *models.Brand, input TaxonomyInput) {
	brand.Name = input.Name
	brand.Slug = input.Slug
	brand.Description = input.Description
	brand.Logo = input.Image
	brand.SortOrder = input.SortOrder
}

// categoryExists 商品引用校验
func (s *CatalogService) categoryExists(id uint) (bool, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return false, wrapStore(err)
	}
	return category != nil, nil
}

func (s *CatalogService) brandExists(id uint) (bool, error) {
	brand, err := s.brandRepo.GetByID(id)
	if err != nil {
		return false, wrapStore(err)
	}
	return brand != nil, nil
}
