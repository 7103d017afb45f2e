package service

import (
	"regexp"
	"strings"

	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/repository"

	"github.com/shopspring/decimal"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// 适用人群取值
var productGenders = map[string]struct{}{
	"men":    {},
	"women":  {},
	"unisex": {},
}

// ProductService 商品业务服务
type ProductService struct {
	repo    repository.ProductRepository
	catalog *CatalogService
}

// NewProductService 创建商品服务，catalog 用于校验分类与品牌引用
func NewProductService(repo repository.ProductRepository, catalog *CatalogService) *ProductService {
	return &ProductService{repo: repo, catalog: catalog}
}

// ProductQuery 前台商品列表筛选
type ProductQuery struct {
	Search   string
	Category string
	Brands   []string
	Genders  []string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
	Page     int
	PageSize int
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	Name          string
	Slug          string
	Description   string
	CategoryID    *uint
	BrandID       *uint
	Gender        string
	Price         decimal.Decimal
	ComparePrice  *decimal.Decimal
	StockQuantity int
	Sizes         []string
	Images        []string
	CODEligible   *bool
	IsActive      *bool
}

// VariantInput 创建/更新规格输入
type VariantInput struct {
	Name          string
	SKU           string
	Price         *decimal.Decimal
	StockQuantity int
	IsActive      *bool
}

// ListPublic 获取公开商品列表，只含上架且有库存的商品
func (s *ProductService) ListPublic(query ProductQuery) ([]models.Product, int64, error) {
	filter, err := buildProductFilter(query)
	if err != nil {
		return nil, 0, err
	}
	filter.OnlyActive = true
	filter.InStockOnly = true
	products, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, wrapStore(err)
	}
	return products, total, nil
}

func buildProductFilter(query ProductQuery) (repository.ProductListFilter, error) {
	filter := repository.ProductListFilter{
		Page:         query.Page,
		PageSize:     query.PageSize,
		Search:       strings.TrimSpace(query.Search),
		CategorySlug: strings.ToLower(strings.TrimSpace(query.Category)),
		BrandSlugs:   normalizeList(query.Brands),
		MinPrice:     query.MinPrice,
		MaxPrice:     query.MaxPrice,
	}
	for _, gender := range normalizeList(query.Genders) {
		if _, ok := productGenders[gender]; !ok {
			return repository.ProductListFilter{}, ErrProductQueryInvalid
		}
		filter.Genders = append(filter.Genders, gender)
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MaxPrice.LessThan(*filter.MinPrice) {
		return repository.ProductListFilter{}, ErrProductQueryInvalid
	}
	switch sort := strings.ToLower(strings.TrimSpace(query.Sort)); sort {
	case "", repository.ProductSortNewest:
		filter.Sort = repository.ProductSortNewest
	case repository.ProductSortPriceAsc, repository.ProductSortPriceDesc, repository.ProductSortName:
		filter.Sort = sort
	default:
		return repository.ProductListFilter{}, ErrProductQueryInvalid
	}
	return filter, nil
}

// normalizeList 小写去重，丢弃空值
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// GetPublicBySlug 获取公开商品详情
func (s *ProductService) GetPublicBySlug(slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(strings.TrimSpace(slug), true)
	if err != nil {
		return nil, wrapStore(err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListAdmin 获取后台商品列表
func (s *ProductService) ListAdmin(search string, page, pageSize int) ([]models.Product, int64, error) {
	products, total, err := s.repo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(search),
	})
	if err != nil {
		return nil, 0, wrapStore(err)
	}
	return products, total, nil
}

// GetAdminByID 获取后台商品详情
func (s *ProductService) GetAdminByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, wrapStore(err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func normalizeProductInput(input ProductInput) (ProductInput, error) {
	input.Name = sanitizeText(input.Name)
	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	input.Description = sanitizeText(input.Description)
	input.Gender = strings.ToLower(strings.TrimSpace(input.Gender))
	if input.Name == "" || !slugPattern.MatchString(input.Slug) {
		return ProductInput{}, ErrProductInvalid
	}
	if _, ok := productGenders[input.Gender]; input.Gender != "" && !ok {
		return ProductInput{}, ErrProductInvalid
	}
	if input.Price.LessThan(decimal.Zero) || input.StockQuantity < 0 {
		return ProductInput{}, ErrProductInvalid
	}
	if input.ComparePrice != nil && input.ComparePrice.LessThan(decimal.Zero) {
		return ProductInput{}, ErrProductInvalid
	}
	sizes := make([]string, 0, len(input.Sizes))
	seen := make(map[string]struct{}, len(input.Sizes))
	for _, size := range input.Sizes {
		size = strings.TrimSpace(size)
		if size == "" {
			continue
		}
		if _, ok := seen[size]; ok {
			continue
		}
		seen[size] = struct{}{}
		sizes = append(sizes, size)
	}
	input.Sizes = sizes
	return input, nil
}

func applyProductInput(product *models.Product, input ProductInput) {
	product.Name = input.Name
	product.Slug = input.Slug
	product.Description = input.Description
	product.CategoryID = input.CategoryID
	product.BrandID = input.BrandID
	product.Gender = input.Gender
	product.Price = models.NewMoneyFromDecimal(input.Price)
	product.ComparePrice = nil
	if input.ComparePrice != nil {
		compare := models.NewMoneyFromDecimal(*input.ComparePrice)
		product.ComparePrice = &compare
	}
	product.StockQuantity = input.StockQuantity
	product.Sizes = models.StringArray(input.Sizes)
	product.Images = models.StringArray(input.Images)
	if input.CODEligible != nil {
		product.CODEligible = *input.CODEligible
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	input, err := normalizeProductInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.checkTaxonomy(input); err != nil {
		return nil, err
	}
	count, err := s.repo.CountBySlug(input.Slug, 0)
	if err != nil {
		return nil, wrapStore(err)
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	product := models.Product{CODEligible: true, IsActive: true}
	applyProductInput(&product, input)
	if err := s.repo.Create(&product); err != nil {
		return nil, wrapStore(err)
	}
	return &product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	input, err := normalizeProductInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.checkTaxonomy(input); err != nil {
		return nil, err
	}
	product, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountBySlug(input.Slug, product.ID)
	if err != nil {
		return nil, wrapStore(err)
	}
	if count > 0 {
		return nil, ErrSlugExists
	}
	applyProductInput(product, input)
	if err := s.repo.Update(product); err != nil {
		return nil, wrapStore(err)
	}
	// 关联对象随外键刷新
	return s.GetAdminByID(product.ID)
}

func (s *ProductService) checkTaxonomy(input ProductInput) error {
	if s.catalog == nil {
		return nil
	}
	if input.CategoryID != nil {
		ok, err := s.catalog.categoryExists(*input.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCategoryNotFound
		}
	}
	if input.BrandID != nil {
		ok, err := s.catalog.brandExists(*input.BrandID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBrandNotFound
		}
	}
	return nil
}

func normalizeVariantInput(input VariantInput) (VariantInput, error) {
	input.Name = sanitizeText(input.Name)
	input.SKU = strings.TrimSpace(input.SKU)
	if input.Name == "" || input.StockQuantity < 0 {
		return VariantInput{}, ErrProductInvalid
	}
	if input.Price != nil && input.Price.LessThan(decimal.Zero) {
		return VariantInput{}, ErrProductInvalid
	}
	return input, nil
}

func applyVariantInput(variant *models.ProductVariant, input VariantInput) {
	variant.Name = input.Name
	variant.SKU = input.SKU
	variant.StockQuantity = input.StockQuantity
	variant.Price = nil
	if input.Price != nil {
		price := models.NewMoneyFromDecimal(*input.Price)
		variant.Price = &price
	}
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}
}

// CreateVariant 为商品新增规格
func (s *ProductService) CreateVariant(productID uint, input VariantInput) (*models.ProductVariant, error) {
	input, err := normalizeVariantInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetAdminByID(productID); err != nil {
		return nil, err
	}
	variant := models.ProductVariant{ProductID: productID, IsActive: true}
	applyVariantInput(&variant, input)
	if err := s.repo.CreateVariant(&variant); err != nil {
		return nil, wrapStore(err)
	}
	return &variant, nil
}

// UpdateVariant 更新规格
func (s *ProductService) UpdateVariant(id uint, input VariantInput) (*models.ProductVariant, error) {
	input, err := normalizeVariantInput(input)
	if err != nil {
		return nil, err
	}
	variant, err := s.repo.GetVariant(id)
	if err != nil {
		return nil, wrapStore(err)
	}
	if variant == nil {
		return nil, ErrVariantInvalid
	}
	applyVariantInput(variant, input)
	if err := s.repo.UpdateVariant(variant); err != nil {
		return nil, wrapStore(err)
	}
	return variant, nil
}
