package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	reviewTitleMaxLen   = 200
	reviewCommentMaxLen = 2000
)

// ReviewService 商品评价
type ReviewService struct {
	repo        repository.ReviewRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewReviewService 创建评价服务
func NewReviewService(repo repository.ReviewRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository) *ReviewService {
	return &ReviewService{repo: repo, productRepo: productRepo, userRepo: userRepo}
}

// ReviewInput 提交评价输入
type ReviewInput struct {
	Rating  int
	Title   string
	Comment string
}

// ProductReviews 商品评价页
type ProductReviews struct {
	Summary ProductRatingSummary `json:"summary"`
	Items   []models.Review      `json:"items"`
}

// ProductRatingSummary 平均分保留一位小数
type ProductRatingSummary struct {
	Count   int64  `json:"count"`
	Average string `json:"average"`
}

// ListForProduct 公开商品的评价，最新在前
func (s *ReviewService) ListForProduct(slug string, page, pageSize int) (*ProductReviews, int64, error) {
	product, err := s.productRepo.GetBySlug(strings.TrimSpace(slug), true)
	if err != nil {
		return nil, 0, wrapStore(err)
	}
	if product == nil {
		return nil, 0, ErrProductNotFound
	}
	items, total, err := s.repo.ListByProduct(product.ID, page, pageSize)
	if err != nil {
		return nil, 0, wrapStore(err)
	}
	summary, err := s.repo.Summary(product.ID)
	if err != nil {
		return nil, 0, wrapStore(err)
	}
	return &ProductReviews{
		Summary: ProductRatingSummary{
			Count:   summary.Count,
			Average: decimal.NewFromFloat(summary.Average).StringFixed(1),
		},
		Items: items,
	}, total, nil
}

// Submit 提交或修改评价，需有已送达的购买记录
func (s *ReviewService) Submit(ctx context.Context, userID uint, slug string, input ReviewInput) (*models.Review, error) {
	input.Title = sanitizeText(input.Title)
	input.Comment = sanitizeText(input.Comment)
	if input.Rating < 1 || input.Rating > 5 ||
		utf8.RuneCountInString(input.Title) > reviewTitleMaxLen ||
		utf8.RuneCountInString(input.Comment) > reviewCommentMaxLen {
		return nil, ErrReviewInvalid
	}

	product, err := s.productRepo.GetBySlug(strings.TrimSpace(slug), true)
	if err != nil {
		return nil, wrapStore(err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	purchased, err := s.repo.HasPurchased(userID, product.ID)
	if err != nil {
		return nil, wrapStore(err)
	}
	if !purchased {
		return nil, ErrReviewNotAllowed
	}

	review, err := s.repo.GetByUserProduct(userID, product.ID)
	if err != nil {
		return nil, wrapStore(err)
	}
	isNew := review == nil
	if isNew {
		review = &models.Review{ProductID: product.ID, UserID: userID}
		if user, err := s.userRepo.GetByID(userID); err == nil && user != nil {
			review.AuthorName = user.FullName
		}
	}
	review.Rating = input.Rating
	review.Title = input.Title
	review.Comment = input.Comment

	if isNew {
		err = s.repo.Create(review)
	} else {
		err = s.repo.Update(review)
	}
	if err != nil {
		return nil, wrapStore(err)
	}
	logger.Ctx(ctx).Infow("product_review_saved", "product_id", product.ID, "user_id", userID, "rating", review.Rating, "created", isNew)
	return review, nil
}
