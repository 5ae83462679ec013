// Package application 实现商品评价模块的应用服务。
package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/review/domain"
	"github.com/wyfcoding/storefront/pkg/errs"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/utils"
)

// ProductChecker 商品存在性校验端口，由商品目录模块提供适配实现。
type ProductChecker interface {
	ProductExists(ctx context.Context, productID uint) (bool, error)
}

// PurchaseChecker 已验证购买判断端口，返回已送达订单 ID，无购买记录时为 0。
type PurchaseChecker interface {
	DeliveredOrderID(ctx context.Context, userID, productID uint) (uint, error)
}

// RatingUpdater 将评分汇总回写到商品的端口，由商品目录仓储实现。
type RatingUpdater interface {
	UpdateRatingStats(ctx context.Context, productID uint, averageRating decimal.Decimal, totalReviews int) error
}

// CreateReviewRequest 创建评价请求
type CreateReviewRequest struct {
	ProductID uint     `json:"product_id" binding:"required"`
	Rating    int      `json:"rating" binding:"required"`
	Title     string   `json:"title"`
	Comment   string   `json:"comment"`
	Images    []string `json:"images"`
}

// ReviewListResult 评价列表查询结果
type ReviewListResult struct {
	Reviews    []*domain.Review     `json:"reviews"`
	Summary    domain.RatingSummary `json:"summary"`
	Pagination *utils.Pagination    `json:"pagination"`
}

// Service 评价应用服务
type Service struct {
	reviews   domain.ReviewRepository
	products  ProductChecker
	purchases PurchaseChecker
	ratings   RatingUpdater
	metrics   *metrics.Metrics
}

// NewService 创建评价应用服务实例。metrics 可为 nil。
func NewService(
	reviews domain.ReviewRepository,
	products ProductChecker,
	purchases PurchaseChecker,
	ratings RatingUpdater,
	m *metrics.Metrics,
) *Service {
	return &Service{
		reviews:   reviews,
		products:  products,
		purchases: purchases,
		ratings:   ratings,
		metrics:   m,
	}
}

// Create 创建评价并重算商品评分汇总。
// 评分汇总回写失败不回滚评价本身，仅记录告警，下次评价时会被重新覆盖。
func (s *Service) Create(ctx context.Context, userID uint, userName string, req *CreateReviewRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errs.InvalidArgument("rating must be between 1 and 5")
	}

	exists, err := s.products.ProductExists(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NotFound("product not found")
	}

	existing, err := s.reviews.GetByProductAndUser(ctx, req.ProductID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.New(errs.CodeConflict, "product already reviewed")
	}

	orderID, err := s.purchases.DeliveredOrderID(ctx, userID, req.ProductID)
	if err != nil {
		logger.Warn(ctx, "purchase check failed", "user_id", userID, "product_id", req.ProductID, "error", err)
		orderID = 0
	}

	review := &domain.Review{
		ProductID:          req.ProductID,
		UserID:             userID,
		UserName:           userName,
		Rating:             req.Rating,
		Title:              req.Title,
		Comment:            req.Comment,
		Images:             req.Images,
		IsVerifiedPurchase: orderID != 0,
	}
	if orderID != 0 {
		review.OrderID = &orderID
	}
	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}

	summary, err := s.reviews.Aggregate(ctx, req.ProductID)
	if err != nil {
		logger.Warn(ctx, "rating aggregation failed", "product_id", req.ProductID, "error", err)
	} else if err := s.ratings.UpdateRatingStats(ctx, req.ProductID, summary.AverageRating, summary.TotalReviews); err != nil {
		logger.Warn(ctx, "rating stats update failed", "product_id", req.ProductID, "error", err)
	}

	if s.metrics != nil {
		s.metrics.ReviewsTotal.Inc()
	}
	logger.Info(ctx, "review created", "product_id", req.ProductID, "user_id", userID, "rating", req.Rating)
	return review, nil
}

// MarkHelpful 将评价的有用票数加一。
func (s *Service) MarkHelpful(ctx context.Context, reviewID uint) error {
	ok, err := s.reviews.IncrementHelpful(ctx, reviewID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NotFound("review not found")
	}
	return nil
}

// ListByProduct 分页列出商品评价及评分汇总。
func (s *Service) ListByProduct(ctx context.Context, productID uint, page, pageSize int) (*ReviewListResult, error) {
	pagination := utils.NewPagination(page, pageSize, 0)
	reviews, total, err := s.reviews.ListByProduct(ctx, productID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, err
	}
	summary, err := s.reviews.Aggregate(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ReviewListResult{
		Reviews:    reviews,
		Summary:    summary,
		Pagination: utils.NewPagination(page, pageSize, total),
	}, nil
}
