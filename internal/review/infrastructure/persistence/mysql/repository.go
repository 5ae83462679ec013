// Package mysql 提供评价仓储接口的 MySQL GORM 实现。
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/review/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"gorm.io/gorm"
)

type reviewRepository struct{ db *gorm.DB }

// NewReviewRepository 创建评价仓储实例
func NewReviewRepository(db *gorm.DB) domain.ReviewRepository {
	return &reviewRepository{db: db}
}

// Save 实现 domain.ReviewRepository.Save
func (r *reviewRepository) Save(ctx context.Context, review *domain.Review) error {
	if err := r.db.WithContext(ctx).Save(review).Error; err != nil {
		logger.Error(ctx, "review_repository.save failed", "product_id", review.ProductID, "user_id", review.UserID, "error", err)
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// GetByProductAndUser 实现 domain.ReviewRepository.GetByProductAndUser
func (r *reviewRepository) GetByProductAndUser(ctx context.Context, productID, userID uint) (*domain.Review, error) {
	var review domain.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

// ListByProduct 实现 domain.ReviewRepository.ListByProduct
func (r *reviewRepository) ListByProduct(ctx context.Context, productID uint, limit, offset int) ([]*domain.Review, int64, error) {
	db := r.db.WithContext(ctx).Model(&domain.Review{}).Where("product_id = ?", productID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []*domain.Review
	if err := db.Order("created_at desc").Limit(limit).Offset(offset).Find(&reviews).Error; err != nil {
		logger.Error(ctx, "review_repository.list failed", "product_id", productID, "error", err)
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

// Aggregate 实现 domain.ReviewRepository.Aggregate
func (r *reviewRepository) Aggregate(ctx context.Context, productID uint) (domain.RatingSummary, error) {
	var row struct {
		Average decimal.NullDecimal
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Where("product_id = ?", productID).
		Select("AVG(rating) AS average, COUNT(*) AS total").
		Scan(&row).Error
	if err != nil {
		return domain.RatingSummary{AverageRating: decimal.Zero}, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	summary := domain.RatingSummary{AverageRating: decimal.Zero, TotalReviews: int(row.Total)}
	if row.Average.Valid {
		summary.AverageRating = row.Average.Decimal.Round(1)
	}
	return summary, nil
}

// IncrementHelpful 实现 domain.ReviewRepository.IncrementHelpful
func (r *reviewRepository) IncrementHelpful(ctx context.Context, reviewID uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Review{}).
		Where("id = ?", reviewID).
		UpdateColumn("helpful_votes", gorm.Expr("helpful_votes + 1"))
	if result.Error != nil {
		logger.Error(ctx, "review_repository.increment_helpful failed", "review_id", reviewID, "error", result.Error)
		return false, fmt.Errorf("failed to increment helpful votes: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
