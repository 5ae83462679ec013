// Package mysql 提供商品目录仓储接口的 MySQL GORM 实现。
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"gorm.io/gorm"
)

type productRepository struct{ db *gorm.DB }

// NewProductRepository 创建商品仓储实例
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

// Save 实现 domain.ProductRepository.Save
func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		logger.Error(ctx, "product_repository.save failed", "product_id", product.ID, "error", err)
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// GetByID 实现 domain.ProductRepository.GetByID
func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "product_repository.get failed", "product_id", id, "error", err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// List 实现 domain.ProductRepository.List
func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter, limit, offset int) ([]*domain.Product, int64, error) {
	db := r.db.WithContext(ctx).Model(&domain.Product{})

	if filter.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if filter.BrandID != 0 {
		db = db.Where("brand_id = ?", filter.BrandID)
	}
	if filter.CategoryID != 0 {
		db = db.Where("category_id = ?", filter.CategoryID)
	}
	if filter.MinPrice != nil {
		db = db.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		db = db.Where("price <= ?", filter.MaxPrice)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	sortBy := filter.SortBy
	switch sortBy {
	case "price", "average_rating", "name", "created_at":
	default:
		sortBy = "created_at"
	}
	order := sortBy + " desc"
	if filter.SortOrder == "asc" {
		order = sortBy + " asc"
	}

	var products []*domain.Product
	if err := db.Order(order).Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		logger.Error(ctx, "product_repository.list failed", "error", err)
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// Delete 实现 domain.ProductRepository.Delete
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Product{}, id).Error; err != nil {
		logger.Error(ctx, "product_repository.delete failed", "product_id", id, "error", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// UpdateRatingStats 实现 domain.ProductRepository.UpdateRatingStats
func (r *productRepository) UpdateRatingStats(ctx context.Context, productID uint, averageRating decimal.Decimal, totalReviews int) error {
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"average_rating": averageRating,
			"total_reviews":  totalReviews,
		}).Error
	if err != nil {
		logger.Error(ctx, "product_repository.update_rating_stats failed", "product_id", productID, "error", err)
		return fmt.Errorf("failed to update rating stats: %w", err)
	}
	return nil
}

// CountActive 实现 domain.ProductRepository.CountActive
func (r *productRepository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count active products: %w", err)
	}
	return total, nil
}

type brandRepository struct{ db *gorm.DB }

// NewBrandRepository 创建品牌仓储实例
func NewBrandRepository(db *gorm.DB) domain.BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Save(ctx context.Context, brand *domain.Brand) error {
	if err := r.db.WithContext(ctx).Save(brand).Error; err != nil {
		return fmt.Errorf("failed to save brand: %w", err)
	}
	return nil
}

func (r *brandRepository) GetByID(ctx context.Context, id uint) (*domain.Brand, error) {
	var brand domain.Brand
	if err := r.db.WithContext(ctx).First(&brand, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	return &brand, nil
}

func (r *brandRepository) ListActive(ctx context.Context) ([]*domain.Brand, error) {
	var brands []*domain.Brand
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

type categoryRepository struct{ db *gorm.DB }

// NewCategoryRepository 创建分类仓储实例
func NewCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Save(ctx context.Context, category *domain.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("display_order asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
