package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/errs"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/utils"
)

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Name              string          `json:"name" binding:"required"`
	Description       string          `json:"description" binding:"required"`
	ShortDescription  string          `json:"short_description"`
	BrandID           uint            `json:"brand_id" binding:"required"`
	CategoryID        uint            `json:"category_id" binding:"required"`
	SKU               string          `json:"sku" binding:"required"`
	Price             decimal.Decimal `json:"price" binding:"required"`
	ComparePrice      decimal.Decimal `json:"compare_price"`
	Images            []string        `json:"images"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	IsFeatured        bool            `json:"is_featured"`
	Tags              []string        `json:"tags"`
}

// UpdateProductRequest 更新商品请求；指针字段区分"未提供"与"置零"。
type UpdateProductRequest struct {
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	ShortDescription *string          `json:"short_description"`
	BrandID          *uint            `json:"brand_id"`
	CategoryID       *uint            `json:"category_id"`
	Price            *decimal.Decimal `json:"price"`
	ComparePrice     *decimal.Decimal `json:"compare_price"`
	Images           []string         `json:"images"`
	StockQuantity    *int             `json:"stock_quantity"`
	IsActive         *bool            `json:"is_active"`
	IsFeatured       *bool            `json:"is_featured"`
	Tags             []string         `json:"tags"`
}

// CommandService 商品目录命令服务，处理所有写操作。
type CommandService struct {
	products   domain.ProductRepository
	brands     domain.BrandRepository
	categories domain.CategoryRepository
	publisher  domain.EventPublisher
}

// NewCommandService 创建目录命令服务实例
func NewCommandService(
	products domain.ProductRepository,
	brands domain.BrandRepository,
	categories domain.CategoryRepository,
	publisher domain.EventPublisher,
) *CommandService {
	return &CommandService{
		products:   products,
		brands:     brands,
		categories: categories,
		publisher:  publisher,
	}
}

// CreateProduct 创建商品。slug 由名称生成。
func (s *CommandService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*domain.Product, error) {
	if req.Price.IsNegative() || req.Price.IsZero() {
		return nil, errs.InvalidArgument("price must be positive")
	}
	if req.StockQuantity < 0 {
		return nil, errs.InvalidArgument("stock quantity cannot be negative")
	}

	brand, err := s.brands.GetByID(ctx, req.BrandID)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, errs.NotFound("brand not found")
	}
	category, err := s.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errs.NotFound("category not found")
	}

	product := &domain.Product{
		Name:              req.Name,
		Slug:              utils.Slugify(req.Name),
		Description:       req.Description,
		ShortDescription:  req.ShortDescription,
		BrandID:           req.BrandID,
		CategoryID:        req.CategoryID,
		SKU:               req.SKU,
		Price:             req.Price,
		ComparePrice:      req.ComparePrice,
		Images:            req.Images,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		IsActive:          true,
		IsFeatured:        req.IsFeatured,
		AverageRating:     decimal.Zero,
		Tags:              req.Tags,
	}
	if product.LowStockThreshold == 0 {
		product.LowStockThreshold = 10
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.ProductCreatedEventType, fmt.Sprintf("%d", product.ID), &domain.ProductCreatedEvent{
		ProductID: product.ID,
		Name:      product.Name,
		SKU:       product.SKU,
		Price:     product.Price,
		Timestamp: time.Now(),
	})

	logger.Info(ctx, "product created", "product_id", product.ID, "sku", product.SKU)
	return product, nil
}

// UpdateProduct 更新商品的部分字段。
func (s *CommandService) UpdateProduct(ctx context.Context, productID uint, req *UpdateProductRequest) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errs.NotFound("product not found")
	}

	if req.Name != nil {
		product.Name = *req.Name
		product.Slug = utils.Slugify(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ShortDescription != nil {
		product.ShortDescription = *req.ShortDescription
	}
	if req.BrandID != nil {
		product.BrandID = *req.BrandID
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Price != nil {
		if req.Price.IsNegative() || req.Price.IsZero() {
			return nil, errs.InvalidArgument("price must be positive")
		}
		product.Price = *req.Price
	}
	if req.ComparePrice != nil {
		product.ComparePrice = *req.ComparePrice
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, errs.InvalidArgument("stock quantity cannot be negative")
		}
		product.StockQuantity = *req.StockQuantity
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.ProductUpdatedEventType, fmt.Sprintf("%d", product.ID), product)

	logger.Info(ctx, "product updated", "product_id", product.ID)
	return product, nil
}

// DeleteProduct 删除商品（软删除）。
func (s *CommandService) DeleteProduct(ctx context.Context, productID uint) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return errs.NotFound("product not found")
	}
	if err := s.products.Delete(ctx, productID); err != nil {
		return err
	}
	logger.Info(ctx, "product deleted", "product_id", productID)
	return nil
}

// UpdateRatingStats 回写商品的评分聚合字段。
func (s *CommandService) UpdateRatingStats(ctx context.Context, productID uint, averageRating decimal.Decimal, totalReviews int) error {
	return s.products.UpdateRatingStats(ctx, productID, averageRating, totalReviews)
}

// CreateBrand 创建品牌
func (s *CommandService) CreateBrand(ctx context.Context, name, logo, description, website string) (*domain.Brand, error) {
	if name == "" {
		return nil, errs.InvalidArgument("brand name is required")
	}
	brand := &domain.Brand{
		Name:        name,
		Logo:        logo,
		Description: description,
		Website:     website,
		IsActive:    true,
	}
	if err := s.brands.Save(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

// CreateCategory 创建分类
func (s *CommandService) CreateCategory(ctx context.Context, name, description, image string, parentID uint, displayOrder int) (*domain.Category, error) {
	if name == "" {
		return nil, errs.InvalidArgument("category name is required")
	}
	category := &domain.Category{
		Name:         name,
		Slug:         utils.Slugify(name),
		Description:  description,
		Image:        image,
		ParentID:     parentID,
		IsActive:     true,
		DisplayOrder: displayOrder,
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CommandService) publish(ctx context.Context, eventType, key string, event interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, key, event); err != nil {
		logger.Warn(ctx, "failed to publish catalog event", "event_type", eventType, "error", err)
	}
}
