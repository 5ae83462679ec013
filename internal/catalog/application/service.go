// Package application 实现商品目录模块的应用服务，命令与查询分离。
package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
)

// Service 商品目录应用服务门面，组合命令服务与查询服务。
type Service struct {
	commands *CommandService
	queries  *QueryService
}

// NewService 创建目录应用服务实例
func NewService(commands *CommandService, queries *QueryService) *Service {
	return &Service{commands: commands, queries: queries}
}

// CreateProduct 创建商品
func (s *Service) CreateProduct(ctx context.Context, req *CreateProductRequest) (*domain.Product, error) {
	return s.commands.CreateProduct(ctx, req)
}

// UpdateProduct 更新商品并失效缓存
func (s *Service) UpdateProduct(ctx context.Context, productID uint, req *UpdateProductRequest) (*domain.Product, error) {
	product, err := s.commands.UpdateProduct(ctx, productID, req)
	if err != nil {
		return nil, err
	}
	s.queries.InvalidateProduct(ctx, productID)
	return product, nil
}

// DeleteProduct 删除商品并失效缓存
func (s *Service) DeleteProduct(ctx context.Context, productID uint) error {
	if err := s.commands.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	s.queries.InvalidateProduct(ctx, productID)
	return nil
}

// UpdateRatingStats 回写商品评分聚合并失效缓存
func (s *Service) UpdateRatingStats(ctx context.Context, productID uint, averageRating decimal.Decimal, totalReviews int) error {
	if err := s.commands.UpdateRatingStats(ctx, productID, averageRating, totalReviews); err != nil {
		return err
	}
	s.queries.InvalidateProduct(ctx, productID)
	return nil
}

// InvalidateProduct 使商品缓存失效。库存在目录模块之外变动后调用。
func (s *Service) InvalidateProduct(ctx context.Context, productID uint) {
	s.queries.InvalidateProduct(ctx, productID)
}

// CreateBrand 创建品牌
func (s *Service) CreateBrand(ctx context.Context, name, logo, description, website string) (*domain.Brand, error) {
	return s.commands.CreateBrand(ctx, name, logo, description, website)
}

// CreateCategory 创建分类
func (s *Service) CreateCategory(ctx context.Context, name, description, image string, parentID uint, displayOrder int) (*domain.Category, error) {
	return s.commands.CreateCategory(ctx, name, description, image, parentID, displayOrder)
}

// GetProduct 获取商品详情
func (s *Service) GetProduct(ctx context.Context, productID uint) (*domain.Product, error) {
	return s.queries.GetProduct(ctx, productID)
}

// ListProducts 分页查询商品
func (s *Service) ListProducts(ctx context.Context, query *ListProductsQuery) (*ProductListResult, error) {
	return s.queries.ListProducts(ctx, query)
}

// ListBrands 列出品牌
func (s *Service) ListBrands(ctx context.Context) ([]*domain.Brand, error) {
	return s.queries.ListBrands(ctx)
}

// ListCategories 列出分类
func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.queries.ListCategories(ctx)
}
