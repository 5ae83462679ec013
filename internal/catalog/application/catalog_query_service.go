package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/cache"
	"github.com/wyfcoding/storefront/pkg/errs"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/utils"
)

const productCacheTTL = 5 * time.Minute

// ListProductsQuery 商品列表查询参数
type ListProductsQuery struct {
	Search     string
	BrandID    uint
	CategoryID uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// ProductListResult 商品列表查询结果
type ProductListResult struct {
	Products   []*domain.Product `json:"products"`
	Pagination *utils.Pagination `json:"pagination"`
}

// QueryService 商品目录查询服务，只读操作，带 Redis 缓存。
type QueryService struct {
	products   domain.ProductRepository
	brands     domain.BrandRepository
	categories domain.CategoryRepository
	cache      *cache.RedisCache
}

// NewQueryService 创建目录查询服务实例。cache 可为 nil，此时直接穿透到数据库。
func NewQueryService(
	products domain.ProductRepository,
	brands domain.BrandRepository,
	categories domain.CategoryRepository,
	redisCache *cache.RedisCache,
) *QueryService {
	return &QueryService{
		products:   products,
		brands:     brands,
		categories: categories,
		cache:      redisCache,
	}
}

// GetProduct 按 ID 获取商品，先查缓存。
func (s *QueryService) GetProduct(ctx context.Context, productID uint) (*domain.Product, error) {
	key := productCacheKey(productID)
	if s.cache != nil {
		var cached domain.Product
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			logger.Warn(ctx, "product cache read failed", "product_id", productID, "error", err)
		} else if found {
			return &cached, nil
		}
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, errs.NotFound("product not found")
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, product, productCacheTTL); err != nil {
			logger.Warn(ctx, "product cache write failed", "product_id", productID, "error", err)
		}
	}
	return product, nil
}

// ListProducts 按条件分页列出在售商品。
func (s *QueryService) ListProducts(ctx context.Context, query *ListProductsQuery) (*ProductListResult, error) {
	filter := domain.ProductFilter{
		Search:     query.Search,
		BrandID:    query.BrandID,
		CategoryID: query.CategoryID,
		MinPrice:   query.MinPrice,
		MaxPrice:   query.MaxPrice,
		SortBy:     query.SortBy,
		SortOrder:  query.SortOrder,
		ActiveOnly: true,
	}
	pagination := utils.NewPagination(query.Page, query.PageSize, 0)

	products, total, err := s.products.List(ctx, filter, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, err
	}
	return &ProductListResult{
		Products:   products,
		Pagination: utils.NewPagination(query.Page, query.PageSize, total),
	}, nil
}

// ListBrands 列出所有启用的品牌
func (s *QueryService) ListBrands(ctx context.Context) ([]*domain.Brand, error) {
	return s.brands.ListActive(ctx)
}

// ListCategories 列出所有启用的分类
func (s *QueryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.ListActive(ctx)
}

// InvalidateProduct 使商品缓存失效，写操作之后调用。
func (s *QueryService) InvalidateProduct(ctx context.Context, productID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productCacheKey(productID)); err != nil {
		logger.Warn(ctx, "product cache invalidation failed", "product_id", productID, "error", err)
	}
}

func productCacheKey(productID uint) string {
	return fmt.Sprintf("catalog:product:%d", productID)
}
