package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductFilter 商品列表查询条件
type ProductFilter struct {
	// 关键词，匹配名称与描述
	Search string
	// 品牌 ID，0 表示不限
	BrandID uint
	// 分类 ID，0 表示不限
	CategoryID uint
	// 最低价，nil 表示不限
	MinPrice *decimal.Decimal
	// 最高价，nil 表示不限
	MaxPrice *decimal.Decimal
	// 排序字段：created_at, price, average_rating, name
	SortBy string
	// 排序方向：asc, desc
	SortOrder string
	// 仅上架商品
	ActiveOnly bool
}

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// 保存商品（新建或更新）
	Save(ctx context.Context, product *Product) error
	// 按 ID 获取商品；不存在返回 nil
	GetByID(ctx context.Context, id uint) (*Product, error)
	// 按条件分页查询商品
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*Product, int64, error)
	// 删除商品
	Delete(ctx context.Context, id uint) error
	// 更新商品的评分聚合字段
	UpdateRatingStats(ctx context.Context, productID uint, averageRating decimal.Decimal, totalReviews int) error
	// 统计上架商品数
	CountActive(ctx context.Context) (int64, error)
}

// BrandRepository 品牌仓储接口
type BrandRepository interface {
	Save(ctx context.Context, brand *Brand) error
	GetByID(ctx context.Context, id uint) (*Brand, error)
	// 列出启用的品牌
	ListActive(ctx context.Context) ([]*Brand, error)
}

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uint) (*Category, error)
	// 按展示顺序列出启用的分类
	ListActive(ctx context.Context) ([]*Category, error)
}
