// Package domain 包含商品目录的领域模型
package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品实体
type Product struct {
	gorm.Model
	// 商品名称
	Name string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	// URL slug，由名称生成
	Slug string `gorm:"column:slug;type:varchar(255);uniqueIndex;not null" json:"slug"`
	// 商品描述
	Description string `gorm:"column:description;type:text" json:"description"`
	// 简短描述
	ShortDescription string `gorm:"column:short_description;type:varchar(500)" json:"short_description"`
	// 品牌 ID
	BrandID uint `gorm:"column:brand_id;index;not null" json:"brand_id"`
	// 分类 ID
	CategoryID uint `gorm:"column:category_id;index;not null" json:"category_id"`
	// SKU，全局唯一
	SKU string `gorm:"column:sku;type:varchar(64);uniqueIndex;not null" json:"sku"`
	// 售价
	Price decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	// 划线价
	ComparePrice decimal.Decimal `gorm:"column:compare_price;type:decimal(12,2)" json:"compare_price"`
	// 商品图片 URL 列表
	Images []string `gorm:"column:images;serializer:json" json:"images"`
	// 库存数量，永不为负
	StockQuantity int `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	// 低库存告警阈值
	LowStockThreshold int `gorm:"column:low_stock_threshold;default:10" json:"low_stock_threshold"`
	// 是否上架
	IsActive bool `gorm:"column:is_active;default:true" json:"is_active"`
	// 是否推荐
	IsFeatured bool `gorm:"column:is_featured;default:false" json:"is_featured"`
	// 平均评分（0-5，保留一位小数），由评价聚合维护
	AverageRating decimal.Decimal `gorm:"column:average_rating;type:decimal(2,1);default:0" json:"average_rating"`
	// 评价总数，由评价聚合维护
	TotalReviews int `gorm:"column:total_reviews;default:0" json:"total_reviews"`
	// 标签
	Tags []string `gorm:"column:tags;serializer:json" json:"tags"`
}

// TableName 指定表名
func (Product) TableName() string { return "products" }

// FirstImage 返回首图；无图时返回空串
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// InStock 是否有足够库存
func (p *Product) InStock(quantity int) bool {
	return p.StockQuantity >= quantity
}

// Brand 品牌实体
type Brand struct {
	gorm.Model
	// 品牌名称，唯一
	Name string `gorm:"column:name;type:varchar(128);uniqueIndex;not null" json:"name"`
	// Logo URL
	Logo string `gorm:"column:logo;type:varchar(512)" json:"logo"`
	// 品牌描述
	Description string `gorm:"column:description;type:text" json:"description"`
	// 官网
	Website string `gorm:"column:website;type:varchar(512)" json:"website"`
	// 是否启用
	IsActive bool `gorm:"column:is_active;default:true" json:"is_active"`
}

// TableName 指定表名
func (Brand) TableName() string { return "brands" }

// Category 分类实体
type Category struct {
	gorm.Model
	// 分类名称，唯一
	Name string `gorm:"column:name;type:varchar(128);uniqueIndex;not null" json:"name"`
	// URL slug
	Slug string `gorm:"column:slug;type:varchar(128);uniqueIndex;not null" json:"slug"`
	// 分类描述
	Description string `gorm:"column:description;type:text" json:"description"`
	// 图片 URL
	Image string `gorm:"column:image;type:varchar(512)" json:"image"`
	// 父分类 ID，0 表示顶级分类
	ParentID uint `gorm:"column:parent_id;index;default:0" json:"parent_id"`
	// 是否启用
	IsActive bool `gorm:"column:is_active;default:true" json:"is_active"`
	// 展示顺序
	DisplayOrder int `gorm:"column:display_order;default:0" json:"display_order"`
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }
