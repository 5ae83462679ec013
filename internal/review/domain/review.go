// Package domain 定义商品评价模块的领域模型与仓储接口。
package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Review 商品评价。同一用户对同一商品最多一条。
// OrderID 在能关联到已送达订单时填充，此时评价标记为已验证购买。
type Review struct {
	gorm.Model
	ProductID          uint     `gorm:"uniqueIndex:idx_product_user;not null" json:"product_id"`
	UserID             uint     `gorm:"uniqueIndex:idx_product_user;not null" json:"user_id"`
	UserName           string   `gorm:"size:100;not null" json:"user_name"`
	OrderID            *uint    `gorm:"index" json:"order_id,omitempty"`
	Rating             int      `gorm:"not null" json:"rating"`
	Title              string   `gorm:"size:255" json:"title"`
	Comment            string   `gorm:"size:2000" json:"comment"`
	Images             []string `gorm:"column:images;serializer:json" json:"images"`
	IsVerifiedPurchase bool     `gorm:"not null;default:false" json:"is_verified_purchase"`
	HelpfulVotes       int      `gorm:"not null;default:0" json:"helpful_votes"`
}

// TableName 指定表名
func (Review) TableName() string { return "reviews" }

// RatingSummary 某商品的评分汇总
type RatingSummary struct {
	AverageRating decimal.Decimal `json:"average_rating"`
	TotalReviews  int             `json:"total_reviews"`
}

// ReviewRepository 评价仓储接口
type ReviewRepository interface {
	Save(ctx context.Context, review *Review) error
	// GetByProductAndUser 返回用户对商品的评价，不存在时返回 nil。
	GetByProductAndUser(ctx context.Context, productID, userID uint) (*Review, error)
	// ListByProduct 分页列出商品评价，按创建时间倒序。
	ListByProduct(ctx context.Context, productID uint, limit, offset int) ([]*Review, int64, error)
	// Aggregate 重新计算商品的评分汇总，均分四舍五入到一位小数，无评价时为零值。
	Aggregate(ctx context.Context, productID uint) (RatingSummary, error)
	// IncrementHelpful 将评价的有用票数加一，评价不存在时返回 false。
	IncrementHelpful(ctx context.Context, reviewID uint) (bool, error)
}
