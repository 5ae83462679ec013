// Package infrastructure 提供评价模块对外部模块的适配实现。
package infrastructure

import (
	"context"
	"fmt"

	orderdomain "github.com/wyfcoding/storefront/internal/order/domain"
	"gorm.io/gorm"
)

// PurchaseChecker 查询用户对某商品的已送达订单，用于标记已验证购买。
type PurchaseChecker struct {
	db *gorm.DB
}

// NewPurchaseChecker 创建购买校验适配器
func NewPurchaseChecker(db *gorm.DB) *PurchaseChecker {
	return &PurchaseChecker{db: db}
}

// DeliveredOrderID 返回用户包含该商品的最新已送达订单 ID，不存在时返回 0。
func (p *PurchaseChecker) DeliveredOrderID(ctx context.Context, userID, productID uint) (uint, error) {
	var orderIDs []uint
	err := p.db.WithContext(ctx).Model(&orderdomain.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ? AND orders.status = ?",
			userID, productID, orderdomain.OrderStatusDelivered).
		Order("orders.created_at desc").
		Limit(1).
		Pluck("orders.id", &orderIDs).Error
	if err != nil {
		return 0, fmt.Errorf("failed to check purchase history: %w", err)
	}
	if len(orderIDs) == 0 {
		return 0, nil
	}
	return orderIDs[0], nil
}
