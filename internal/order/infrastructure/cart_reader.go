// Package infrastructure 提供订单模块对外部模块的适配实现。
package infrastructure

import (
	"context"

	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/internal/order/application"
)

// CartSnapshotReader 基于购物车仓储实现 application.CartReader。
type CartSnapshotReader struct {
	carts cartdomain.CartRepository
}

// NewCartSnapshotReader 创建购物车快照读取适配器
func NewCartSnapshotReader(carts cartdomain.CartRepository) *CartSnapshotReader {
	return &CartSnapshotReader{carts: carts}
}

// GetCartSnapshot 实现 application.CartReader。购物车不存在或为空时返回 nil。
func (r *CartSnapshotReader) GetCartSnapshot(ctx context.Context, userID uint) (*application.CartSnapshot, error) {
	cart, err := r.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.IsEmpty() {
		return nil, nil
	}

	snapshot := &application.CartSnapshot{
		CartID:    cart.ID,
		UpdatedAt: cart.UpdatedAt,
		Subtotal:  cart.TotalAmount,
	}
	for i := range cart.Items {
		item := &cart.Items[i]
		snapshot.Lines = append(snapshot.Lines, application.CartLine{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			LineTotal:    item.LineTotal,
		})
	}
	return snapshot, nil
}
