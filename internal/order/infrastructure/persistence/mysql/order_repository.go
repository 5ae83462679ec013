// Package mysql 提供订单仓储接口的 MySQL GORM 实现。
package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/internal/order/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"gorm.io/gorm"
)

type orderRepository struct{ db *gorm.DB }

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

// PlaceOrder 实现 domain.OrderRepository.PlaceOrder。
// 库存扣减为条件更新（stock_quantity >= 需求量），零行受影响视为库存不足；
// 购物车删除以 updated_at 做乐观校验，防止事务窗口内的并发修改丢失。
func (r *orderRepository) PlaceOrder(ctx context.Context, order *domain.Order, decrements []domain.StockDecrement, cartID uint, cartUpdatedAt time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, dec := range decrements {
			result := tx.Model(&catalogdomain.Product{}).
				Where("id = ? AND stock_quantity >= ?", dec.ProductID, dec.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", dec.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to decrement stock: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return &domain.InsufficientStockError{ProductID: dec.ProductID, ProductName: dec.ProductName}
			}
		}

		if err := tx.Unscoped().Where("cart_id = ?", cartID).Delete(&cartdomain.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart items: %w", err)
		}
		result := tx.Unscoped().Where("id = ? AND updated_at = ?", cartID, cartUpdatedAt).Delete(&cartdomain.Cart{})
		if result.Error != nil {
			return fmt.Errorf("failed to clear cart: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrCartChanged
		}
		return nil
	})
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if !errors.As(err, &stockErr) && !errors.Is(err, domain.ErrCartChanged) {
			logger.Error(ctx, "order_repository.place_order failed", "user_id", order.UserID, "error", err)
		}
		return err
	}
	return nil
}

// GetByID 实现 domain.OrderRepository.GetByID
func (r *orderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "order_repository.get failed", "order_id", id, "error", err)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// List 实现 domain.OrderRepository.List
func (r *orderRepository) List(ctx context.Context, filter domain.OrderFilter, limit, offset int) ([]*domain.Order, int64, error) {
	db := r.db.WithContext(ctx).Model(&domain.Order{})
	if filter.UserID != 0 {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []*domain.Order
	if err := db.Preload("Items").Order("created_at desc").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		logger.Error(ctx, "order_repository.list failed", "error", err)
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus 实现 domain.OrderRepository.UpdateStatus
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, update domain.StatusUpdate) error {
	fields := map[string]interface{}{
		"status":         update.Status,
		"payment_status": update.PaymentStatus,
	}
	if update.TrackingNumber != "" {
		fields["tracking_number"] = update.TrackingNumber
	}
	if update.ShippedAt != nil {
		fields["shipped_at"] = update.ShippedAt
	}
	if update.DeliveredAt != nil {
		fields["delivered_at"] = update.DeliveredAt
	}
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).
		Updates(fields).Error
	if err != nil {
		logger.Error(ctx, "order_repository.update_status failed", "order_id", id, "error", err)
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// SalesStats 实现 domain.OrderRepository.SalesStats
func (r *orderRepository) SalesStats(ctx context.Context) (int64, int64, decimal.Decimal, error) {
	var totalOrders, pendingOrders int64
	if err := r.db.WithContext(ctx).Model(&domain.Order{}).Count(&totalOrders).Error; err != nil {
		return 0, 0, decimal.Zero, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("status = ?", domain.OrderStatusPending).Count(&pendingOrders).Error; err != nil {
		return 0, 0, decimal.Zero, fmt.Errorf("failed to count pending orders: %w", err)
	}

	var totalSales decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("status = ?", domain.OrderStatusDelivered).
		Select("SUM(total_amount)").Scan(&totalSales).Error
	if err != nil {
		return 0, 0, decimal.Zero, fmt.Errorf("failed to sum sales: %w", err)
	}
	sales := decimal.Zero
	if totalSales.Valid {
		sales = totalSales.Decimal
	}
	return totalOrders, pendingOrders, sales, nil
}

// TopProducts 实现 domain.OrderRepository.TopProducts
func (r *orderRepository) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	var rows []domain.TopProduct
	err := r.db.WithContext(ctx).Model(&domain.OrderItem{}).
		Select("product_id, product_name, SUM(quantity) AS total_quantity, SUM(line_total) AS total_revenue").
		Group("product_id, product_name").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		logger.Error(ctx, "order_repository.top_products failed", "error", err)
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	return rows, nil
}
