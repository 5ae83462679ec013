// Package mysql 提供购物车仓储接口的 MySQL GORM 实现。
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"gorm.io/gorm"
)

type cartRepository struct{ db *gorm.DB }

// NewCartRepository 创建购物车仓储实例
func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

// GetByUserID 实现 domain.CartRepository.GetByUserID
func (r *cartRepository) GetByUserID(ctx context.Context, userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "cart_repository.get failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

// Save 实现 domain.CartRepository.Save。
// 明细行整体替换：先物理删除旧行再插入当前行，避免合并更新的分支逻辑。
func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cart.ID == 0 {
			return tx.Create(cart).Error
		}
		if err := tx.Unscoped().Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		for i := range cart.Items {
			cart.Items[i].ID = 0
			cart.Items[i].CartID = cart.ID
		}
		if len(cart.Items) > 0 {
			if err := tx.Create(&cart.Items).Error; err != nil {
				return err
			}
		}
		return tx.Model(&domain.Cart{}).Where("id = ?", cart.ID).
			Updates(map[string]interface{}{
				"total_items":  cart.TotalItems,
				"total_amount": cart.TotalAmount,
			}).Error
	})
	if err != nil {
		logger.Error(ctx, "cart_repository.save failed", "user_id", cart.UserID, "error", err)
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// DeleteByUserID 实现 domain.CartRepository.DeleteByUserID
func (r *cartRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart domain.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Unscoped().Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&cart).Error
	})
	if err != nil {
		logger.Error(ctx, "cart_repository.delete failed", "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
