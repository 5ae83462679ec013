// Package application 实现购物车模块的应用服务。
package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/domain"
)

// Service 购物车应用服务门面
type Service struct {
	commands *CommandService
	queries  *QueryService
}

// NewService 创建购物车应用服务实例
func NewService(commands *CommandService, queries *QueryService) *Service {
	return &Service{commands: commands, queries: queries}
}

// GetCart 获取购物车
func (s *Service) GetCart(ctx context.Context, userID uint) (*domain.Cart, error) {
	return s.queries.GetCart(ctx, userID)
}

// AddItem 加入商品
func (s *Service) AddItem(ctx context.Context, userID, productID uint, quantity int) (*domain.Cart, error) {
	return s.commands.AddItem(ctx, userID, productID, quantity)
}

// UpdateQuantity 更新数量
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) (*domain.Cart, error) {
	return s.commands.UpdateQuantity(ctx, userID, productID, quantity)
}

// RemoveItem 移除商品
func (s *Service) RemoveItem(ctx context.Context, userID, productID uint) (*domain.Cart, error) {
	return s.commands.RemoveItem(ctx, userID, productID)
}

// Clear 清空购物车
func (s *Service) Clear(ctx context.Context, userID uint) error {
	return s.commands.Clear(ctx, userID)
}
