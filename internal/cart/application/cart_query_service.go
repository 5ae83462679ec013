package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/domain"
)

// QueryService 购物车查询服务
type QueryService struct {
	carts domain.CartRepository
}

// NewQueryService 创建购物车查询服务实例
func NewQueryService(carts domain.CartRepository) *QueryService {
	return &QueryService{carts: carts}
}

// GetCart 返回用户购物车。购物车不存在时返回规范化的空购物车而非错误。
func (s *QueryService) GetCart(ctx context.Context, userID uint) (*domain.Cart, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return domain.NewCart(userID), nil
	}
	return cart, nil
}
