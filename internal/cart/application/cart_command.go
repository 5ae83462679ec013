package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/errs"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// ProductInfo 购物车所需的商品信息投影
type ProductInfo struct {
	ID            uint
	Name          string
	Image         string
	Price         decimal.Decimal
	StockQuantity int
}

// ProductReader 查询商品信息的端口，由商品目录模块提供适配实现。
// 商品不存在或已下架时返回 nil。
type ProductReader interface {
	GetProductInfo(ctx context.Context, productID uint) (*ProductInfo, error)
}

// CommandService 购物车命令服务，处理所有写操作。
type CommandService struct {
	carts    domain.CartRepository
	products ProductReader
	metrics  *metrics.Metrics
}

// NewCommandService 创建购物车命令服务实例。metrics 可为 nil。
func NewCommandService(carts domain.CartRepository, products ProductReader, m *metrics.Metrics) *CommandService {
	return &CommandService{carts: carts, products: products, metrics: m}
}

// AddItem 向购物车加入商品。
// 商品必须在售且库存足够；同一商品重复加入合并数量，单价保留首次加入时的快照。
func (s *CommandService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, errs.InvalidArgument("quantity must be at least 1")
	}

	product, err := s.products.GetProductInfo(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errs.NotFound("product not found")
	}

	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = domain.NewCart(userID)
	}

	existing := 0
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			existing = cart.Items[i].Quantity
		}
	}
	if existing+quantity > product.StockQuantity {
		return nil, errs.InvalidArgument("insufficient stock")
	}

	cart.AddItem(productID, product.Name, product.Image, product.Price, quantity)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}

	s.countMutation("add")
	logger.Info(ctx, "cart item added", "user_id", userID, "product_id", productID, "quantity", quantity)
	return cart, nil
}

// UpdateQuantity 更新购物车中某商品的数量，商品必须已在购物车中。
func (s *CommandService) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, errs.InvalidArgument("quantity must be at least 1")
	}

	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errs.NotFound("item not in cart")
	}

	product, err := s.products.GetProductInfo(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product != nil && quantity > product.StockQuantity {
		return nil, errs.InvalidArgument("insufficient stock")
	}

	if !cart.UpdateQuantity(productID, quantity) {
		return nil, errs.NotFound("item not in cart")
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}

	s.countMutation("update")
	return cart, nil
}

// RemoveItem 从购物车移除商品。商品不在购物车中时为无操作，购物车不存在时报错。
func (s *CommandService) RemoveItem(ctx context.Context, userID, productID uint) (*domain.Cart, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errs.NotFound("cart not found")
	}

	cart.RemoveItem(productID)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}

	s.countMutation("remove")
	return cart, nil
}

// Clear 清空购物车，幂等。
func (s *CommandService) Clear(ctx context.Context, userID uint) error {
	if err := s.carts.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	s.countMutation("clear")
	logger.Info(ctx, "cart cleared", "user_id", userID)
	return nil
}

func (s *CommandService) countMutation(op string) {
	if s.metrics != nil {
		s.metrics.CartMutationsTotal.WithLabelValues(op).Inc()
	}
}
