// Package application 实现管理端看板的应用服务，跨模块聚合只读统计。
package application

import (
	"context"

	catalogdomain "github.com/wyfcoding/storefront/internal/catalog/domain"
	orderdomain "github.com/wyfcoding/storefront/internal/order/domain"
	userdomain "github.com/wyfcoding/storefront/internal/user/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// Dashboard 看板数据
type Dashboard struct {
	Stats        orderdomain.DashboardStats `json:"stats"`
	RecentOrders []*orderdomain.Order       `json:"recent_orders"`
	TopProducts  []orderdomain.TopProduct   `json:"top_products"`
}

// Service 管理端看板服务
type Service struct {
	orders   orderdomain.OrderRepository
	users    userdomain.UserRepository
	products catalogdomain.ProductRepository
}

// NewService 创建看板服务实例
func NewService(
	orders orderdomain.OrderRepository,
	users userdomain.UserRepository,
	products catalogdomain.ProductRepository,
) *Service {
	return &Service{orders: orders, users: users, products: products}
}

// GetDashboard 汇总订单、销售额、客户与商品统计，附最近订单与销量排行。
// 销售额只计已送达订单。
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	defer logger.LogDuration(ctx, "dashboard aggregation")()

	totalOrders, pendingOrders, totalSales, err := s.orders.SalesStats(ctx)
	if err != nil {
		return nil, err
	}
	totalCustomers, err := s.users.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.products.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.orders.List(ctx, orderdomain.OrderFilter{}, 5, 0)
	if err != nil {
		return nil, err
	}
	top, err := s.orders.TopProducts(ctx, 5)
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "dashboard assembled", "total_orders", totalOrders, "total_customers", totalCustomers)
	return &Dashboard{
		Stats: orderdomain.DashboardStats{
			TotalOrders:    totalOrders,
			PendingOrders:  pendingOrders,
			TotalSales:     totalSales,
			TotalCustomers: totalCustomers,
			TotalProducts:  totalProducts,
		},
		RecentOrders: recent,
		TopProducts:  top,
	}, nil
}

// TopProducts 销量排行
func (s *Service) TopProducts(ctx context.Context, limit int) ([]orderdomain.TopProduct, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.orders.TopProducts(ctx, limit)
}

// RecentOrders 最近订单
func (s *Service) RecentOrders(ctx context.Context, limit int) ([]*orderdomain.Order, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	orders, _, err := s.orders.List(ctx, orderdomain.OrderFilter{}, limit, 0)
	return orders, err
}
