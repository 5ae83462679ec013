package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockDecrement 下单时需要扣减的单个商品库存
type StockDecrement struct {
	ProductID   uint
	ProductName string
	Quantity    int
}

// OrderFilter 订单列表过滤条件
type OrderFilter struct {
	UserID uint
	Status OrderStatus
}

// StatusUpdate 订单状态流转时需要持久化的字段。
// TrackingNumber 为空时不覆盖已有值；时间戳仅在对应状态首次到达时写入。
type StatusUpdate struct {
	Status         OrderStatus
	PaymentStatus  PaymentStatus
	TrackingNumber string
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
}

// DashboardStats 管理端看板统计
type DashboardStats struct {
	TotalOrders    int64           `json:"total_orders"`
	PendingOrders  int64           `json:"pending_orders"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalCustomers int64           `json:"total_customers"`
	TotalProducts  int64           `json:"total_products"`
}

// TopProduct 销量排行条目
type TopProduct struct {
	ProductID     uint            `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// PlaceOrder 在单个数据库事务内完成下单：
	// 写入订单与明细、按条件逐行扣减库存、按条件删除购物车。
	// 任一步失败整体回滚；库存不足返回 *InsufficientStockError，
	// 购物车在事务提交前被并发修改返回 ErrCartChanged。
	PlaceOrder(ctx context.Context, order *Order, decrements []StockDecrement, cartID uint, cartUpdatedAt time.Time) error
	// GetByID 返回订单（含明细行），不存在时返回 nil。
	GetByID(ctx context.Context, id uint) (*Order, error)
	// List 按过滤条件分页列出订单，按创建时间倒序。
	List(ctx context.Context, filter OrderFilter, limit, offset int) ([]*Order, int64, error)
	// UpdateStatus 更新订单状态、支付状态及随状态产生的物流字段。
	UpdateStatus(ctx context.Context, id uint, update StatusUpdate) error
	// SalesStats 返回订单总数、待处理数与已送达订单的销售额合计。
	SalesStats(ctx context.Context) (totalOrders, pendingOrders int64, totalSales decimal.Decimal, err error)
	// TopProducts 按累计销量排序返回前 limit 个商品。
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
}
