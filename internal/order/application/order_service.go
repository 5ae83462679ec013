// Package application 实现订单模块的应用服务：结算下单、订单查询与状态流转。
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/order/domain"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/errs"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/utils"
)

// CartLine 结算用购物车明细
type CartLine struct {
	ProductID    uint
	ProductName  string
	ProductImage string
	UnitPrice    decimal.Decimal
	Quantity     int
	LineTotal    decimal.Decimal
}

// CartSnapshot 结算时刻的购物车快照。UpdatedAt 用于事务内的并发修改校验。
type CartSnapshot struct {
	CartID    uint
	UpdatedAt time.Time
	Lines     []CartLine
	Subtotal  decimal.Decimal
}

// CartReader 读取购物车快照的端口，由购物车模块提供适配实现。
// 购物车不存在或为空时返回 nil。
type CartReader interface {
	GetCartSnapshot(ctx context.Context, userID uint) (*CartSnapshot, error)
}

// Locker 分布式互斥端口，阻止同一用户并发结算。由 Redis SETNX 实现。
type Locker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// ProductCacheInvalidator 商品缓存失效端口，库存扣减提交后调用，由目录模块实现。
type ProductCacheInvalidator interface {
	InvalidateProduct(ctx context.Context, productID uint)
}

// CheckoutRequest 结算请求。账单地址缺省时使用收货地址。
type CheckoutRequest struct {
	PaymentMethod   domain.PaymentMethod `json:"payment_method" binding:"required"`
	ShippingAddress domain.Address       `json:"shipping_address" binding:"required"`
	BillingAddress  *domain.Address      `json:"billing_address"`
	Notes           string               `json:"notes"`
}

// OrderListResult 订单列表查询结果
type OrderListResult struct {
	Orders     []*domain.Order   `json:"orders"`
	Pagination *utils.Pagination `json:"pagination"`
}

// Service 订单应用服务
type Service struct {
	orders      domain.OrderRepository
	carts       CartReader
	locker      Locker
	invalidator ProductCacheInvalidator
	publisher   domain.EventPublisher
	metrics     *metrics.Metrics
	cfg         config.CheckoutConfig
}

// NewService 创建订单应用服务实例。invalidator、publisher 与 metrics 可为 nil。
func NewService(
	orders domain.OrderRepository,
	carts CartReader,
	locker Locker,
	invalidator ProductCacheInvalidator,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	cfg config.CheckoutConfig,
) *Service {
	return &Service{
		orders:      orders,
		carts:       carts,
		locker:      locker,
		invalidator: invalidator,
		publisher:   publisher,
		metrics:     m,
		cfg:         cfg,
	}
}

// Checkout 结算下单。
// 同一用户通过 Redis SETNX 互斥，购物车校验、订单写入、库存扣减与购物车
// 清空在单个数据库事务中完成，金额为下单时刻明细单价的快照。
func (s *Service) Checkout(ctx context.Context, userID uint, req *CheckoutRequest) (*domain.Order, error) {
	started := time.Now()

	if !req.PaymentMethod.IsValid() {
		s.countFailure("invalid_payment_method")
		return nil, errs.InvalidArgument("unsupported payment method")
	}

	lockKey := fmt.Sprintf("checkout:lock:%d", userID)
	acquired, err := s.locker.SetNX(ctx, lockKey, 1, time.Duration(s.cfg.LockTTL)*time.Second)
	if err != nil {
		s.countFailure("lock_error")
		return nil, errs.Wrap(errs.CodeInternal, "failed to acquire checkout lock", err)
	}
	if !acquired {
		s.countFailure("lock_contention")
		return nil, errs.New(errs.CodeConflict, "checkout already in progress")
	}
	defer func() {
		if err := s.locker.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.Warn(ctx, "failed to release checkout lock", "user_id", userID, "error", err)
		}
	}()

	snapshot, err := s.carts.GetCartSnapshot(ctx, userID)
	if err != nil {
		s.countFailure("internal")
		return nil, err
	}
	if snapshot == nil {
		s.countFailure("empty_cart")
		return nil, errs.New(errs.CodeEmptyCart, "cart is empty")
	}

	order := s.buildOrder(userID, snapshot, req)
	decrements := make([]domain.StockDecrement, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		decrements = append(decrements, domain.StockDecrement{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
		})
	}

	if err := s.orders.PlaceOrder(ctx, order, decrements, snapshot.CartID, snapshot.UpdatedAt); err != nil {
		var stockErr *domain.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			s.countFailure("insufficient_stock")
			return nil, errs.InvalidArgument(stockErr.Error())
		case errors.Is(err, domain.ErrCartChanged):
			s.countFailure("cart_changed")
			return nil, errs.New(errs.CodeConflict, "cart was modified, please retry")
		default:
			s.countFailure("internal")
			return nil, errs.Wrap(errs.CodeInternal, "failed to place order", err)
		}
	}

	// 库存已在事务内扣减，失效缓存避免读到旧库存
	if s.invalidator != nil {
		for _, line := range snapshot.Lines {
			s.invalidator.InvalidateProduct(ctx, line.ProductID)
		}
	}

	if s.metrics != nil {
		s.metrics.OrdersPlacedTotal.Inc()
		s.metrics.CheckoutDuration.Observe(time.Since(started).Seconds())
	}
	s.publish(ctx, domain.OrderPlacedEventType, order.OrderNumber, &domain.OrderPlacedEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		ItemCount:     len(order.Items),
		PlacedAt:      time.Now().UTC(),
	})

	logger.Info(ctx, "order placed",
		"order_number", order.OrderNumber,
		"user_id", userID,
		"total_amount", order.TotalAmount.String(),
		"payment_method", order.PaymentMethod)
	return order, nil
}

// buildOrder 由购物车快照计算金额并组装订单。
// 税费 = 小计 × 税率；小计超过免邮门槛则免运费，否则收固定运费；
// 货到付款的支付状态为 pending，其余视为已完成。
func (s *Service) buildOrder(userID uint, snapshot *CartSnapshot, req *CheckoutRequest) *domain.Order {
	subtotal := snapshot.Subtotal
	tax := subtotal.Mul(decimal.NewFromFloat(s.cfg.TaxRate)).Round(2)
	shipping := decimal.NewFromFloat(s.cfg.ShippingFlatFee)
	if subtotal.GreaterThan(decimal.NewFromFloat(s.cfg.FreeShippingThreshold)) {
		shipping = decimal.Zero
	}

	paymentStatus := domain.PaymentStatusCompleted
	if req.PaymentMethod == domain.PaymentMethodCOD {
		paymentStatus = domain.PaymentStatusPending
	}

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	order := &domain.Order{
		OrderNumber:     domain.GenerateOrderNumber(s.cfg.OrderNumberPrefix),
		UserID:          userID,
		Subtotal:        subtotal,
		TaxAmount:       tax,
		ShippingFee:     shipping,
		DiscountAmount:  decimal.Zero,
		TotalAmount:     subtotal.Add(tax).Add(shipping),
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   paymentStatus,
		Status:          domain.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		Notes:           req.Notes,
	}
	for _, line := range snapshot.Lines {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			ProductImage: line.ProductImage,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
			LineTotal:    line.LineTotal,
		})
	}
	return order
}

// GetOrder 获取订单详情，普通用户只能查看本人订单。
func (s *Service) GetOrder(ctx context.Context, identity middleware.Identity, orderID uint) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errs.NotFound("order not found")
	}
	if order.UserID != identity.UserID && !identity.IsAdmin() {
		return nil, errs.Forbidden("not allowed to view this order")
	}
	return order, nil
}

// ListUserOrders 分页列出用户本人的订单，按下单时间倒序。
func (s *Service) ListUserOrders(ctx context.Context, userID uint, page, pageSize int) (*OrderListResult, error) {
	return s.list(ctx, domain.OrderFilter{UserID: userID}, page, pageSize)
}

// ListAllOrders 管理端按状态分页列出全部订单。
func (s *Service) ListAllOrders(ctx context.Context, status domain.OrderStatus, page, pageSize int) (*OrderListResult, error) {
	if status != "" && !status.IsValid() {
		return nil, errs.InvalidArgument("unknown order status")
	}
	return s.list(ctx, domain.OrderFilter{Status: status}, page, pageSize)
}

func (s *Service) list(ctx context.Context, filter domain.OrderFilter, page, pageSize int) (*OrderListResult, error) {
	pagination := utils.NewPagination(page, pageSize, 0)
	orders, total, err := s.orders.List(ctx, filter, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, err
	}
	return &OrderListResult{
		Orders:     orders,
		Pagination: utils.NewPagination(page, pageSize, total),
	}, nil
}

// UpdateStatus 管理端推进订单状态，非法转移被拒绝。
// 发货时可附运单号并记录发货时间，送达时记录送达时间；
// 货到付款订单在送达时标记支付完成，已付款订单取消时标记退款。
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, target domain.OrderStatus, trackingNumber string) (*domain.Order, error) {
	if !target.IsValid() {
		return nil, errs.InvalidArgument("unknown order status")
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errs.NotFound("order not found")
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, errs.InvalidArgument(fmt.Sprintf("cannot transition order from %s to %s", order.Status, target))
	}

	update := domain.StatusUpdate{
		Status:         target,
		PaymentStatus:  order.PaymentStatus,
		TrackingNumber: trackingNumber,
	}
	now := time.Now().UTC()
	switch target {
	case domain.OrderStatusShipped:
		update.ShippedAt = &now
	case domain.OrderStatusDelivered:
		update.DeliveredAt = &now
		if update.PaymentStatus == domain.PaymentStatusPending {
			update.PaymentStatus = domain.PaymentStatusCompleted
		}
	case domain.OrderStatusCancelled:
		if update.PaymentStatus == domain.PaymentStatusCompleted {
			update.PaymentStatus = domain.PaymentStatusRefunded
		}
	}
	if err := s.orders.UpdateStatus(ctx, orderID, update); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.OrderStatusChangedEventType, order.OrderNumber, &domain.OrderStatusChangedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		FromStatus:  order.Status,
		ToStatus:    target,
		ChangedAt:   time.Now().UTC(),
	})

	logger.Info(ctx, "order status updated", "order_id", orderID, "from", order.Status, "to", target)
	order.Status = update.Status
	order.PaymentStatus = update.PaymentStatus
	if update.TrackingNumber != "" {
		order.TrackingNumber = update.TrackingNumber
	}
	if update.ShippedAt != nil {
		order.ShippedAt = update.ShippedAt
	}
	if update.DeliveredAt != nil {
		order.DeliveredAt = update.DeliveredAt
	}
	return order, nil
}

func (s *Service) publish(ctx context.Context, eventType, key string, event interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, key, event); err != nil {
		logger.Warn(ctx, "failed to publish order event", "event_type", eventType, "error", err)
	}
}

func (s *Service) countFailure(reason string) {
	if s.metrics != nil {
		s.metrics.CheckoutFailures.WithLabelValues(reason).Inc()
	}
}
