package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 事件类型
const (
	OrderPlacedEventType        = "order.placed"
	OrderStatusChangedEventType = "order.status_changed"
)

// OrderPlacedEvent 下单成功事件
type OrderPlacedEvent struct {
	OrderID       uint            `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	UserID        uint            `json:"user_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	ItemCount     int             `json:"item_count"`
	PlacedAt      time.Time       `json:"placed_at"`
}

// OrderStatusChangedEvent 订单状态变更事件
type OrderStatusChangedEvent struct {
	OrderID     uint        `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	UserID      uint        `json:"user_id"`
	FromStatus  OrderStatus `json:"from_status"`
	ToStatus    OrderStatus `json:"to_status"`
	ChangedAt   time.Time   `json:"changed_at"`
}

// EventPublisher 领域事件发布端口，实现为 Kafka 生产者，可为 nil（不发布）。
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, event interface{}) error
}
