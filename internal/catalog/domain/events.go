package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 商品目录事件类型
const (
	ProductCreatedEventType = "catalog.product.created"
	ProductUpdatedEventType = "catalog.product.updated"
)

// ProductCreatedEvent 商品创建事件
type ProductCreatedEvent struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// EventPublisher 事件发布接口；实现可为 Kafka 或空实现
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, event interface{}) error
}
