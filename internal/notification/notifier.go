// Package notification 消费订单事件并触发买家通知。
// 目前的通知通道为日志占位，邮件网关接入后替换 send 实现即可。
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	orderdomain "github.com/wyfcoding/storefront/internal/order/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/mq"
)

type eventEnvelope struct {
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

// Notifier 订单事件消费者
type Notifier struct {
	consumer *mq.KafkaConsumer
}

// NewNotifier 创建通知消费者
func NewNotifier(consumer *mq.KafkaConsumer) *Notifier {
	return &Notifier{consumer: consumer}
}

// Start 启动消费循环，阻塞直到 ctx 取消。
func (n *Notifier) Start(ctx context.Context) error {
	return n.consumer.Consume(ctx, n.handle)
}

// Close 关闭底层消费者
func (n *Notifier) Close() error {
	return n.consumer.Close()
}

func (n *Notifier) handle(ctx context.Context, key, value []byte) error {
	var envelope eventEnvelope
	if err := json.Unmarshal(value, &envelope); err != nil {
		return fmt.Errorf("failed to decode event envelope: %w", err)
	}

	switch envelope.EventType {
	case orderdomain.OrderPlacedEventType:
		var event orderdomain.OrderPlacedEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			return fmt.Errorf("failed to decode order placed event: %w", err)
		}
		n.sendOrderConfirmation(ctx, &event)
	case orderdomain.OrderStatusChangedEventType:
		var event orderdomain.OrderStatusChangedEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			return fmt.Errorf("failed to decode status changed event: %w", err)
		}
		n.sendStatusUpdate(ctx, &event)
	default:
		logger.Debug(ctx, "ignoring unknown event type", "event_type", envelope.EventType, "key", string(key))
	}
	return nil
}

func (n *Notifier) sendOrderConfirmation(ctx context.Context, event *orderdomain.OrderPlacedEvent) {
	logger.Info(ctx, "order confirmation notification queued",
		"order_number", event.OrderNumber,
		"user_id", event.UserID,
		"total_amount", event.TotalAmount.String())
}

func (n *Notifier) sendStatusUpdate(ctx context.Context, event *orderdomain.OrderStatusChangedEvent) {
	logger.Info(ctx, "order status notification queued",
		"order_number", event.OrderNumber,
		"user_id", event.UserID,
		"status", event.ToStatus)
}
