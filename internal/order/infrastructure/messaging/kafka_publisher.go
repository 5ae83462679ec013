// Package messaging 提供基于 Kafka 的领域事件发布实现。
package messaging

import (
	"context"
	"time"

	"github.com/wyfcoding/storefront/pkg/mq"
)

type eventEnvelope struct {
	EventType  string      `json:"event_type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// KafkaEventPublisher 将领域事件包装为统一信封后写入 Kafka。
// 同时满足订单与商品目录两个模块的 EventPublisher 端口。
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaEventPublisher 创建事件发布器
func NewKafkaEventPublisher(producer *mq.KafkaProducer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// Publish 发布事件，key 用于分区路由。
func (p *KafkaEventPublisher) Publish(ctx context.Context, eventType, key string, event interface{}) error {
	return p.producer.SendMessage(ctx, p.topic, key, eventEnvelope{
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    event,
	})
}
