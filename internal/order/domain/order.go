// Package domain 定义订单模块的领域模型、仓储接口与领域事件。
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/pkg/utils"
	"gorm.io/gorm"
)

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentMethodCOD        PaymentMethod = "cod"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetBanking PaymentMethod = "net_banking"
)

// IsValid 是否为受支持的支付方式
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodUPI, PaymentMethodNetBanking:
		return true
	}
	return false
}

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 状态机：pending → confirmed → processing → shipped → delivered；
// delivered 之前任意状态可转 cancelled，delivered 与 cancelled 为终态。
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// IsValid 是否为已知订单状态
func (s OrderStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo 状态机是否允许转移到 target
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Address 收货地址，整体序列化为 JSON 存储。
type Address struct {
	FullName   string `json:"full_name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

// Order 订单聚合根。金额与商品信息均为下单时刻的快照。
type Order struct {
	gorm.Model
	OrderNumber     string          `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	UserID          uint            `gorm:"index;not null" json:"user_id"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	ShippingFee     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_fee"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaymentMethod   PaymentMethod   `gorm:"size:20;not null" json:"payment_method"`
	PaymentStatus   PaymentStatus   `gorm:"size:20;not null" json:"payment_status"`
	Status          OrderStatus     `gorm:"size:20;index;not null" json:"status"`
	ShippingAddress Address         `gorm:"serializer:json" json:"shipping_address"`
	BillingAddress  Address         `gorm:"serializer:json" json:"billing_address"`
	TrackingNumber  string          `gorm:"size:64" json:"tracking_number"`
	ShippedAt       *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	Notes           string          `gorm:"size:512" json:"notes"`
}

// OrderItem 订单明细行快照
type OrderItem struct {
	gorm.Model
	OrderID      uint            `gorm:"index;not null" json:"order_id"`
	ProductID    uint            `gorm:"index;not null" json:"product_id"`
	ProductName  string          `gorm:"size:255;not null" json:"product_name"`
	ProductImage string          `gorm:"size:512" json:"product_image"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
}

// TableName 指定表名
func (Order) TableName() string { return "orders" }

// TableName 指定表名
func (OrderItem) TableName() string { return "order_items" }

// GenerateOrderNumber 生成订单号：前缀 + 毫秒时间戳 + 5 位随机大写字母数字。
func GenerateOrderNumber(prefix string) string {
	return fmt.Sprintf("%s%d%s", prefix, time.Now().UnixMilli(), utils.RandString(5))
}

// InsufficientStockError 下单时库存不足
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q", e.ProductName)
}

// ErrCartChanged 下单事务提交时购物车已被并发修改
var ErrCartChanged = errors.New("cart was modified during checkout")
