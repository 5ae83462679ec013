// Package domain 定义购物车模块的领域模型与仓储接口。
package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart 购物车聚合根，每个用户最多一个。
// 汇总字段（TotalItems / TotalAmount）始终由明细行重新计算，不单独维护。
type Cart struct {
	gorm.Model
	UserID      uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Items       []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	TotalItems  int             `gorm:"not null;default:0" json:"total_items"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
}

// CartItem 购物车明细行。单价为加入时的快照，后续商品调价不回填。
type CartItem struct {
	gorm.Model
	CartID       uint            `gorm:"index;not null" json:"cart_id"`
	ProductID    uint            `gorm:"index;not null" json:"product_id"`
	ProductName  string          `gorm:"size:255;not null" json:"product_name"`
	ProductImage string          `gorm:"size:512" json:"product_image"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
}

// TableName 指定表名
func (Cart) TableName() string { return "carts" }

// TableName 指定表名
func (CartItem) TableName() string { return "cart_items" }

// NewCart 创建空购物车
func NewCart(userID uint) *Cart {
	return &Cart{
		UserID:      userID,
		Items:       []CartItem{},
		TotalItems:  0,
		TotalAmount: decimal.Zero,
	}
}

// AddItem 加入商品。同一商品重复加入时合并数量，单价保留首次快照。
func (c *Cart) AddItem(productID uint, name, image string, unitPrice decimal.Decimal, quantity int) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			c.Items[i].LineTotal = c.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(c.Items[i].Quantity)))
			c.RecalculateTotals()
			return
		}
	}
	c.Items = append(c.Items, CartItem{
		CartID:       c.ID,
		ProductID:    productID,
		ProductName:  name,
		ProductImage: image,
		UnitPrice:    unitPrice,
		Quantity:     quantity,
		LineTotal:    unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	})
	c.RecalculateTotals()
}

// UpdateQuantity 更新明细行数量。返回 false 表示该商品不在购物车中。
func (c *Cart) UpdateQuantity(productID uint, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			c.Items[i].LineTotal = c.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
			c.RecalculateTotals()
			return true
		}
	}
	return false
}

// RemoveItem 移除明细行。商品不在购物车中时为无操作。
func (c *Cart) RemoveItem(productID uint) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.RecalculateTotals()
			return
		}
	}
}

// Clear 清空所有明细行
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.RecalculateTotals()
}

// IsEmpty 购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// RecalculateTotals 由明细行重算汇总字段
func (c *Cart) RecalculateTotals() {
	totalItems := 0
	totalAmount := decimal.Zero
	for i := range c.Items {
		totalItems += c.Items[i].Quantity
		totalAmount = totalAmount.Add(c.Items[i].LineTotal)
	}
	c.TotalItems = totalItems
	c.TotalAmount = totalAmount
}
