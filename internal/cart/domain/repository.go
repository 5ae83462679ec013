package domain

import "context"

// CartRepository 购物车仓储接口
type CartRepository interface {
	// GetByUserID 返回用户的购物车（含明细行），不存在时返回 nil。
	GetByUserID(ctx context.Context, userID uint) (*Cart, error)
	// Save 保存购物车及其明细行，明细行以数据库中的当前内容为准整体替换。
	Save(ctx context.Context, cart *Cart) error
	// DeleteByUserID 删除用户的购物车及其明细行，不存在时为无操作。
	DeleteByUserID(ctx context.Context, userID uint) error
}
