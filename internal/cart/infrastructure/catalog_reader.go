// Package infrastructure 提供购物车模块对外部模块的适配实现。
package infrastructure

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/application"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/pkg/errs"
)

// CatalogProductReader 基于商品目录应用服务实现 application.ProductReader。
type CatalogProductReader struct {
	catalog *catalogapp.Service
}

// NewCatalogProductReader 创建商品信息读取适配器
func NewCatalogProductReader(catalog *catalogapp.Service) *CatalogProductReader {
	return &CatalogProductReader{catalog: catalog}
}

// GetProductInfo 实现 application.ProductReader。商品不存在或已下架时返回 nil。
func (r *CatalogProductReader) GetProductInfo(ctx context.Context, productID uint) (*application.ProductInfo, error) {
	product, err := r.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &application.ProductInfo{
		ID:            product.ID,
		Name:          product.Name,
		Image:         product.FirstImage(),
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
	}, nil
}
