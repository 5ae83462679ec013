package infrastructure

import (
	"context"

	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/pkg/errs"
)

// CatalogChecker 基于商品目录应用服务实现 application.ProductChecker。
type CatalogChecker struct {
	catalog *catalogapp.Service
}

// NewCatalogChecker 创建商品存在性校验适配器
func NewCatalogChecker(catalog *catalogapp.Service) *CatalogChecker {
	return &CatalogChecker{catalog: catalog}
}

// ProductExists 商品在售时返回 true。
func (a *CatalogChecker) ProductExists(ctx context.Context, productID uint) (bool, error) {
	_, err := a.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errs.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
