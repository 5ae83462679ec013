// Package http 提供商品目录模块的 HTTP 接口层。
package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/pkg/errs"
	"github.com/wyfcoding/storefront/pkg/response"
)

// Handler 商品目录 HTTP 处理器
type Handler struct {
	service *application.Service
}

// NewHandler 创建目录处理器实例
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes 注册公开路由（无需登录）
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/products", h.ListProducts)
	router.GET("/products/:id", h.GetProduct)
	router.GET("/brands", h.ListBrands)
	router.GET("/categories", h.ListCategories)
}

// RegisterAdminRoutes 注册管理端路由（需要 admin 角色）
func (h *Handler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("/products", h.CreateProduct)
	router.PUT("/products/:id", h.UpdateProduct)
	router.DELETE("/products/:id", h.DeleteProduct)
	router.POST("/brands", h.CreateBrand)
	router.POST("/categories", h.CreateCategory)
}

// ListProducts 分页查询商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	query := &application.ListProductsQuery{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if v := c.Query("brand_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			response.Error(c, errs.InvalidArgument("invalid brand_id"))
			return
		}
		query.BrandID = uint(id)
	}
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			response.Error(c, errs.InvalidArgument("invalid category_id"))
			return
		}
		query.CategoryID = uint(id)
	}
	if v := c.Query("min_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			response.Error(c, errs.InvalidArgument("invalid min_price"))
			return
		}
		query.MinPrice = &price
	}
	if v := c.Query("max_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			response.Error(c, errs.InvalidArgument("invalid max_price"))
			return
		}
		query.MaxPrice = &price
	}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "12"))

	result, err := h.service.ListProducts(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, product)
}

// ListBrands 列出品牌
func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.service.ListBrands(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, brands)
}

// ListCategories 列出分类
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, categories)
}

// CreateProduct 创建商品（管理端）
func (h *Handler) CreateProduct(c *gin.Context) {
	var req application.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.InvalidArgument(err.Error()))
		return
	}
	product, err := h.service.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, product)
}

// UpdateProduct 更新商品（管理端）
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req application.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.InvalidArgument(err.Error()))
		return
	}
	product, err := h.service.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品（管理端）
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "product deleted")
}

type createBrandRequest struct {
	Name        string `json:"name" binding:"required"`
	Logo        string `json:"logo"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// CreateBrand 创建品牌（管理端）
func (h *Handler) CreateBrand(c *gin.Context) {
	var req createBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.InvalidArgument(err.Error()))
		return
	}
	brand, err := h.service.CreateBrand(c.Request.Context(), req.Name, req.Logo, req.Description, req.Website)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, brand)
}

type createCategoryRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	ParentID     uint   `json:"parent_id"`
	DisplayOrder int    `json:"display_order"`
}

// CreateCategory 创建分类（管理端）
func (h *Handler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.InvalidArgument(err.Error()))
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), req.Name, req.Description, req.Image, req.ParentID, req.DisplayOrder)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.InvalidArgument("invalid id")
	}
	return uint(id), nil
}
