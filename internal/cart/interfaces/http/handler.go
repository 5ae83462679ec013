// Package http 提供购物车模块的 HTTP 接口层。
package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/cart/application"
	"github.com/wyfcoding/storefront/pkg/errs"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/response"
)

// Handler 购物车 HTTP 处理器
type Handler struct {
	service *application.Service
}

// NewHandler 创建购物车处理器实例
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes 注册购物车路由（需要登录）
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("", h.GetCart)
	router.POST("/add", h.AddItem)
	router.PUT("/update", h.UpdateQuantity)
	router.DELETE("/remove/:productId", h.RemoveItem)
	router.DELETE("/clear", h.Clear)
}

// GetCart 获取当前用户的购物车
func (h *Handler) GetCart(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, errs.Unauthorized("authentication required"))
		return
	}
	cart, err := h.service.GetCart(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cart)
}

type addItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// AddItem 向购物车加入商品
func (h *Handler) AddItem(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, errs.Unauthorized("authentication required"))
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.InvalidArgument(err.Error()))
		return
	}
	cart, err := h.service.AddItem(c.Request.Context(), identity.UserID, req.ProductID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cart)
}

type updateQuantityRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantity 更新购物车中商品数量
func (h *Handler) UpdateQuantity(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, errs.Unauthorized("authentication required"))
		return
	}
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.InvalidArgument(err.Error()))
		return
	}
	cart, err := h.service.UpdateQuantity(c.Request.Context(), identity.UserID, req.ProductID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cart)
}

// RemoveItem 从购物车移除商品
func (h *Handler) RemoveItem(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, errs.Unauthorized("authentication required"))
		return
	}
	productID, err := parseUintParam(c, "productId")
	if err != nil {
		response.Error(c, err)
		return
	}
	cart, err := h.service.RemoveItem(c.Request.Context(), identity.UserID, productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cart)
}

// Clear 清空购物车
func (h *Handler) Clear(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, errs.Unauthorized("authentication required"))
		return
	}
	if err := h.service.Clear(c.Request.Context(), identity.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "cart cleared")
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errs.InvalidArgument("invalid " + name)
	}
	return uint(v), nil
}
