// Package http 提供订单模块的 HTTP 接口层。
package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/order/application"
	"github.com/wyfcoding/storefront/internal/order/domain"
	"github.com/wyfcoding/storefront/pkg/errs"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/response"
)

// Handler 订单 HTTP 处理器
type Handler struct {
	service *application.Service
}

// NewHandler 创建订单处理器实例
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes 注册用户侧订单路由（需要登录）
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("", h.Checkout)
	router.GET("", h.ListMyOrders)
	router.GET("/:id", h.GetOrder)
}

// RegisterAdminRoutes 注册管理端订单路由（需要 admin 角色）
func (h *Handler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/orders", h.ListAllOrders)
	router.PUT("/orders/:id/status", h.UpdateStatus)
}

// Checkout 结算下单
func (h *Handler) Checkout(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, errs.Unauthorized("authentication required"))
		return
	}
	var req application.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.InvalidArgument(err.Error()))
		return
	}
	order, err := h.service.Checkout(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order)
}

// ListMyOrders 分页列出当前用户的订单
func (h *Handler) ListMyOrders(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, errs.Unauthorized("authentication required"))
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	result, err := h.service.ListUserOrders(c.Request.Context(), identity.UserID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, errs.Unauthorized("authentication required"))
		return
	}
	orderID, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	order, err := h.service.GetOrder(c.Request.Context(), identity, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

// ListAllOrders 管理端按状态分页列出订单
func (h *Handler) ListAllOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	status := domain.OrderStatus(c.Query("status"))

	result, err := h.service.ListAllOrders(c.Request.Context(), status, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

type updateStatusRequest struct {
	Status         domain.OrderStatus `json:"status" binding:"required"`
	TrackingNumber string             `json:"tracking_number"`
}

// UpdateStatus 管理端更新订单状态
func (h *Handler) UpdateStatus(c *gin.Context) {
	orderID, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.InvalidArgument(err.Error()))
		return
	}
	order, err := h.service.UpdateStatus(c.Request.Context(), orderID, req.Status, req.TrackingNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.InvalidArgument("invalid id")
	}
	return uint(id), nil
}
