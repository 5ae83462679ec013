// Package http 提供管理端看板的 HTTP 接口层。
package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/admin/application"
	"github.com/wyfcoding/storefront/pkg/response"
)

// Handler 管理端看板 HTTP 处理器
type Handler struct {
	service *application.Service
}

// NewHandler 创建看板处理器实例
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes 注册看板路由（需要 admin 角色）
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.GetDashboard)
	router.GET("/top-products", h.TopProducts)
	router.GET("/recent-orders", h.RecentOrders)
}

// GetDashboard 获取看板汇总
func (h *Handler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.GetDashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dashboard)
}

// TopProducts 销量排行
func (h *Handler) TopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	top, err := h.service.TopProducts(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, top)
}

// RecentOrders 最近订单
func (h *Handler) RecentOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	orders, err := h.service.RecentOrders(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, orders)
}
