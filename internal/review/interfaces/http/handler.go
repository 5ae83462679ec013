// Package http 提供评价模块的 HTTP 接口层。
package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/review/application"
	"github.com/wyfcoding/storefront/pkg/errs"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/response"
)

// Handler 评价 HTTP 处理器
type Handler struct {
	service *application.Service
}

// NewHandler 创建评价处理器实例
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes 注册公开路由
func (h *Handler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/reviews/:productId", h.ListByProduct)
}

// RegisterRoutes 注册需登录的路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/reviews", h.Create)
	router.POST("/reviews/:id/helpful", h.MarkHelpful)
}

// ListByProduct 分页列出商品评价
func (h *Handler) ListByProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil || productID == 0 {
		response.Error(c, errs.InvalidArgument("invalid productId"))
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	result, err := h.service.ListByProduct(c.Request.Context(), uint(productID), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Create 创建评价
func (h *Handler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, errs.Unauthorized("authentication required"))
		return
	}
	var req application.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.InvalidArgument(err.Error()))
		return
	}
	review, err := h.service.Create(c.Request.Context(), identity.UserID, identity.Name, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, review)
}

// MarkHelpful 有用投票
func (h *Handler) MarkHelpful(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reviewID == 0 {
		response.Error(c, errs.InvalidArgument("invalid id"))
		return
	}
	if err := h.service.MarkHelpful(c.Request.Context(), uint(reviewID)); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "vote recorded")
}
