// Package response 提供统一的 HTTP 响应封装，所有响应均携带 success 标志
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/pkg/errs"
)

// Success 返回成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Created 返回资源创建成功响应
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// SuccessMessage 返回仅携带提示信息的成功响应
func SuccessMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// Error 根据业务错误码返回对应状态码的失败响应
func Error(c *gin.Context, err error) {
	ErrorWithStatus(c, statusOf(err), errs.MessageOf(err))
}

// ErrorWithStatus 返回指定状态码的失败响应
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// statusOf 错误码到 HTTP 状态码的映射
func statusOf(err error) int {
	switch errs.CodeOf(err) {
	case errs.CodeInvalidArgument, errs.CodeEmptyCart:
		return http.StatusBadRequest
	case errs.CodeNotFound:
		return http.StatusNotFound
	case errs.CodeUnauthorized:
		return http.StatusUnauthorized
	case errs.CodeForbidden:
		return http.StatusForbidden
	case errs.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
