// Package errs 提供带错误码的业务错误类型，用于在应用层与 HTTP 层之间传递错误语义
package errs

import (
	"errors"
	"fmt"
)

// Code 业务错误码
type Code string

const (
	// CodeInvalidArgument 请求参数非法或缺失
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeNotFound 目标资源不存在
	CodeNotFound Code = "NOT_FOUND"
	// CodeUnauthorized 凭证缺失或无效
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeForbidden 角色权限不足
	CodeForbidden Code = "FORBIDDEN"
	// CodeEmptyCart 结算前置条件失败：购物车为空
	CodeEmptyCart Code = "EMPTY_CART"
	// CodeConflict 资源状态冲突（库存不足、重复注册等）
	CodeConflict Code = "CONFLICT"
	// CodeInternal 存储或下游 I/O 失败
	CodeInternal Code = "INTERNAL"
)

// Error 业务错误，携带错误码、提示信息和底层原因
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层原因
func (e *Error) Unwrap() error {
	return e.Cause
}

// New 创建业务错误
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf 创建带格式化信息的业务错误
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// InvalidArgument 创建参数错误
func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

// NotFound 创建资源不存在错误
func NotFound(message string) *Error { return New(CodeNotFound, message) }

// Unauthorized 创建未认证错误
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }

// Forbidden 创建权限不足错误
func Forbidden(message string) *Error { return New(CodeForbidden, message) }

// Internal 包装存储层错误
func Internal(message string, cause error) *Error {
	return Wrap(CodeInternal, message, cause)
}

// CodeOf 提取错误码；非业务错误一律视为 INTERNAL
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf 提取用户可见的提示信息
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// Is 判断错误是否携带指定错误码
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// IsNotFound 判断是否为资源不存在错误
func IsNotFound(err error) bool { return Is(err, CodeNotFound) }

// IsInvalidArgument 判断是否为参数错误
func IsInvalidArgument(err error) bool { return Is(err, CodeInvalidArgument) }
