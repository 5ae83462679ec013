// Package application 实现用户模块的应用服务：注册、登录与资料维护。
package application

import (
	"context"
	"strings"
	"time"

	"github.com/wyfcoding/storefront/internal/user/domain"
	"github.com/wyfcoding/storefront/pkg/errs"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/utils"
)

// TokenIssuer 令牌签发端口
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult 注册或登录结果
type AuthResult struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// UserListResult 用户列表查询结果
type UserListResult struct {
	Users      []*domain.User    `json:"users"`
	Pagination *utils.Pagination `json:"pagination"`
}

// Service 用户应用服务
type Service struct {
	users  domain.UserRepository
	tokens TokenIssuer
}

// NewService 创建用户应用服务实例
func NewService(users domain.UserRepository, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register 注册新用户并签发令牌，邮箱不区分大小写且全局唯一。
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.New(errs.CodeConflict, "email already registered")
	}

	user := &domain.User{
		Name:     req.Name,
		Email:    email,
		Role:     domain.RoleCustomer,
		Phone:    req.Phone,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errs.Wrap(errs.CodeInternal, "failed to hash password", err)
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, "failed to issue token", err)
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Login 校验凭证并签发令牌。用户不存在与密码错误返回同一错误，不泄露存在性。
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CheckPassword(req.Password) {
		return nil, errs.Unauthorized("invalid email or password")
	}
	if !user.IsActive {
		return nil, errs.Forbidden("account is disabled")
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, "failed to issue token", err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// GetProfile 获取用户资料
func (s *Service) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.NotFound("user not found")
	}
	return user, nil
}

// UpdateProfile 更新用户资料（姓名与电话）
func (s *Service) UpdateProfile(ctx context.Context, userID uint, name, phone string) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	if phone != "" {
		user.Phone = phone
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers 管理端分页列出用户
func (s *Service) ListUsers(ctx context.Context, page, pageSize int) (*UserListResult, error) {
	pagination := utils.NewPagination(page, pageSize, 0)
	users, total, err := s.users.List(ctx, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, err
	}
	return &UserListResult{
		Users:      users,
		Pagination: utils.NewPagination(page, pageSize, total),
	}, nil
}
