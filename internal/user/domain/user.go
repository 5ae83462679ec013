// Package domain 定义用户模块的领域模型与仓储接口。
package domain

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 用户角色
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User 用户。邮箱统一存小写并作唯一键。
type User struct {
	gorm.Model
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Role         string `gorm:"size:20;not null;default:customer" json:"role"`
	Phone        string `gorm:"size:20" json:"phone"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// SetPassword 以 bcrypt 哈希存储密码
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验明文密码
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserRepository 用户仓储接口
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	// GetByEmail 按小写邮箱查找，不存在时返回 nil。
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID 不存在时返回 nil。
	GetByID(ctx context.Context, id uint) (*User, error)
	// List 分页列出用户，按注册时间倒序。
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)
	// CountCustomers 统计 customer 角色用户数。
	CountCustomers(ctx context.Context) (int64, error)
}
