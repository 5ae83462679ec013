package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/user/domain"
	"github.com/wyfcoding/storefront/pkg/errs"
)

type fakeUserRepo struct {
	users  map[string]*domain.User
	byID   map[uint]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User), byID: make(map[uint]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Save(_ context.Context, user *domain.User) error {
	if user.ID == 0 {
		user.ID = f.nextID
		f.nextID++
	}
	f.users[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return f.users[email], nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*domain.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) CountCustomers(context.Context) (int64, error) {
	var n int64
	for _, u := range f.byID {
		if u.Role == domain.RoleCustomer {
			n++
		}
	}
	return n, nil
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(user *domain.User) (string, time.Time, error) {
	return "token-" + user.Email, time.Now().Add(time.Hour), nil
}

func TestRegisterNormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, fakeTokenIssuer{})

	result, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Asha",
		Email:    "  Asha@Example.COM ",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", result.User.Email)
	assert.Equal(t, domain.RoleCustomer, result.User.Role)
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, "secret123", result.User.PasswordHash)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, fakeTokenIssuer{})

	_, err := svc.Register(context.Background(), &RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &RegisterRequest{Name: "Other", Email: "ASHA@example.com", Password: "secret456"})
	require.Error(t, err)
	assert.Equal(t, errs.CodeConflict, errs.CodeOf(err))
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, fakeTokenIssuer{})

	_, err := svc.Register(context.Background(), &RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), &LoginRequest{Email: "Asha@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", result.User.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, fakeTokenIssuer{})

	_, err := svc.Register(context.Background(), &RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)

	// 密码错误与用户不存在返回同一错误码与消息
	_, wrongPw := svc.Login(context.Background(), &LoginRequest{Email: "asha@example.com", Password: "wrong"})
	require.Error(t, wrongPw)
	_, noUser := svc.Login(context.Background(), &LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	require.Error(t, noUser)

	assert.Equal(t, errs.CodeUnauthorized, errs.CodeOf(wrongPw))
	assert.Equal(t, errs.CodeUnauthorized, errs.CodeOf(noUser))
	assert.Equal(t, errs.MessageOf(wrongPw), errs.MessageOf(noUser))
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, fakeTokenIssuer{})

	result, err := svc.Register(context.Background(), &RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)
	result.User.IsActive = false

	_, err = svc.Login(context.Background(), &LoginRequest{Email: "asha@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, errs.CodeForbidden, errs.CodeOf(err))
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, fakeTokenIssuer{})

	result, err := svc.Register(context.Background(), &RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), result.User.ID, "Asha Rao", "9999999999")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", updated.Name)
	assert.Equal(t, "9999999999", updated.Phone)

	// 空字段保持原值
	updated, err = svc.UpdateProfile(context.Background(), result.User.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", updated.Name)
}
