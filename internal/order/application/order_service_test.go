package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/order/domain"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/errs"
	"github.com/wyfcoding/storefront/pkg/middleware"
)

type fakeOrderRepo struct {
	orders     map[uint]*domain.Order
	nextID     uint
	placeErr   error
	decrements []domain.StockDecrement
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*domain.Order), nextID: 1}
}

func (f *fakeOrderRepo) PlaceOrder(_ context.Context, order *domain.Order, decrements []domain.StockDecrement, _ uint, _ time.Time) error {
	if f.placeErr != nil {
		return f.placeErr
	}
	order.ID = f.nextID
	f.nextID++
	f.orders[order.ID] = order
	f.decrements = decrements
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uint) (*domain.Order, error) {
	return f.orders[id], nil
}

func (f *fakeOrderRepo) List(_ context.Context, filter domain.OrderFilter, limit, offset int) ([]*domain.Order, int64, error) {
	var out []*domain.Order
	for _, o := range f.orders {
		if filter.UserID != 0 && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id uint, update domain.StatusUpdate) error {
	o := f.orders[id]
	o.Status = update.Status
	o.PaymentStatus = update.PaymentStatus
	if update.TrackingNumber != "" {
		o.TrackingNumber = update.TrackingNumber
	}
	if update.ShippedAt != nil {
		o.ShippedAt = update.ShippedAt
	}
	if update.DeliveredAt != nil {
		o.DeliveredAt = update.DeliveredAt
	}
	return nil
}

func (f *fakeOrderRepo) SalesStats(context.Context) (int64, int64, decimal.Decimal, error) {
	return int64(len(f.orders)), 0, decimal.Zero, nil
}

func (f *fakeOrderRepo) TopProducts(context.Context, int) ([]domain.TopProduct, error) {
	return nil, nil
}

type fakeCartReader struct {
	snapshot *CartSnapshot
}

func (f *fakeCartReader) GetCartSnapshot(context.Context, uint) (*CartSnapshot, error) {
	return f.snapshot, nil
}

type fakeInvalidator struct {
	productIDs []uint
}

func (f *fakeInvalidator) InvalidateProduct(_ context.Context, productID uint) {
	f.productIDs = append(f.productIDs, productID)
}

type fakeLocker struct {
	held map[string]bool
}

func newFakeLocker() *fakeLocker { return &fakeLocker{held: make(map[string]bool)} }

func (f *fakeLocker) SetNX(_ context.Context, key string, _ interface{}, _ time.Duration) (bool, error) {
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeLocker) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.held, k)
	}
	return nil
}

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		TaxRate:               0.18,
		FreeShippingThreshold: 500,
		ShippingFlatFee:       50,
		OrderNumberPrefix:     "ORD",
		LockTTL:               10,
	}
}

func snapshotWithSubtotal(lines []CartLine) *CartSnapshot {
	subtotal := decimal.Zero
	for i := range lines {
		lines[i].LineTotal = lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(lines[i].Quantity)))
		subtotal = subtotal.Add(lines[i].LineTotal)
	}
	return &CartSnapshot{
		CartID:    7,
		UpdatedAt: time.Now(),
		Lines:     lines,
		Subtotal:  subtotal,
	}
}

func validAddress() domain.Address {
	return domain.Address{
		FullName:   "Asha Rao",
		Phone:      "9999999999",
		Line1:      "12 MG Road",
		City:       "Bengaluru",
		State:      "KA",
		PostalCode: "560001",
		Country:    "IN",
	}
}

func TestCheckoutComputesTaxAndFreeShipping(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, &fakeCartReader{snapshot: snapshotWithSubtotal([]CartLine{
		{ProductID: 1, ProductName: "monitor", UnitPrice: decimal.NewFromInt(300), Quantity: 2},
	})}, newFakeLocker(), nil, nil, nil, testCheckoutConfig())

	order, err := svc.Checkout(context.Background(), 1, &CheckoutRequest{
		PaymentMethod:   domain.PaymentMethodUPI,
		ShippingAddress: validAddress(),
	})
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(600)), "subtotal %s", order.Subtotal)
	assert.True(t, order.TaxAmount.Equal(decimal.NewFromInt(108)), "tax %s", order.TaxAmount)
	assert.True(t, order.ShippingFee.IsZero(), "shipping %s", order.ShippingFee)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(708)), "total %s", order.TotalAmount)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
}

func TestCheckoutChargesFlatShippingBelowThreshold(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, &fakeCartReader{snapshot: snapshotWithSubtotal([]CartLine{
		{ProductID: 1, ProductName: "mouse", UnitPrice: decimal.NewFromInt(200), Quantity: 2},
	})}, newFakeLocker(), nil, nil, nil, testCheckoutConfig())

	order, err := svc.Checkout(context.Background(), 1, &CheckoutRequest{
		PaymentMethod:   domain.PaymentMethodCOD,
		ShippingAddress: validAddress(),
	})
	require.NoError(t, err)

	assert.True(t, order.TaxAmount.Equal(decimal.NewFromInt(72)), "tax %s", order.TaxAmount)
	assert.True(t, order.ShippingFee.Equal(decimal.NewFromInt(50)), "shipping %s", order.ShippingFee)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(522)), "total %s", order.TotalAmount)
}

func TestCheckoutPaymentStatusByMethod(t *testing.T) {
	lines := []CartLine{{ProductID: 1, ProductName: "mouse", UnitPrice: decimal.NewFromInt(100), Quantity: 1}}

	svc := NewService(newFakeOrderRepo(), &fakeCartReader{snapshot: snapshotWithSubtotal(lines)},
		newFakeLocker(), nil, nil, nil, testCheckoutConfig())
	order, err := svc.Checkout(context.Background(), 1, &CheckoutRequest{
		PaymentMethod:   domain.PaymentMethodCOD,
		ShippingAddress: validAddress(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)

	svc = NewService(newFakeOrderRepo(), &fakeCartReader{snapshot: snapshotWithSubtotal(lines)},
		newFakeLocker(), nil, nil, nil, testCheckoutConfig())
	order, err = svc.Checkout(context.Background(), 2, &CheckoutRequest{
		PaymentMethod:   domain.PaymentMethodCreditCard,
		ShippingAddress: validAddress(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, order.PaymentStatus)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := NewService(newFakeOrderRepo(), &fakeCartReader{snapshot: nil},
		newFakeLocker(), nil, nil, nil, testCheckoutConfig())

	_, err := svc.Checkout(context.Background(), 1, &CheckoutRequest{
		PaymentMethod:   domain.PaymentMethodUPI,
		ShippingAddress: validAddress(),
	})
	require.Error(t, err)
	assert.Equal(t, errs.CodeEmptyCart, errs.CodeOf(err))
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	svc := NewService(newFakeOrderRepo(), &fakeCartReader{}, newFakeLocker(), nil, nil, nil, testCheckoutConfig())

	_, err := svc.Checkout(context.Background(), 1, &CheckoutRequest{
		PaymentMethod:   "bitcoin",
		ShippingAddress: validAddress(),
	})
	require.Error(t, err)
	assert.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))
}

func TestCheckoutLockContention(t *testing.T) {
	locker := newFakeLocker()
	// 预占同一用户的锁
	_, err := locker.SetNX(context.Background(), "checkout:lock:1", 1, time.Second)
	require.NoError(t, err)

	svc := NewService(newFakeOrderRepo(), &fakeCartReader{snapshot: snapshotWithSubtotal([]CartLine{
		{ProductID: 1, ProductName: "mouse", UnitPrice: decimal.NewFromInt(100), Quantity: 1},
	})}, locker, nil, nil, nil, testCheckoutConfig())

	_, err = svc.Checkout(context.Background(), 1, &CheckoutRequest{
		PaymentMethod:   domain.PaymentMethodUPI,
		ShippingAddress: validAddress(),
	})
	require.Error(t, err)
	assert.Equal(t, errs.CodeConflict, errs.CodeOf(err))
}

func TestCheckoutReleasesLock(t *testing.T) {
	locker := newFakeLocker()
	svc := NewService(newFakeOrderRepo(), &fakeCartReader{snapshot: snapshotWithSubtotal([]CartLine{
		{ProductID: 1, ProductName: "mouse", UnitPrice: decimal.NewFromInt(100), Quantity: 1},
	})}, locker, nil, nil, nil, testCheckoutConfig())

	_, err := svc.Checkout(context.Background(), 1, &CheckoutRequest{
		PaymentMethod:   domain.PaymentMethodUPI,
		ShippingAddress: validAddress(),
	})
	require.NoError(t, err)
	assert.False(t, locker.held["checkout:lock:1"])
}

func TestCheckoutInvalidatesProductCache(t *testing.T) {
	invalidator := &fakeInvalidator{}
	svc := NewService(newFakeOrderRepo(), &fakeCartReader{snapshot: snapshotWithSubtotal([]CartLine{
		{ProductID: 3, ProductName: "monitor", UnitPrice: decimal.NewFromInt(300), Quantity: 1},
		{ProductID: 8, ProductName: "mouse", UnitPrice: decimal.NewFromInt(100), Quantity: 2},
	})}, newFakeLocker(), invalidator, nil, nil, testCheckoutConfig())

	_, err := svc.Checkout(context.Background(), 1, &CheckoutRequest{
		PaymentMethod:   domain.PaymentMethodUPI,
		ShippingAddress: validAddress(),
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{3, 8}, invalidator.productIDs)
}

func TestCheckoutMapsInsufficientStock(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.placeErr = &domain.InsufficientStockError{ProductID: 1, ProductName: "mouse"}

	svc := NewService(repo, &fakeCartReader{snapshot: snapshotWithSubtotal([]CartLine{
		{ProductID: 1, ProductName: "mouse", UnitPrice: decimal.NewFromInt(100), Quantity: 3},
	})}, newFakeLocker(), nil, nil, nil, testCheckoutConfig())

	_, err := svc.Checkout(context.Background(), 1, &CheckoutRequest{
		PaymentMethod:   domain.PaymentMethodUPI,
		ShippingAddress: validAddress(),
	})
	require.Error(t, err)
	assert.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))
	assert.Contains(t, errs.MessageOf(err), "mouse")
}

func TestCheckoutMapsCartChanged(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.placeErr = domain.ErrCartChanged

	svc := NewService(repo, &fakeCartReader{snapshot: snapshotWithSubtotal([]CartLine{
		{ProductID: 1, ProductName: "mouse", UnitPrice: decimal.NewFromInt(100), Quantity: 1},
	})}, newFakeLocker(), nil, nil, nil, testCheckoutConfig())

	_, err := svc.Checkout(context.Background(), 1, &CheckoutRequest{
		PaymentMethod:   domain.PaymentMethodUPI,
		ShippingAddress: validAddress(),
	})
	require.Error(t, err)
	assert.Equal(t, errs.CodeConflict, errs.CodeOf(err))
}

func TestCheckoutPassesStockDecrements(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, &fakeCartReader{snapshot: snapshotWithSubtotal([]CartLine{
		{ProductID: 1, ProductName: "mouse", UnitPrice: decimal.NewFromInt(100), Quantity: 2},
		{ProductID: 2, ProductName: "keyboard", UnitPrice: decimal.NewFromInt(150), Quantity: 1},
	})}, newFakeLocker(), nil, nil, nil, testCheckoutConfig())

	order, err := svc.Checkout(context.Background(), 1, &CheckoutRequest{
		PaymentMethod:   domain.PaymentMethodUPI,
		ShippingAddress: validAddress(),
	})
	require.NoError(t, err)
	require.Len(t, repo.decrements, 2)
	assert.Equal(t, uint(1), repo.decrements[0].ProductID)
	assert.Equal(t, 2, repo.decrements[0].Quantity)
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[1].LineTotal.Equal(decimal.NewFromInt(150)))
}

func TestGetOrderOwnership(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.orders[1] = &domain.Order{UserID: 42, Status: domain.OrderStatusPending}
	repo.orders[1].ID = 1

	svc := NewService(repo, &fakeCartReader{}, newFakeLocker(), nil, nil, nil, testCheckoutConfig())

	_, err := svc.GetOrder(context.Background(), middleware.Identity{UserID: 42, Role: "customer"}, 1)
	assert.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), middleware.Identity{UserID: 7, Role: "customer"}, 1)
	require.Error(t, err)
	assert.Equal(t, errs.CodeForbidden, errs.CodeOf(err))

	_, err = svc.GetOrder(context.Background(), middleware.Identity{UserID: 7, Role: "admin"}, 1)
	assert.NoError(t, err)
}

func TestUpdateStatusEnforcesStateMachine(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.orders[1] = &domain.Order{
		UserID:        42,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		PaymentMethod: domain.PaymentMethodCOD,
	}
	repo.orders[1].ID = 1

	svc := NewService(repo, &fakeCartReader{}, newFakeLocker(), nil, nil, nil, testCheckoutConfig())

	_, err := svc.UpdateStatus(context.Background(), 1, domain.OrderStatusDelivered, "")
	require.Error(t, err)
	assert.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))

	order, err := svc.UpdateStatus(context.Background(), 1, domain.OrderStatusConfirmed, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
}

func TestUpdateStatusCompletesCODPaymentOnDelivery(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.orders[1] = &domain.Order{
		UserID:        42,
		Status:        domain.OrderStatusShipped,
		PaymentStatus: domain.PaymentStatusPending,
		PaymentMethod: domain.PaymentMethodCOD,
	}
	repo.orders[1].ID = 1

	svc := NewService(repo, &fakeCartReader{}, newFakeLocker(), nil, nil, nil, testCheckoutConfig())

	order, err := svc.UpdateStatus(context.Background(), 1, domain.OrderStatusDelivered, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, order.Status)
	assert.Equal(t, domain.PaymentStatusCompleted, order.PaymentStatus)
	assert.NotNil(t, order.DeliveredAt)
}

func TestUpdateStatusRecordsShipmentDetails(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.orders[1] = &domain.Order{
		UserID:        42,
		Status:        domain.OrderStatusProcessing,
		PaymentStatus: domain.PaymentStatusCompleted,
		PaymentMethod: domain.PaymentMethodUPI,
	}
	repo.orders[1].ID = 1

	svc := NewService(repo, &fakeCartReader{}, newFakeLocker(), nil, nil, nil, testCheckoutConfig())

	order, err := svc.UpdateStatus(context.Background(), 1, domain.OrderStatusShipped, "TRK-4471")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, order.Status)
	assert.Equal(t, "TRK-4471", order.TrackingNumber)
	assert.NotNil(t, order.ShippedAt)
	assert.Nil(t, order.DeliveredAt)
}

func TestUpdateStatusRefundsPaidOrderOnCancellation(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.orders[1] = &domain.Order{
		UserID:        42,
		Status:        domain.OrderStatusConfirmed,
		PaymentStatus: domain.PaymentStatusCompleted,
		PaymentMethod: domain.PaymentMethodCreditCard,
	}
	repo.orders[1].ID = 1

	svc := NewService(repo, &fakeCartReader{}, newFakeLocker(), nil, nil, nil, testCheckoutConfig())

	order, err := svc.UpdateStatus(context.Background(), 1, domain.OrderStatusCancelled, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)
	assert.Equal(t, domain.PaymentStatusRefunded, order.PaymentStatus)
}

func TestCheckoutDefaultsBillingToShippingAddress(t *testing.T) {
	lines := []CartLine{{ProductID: 1, ProductName: "mouse", UnitPrice: decimal.NewFromInt(100), Quantity: 1}}

	svc := NewService(newFakeOrderRepo(), &fakeCartReader{snapshot: snapshotWithSubtotal(lines)},
		newFakeLocker(), nil, nil, nil, testCheckoutConfig())
	order, err := svc.Checkout(context.Background(), 1, &CheckoutRequest{
		PaymentMethod:   domain.PaymentMethodUPI,
		ShippingAddress: validAddress(),
	})
	require.NoError(t, err)
	assert.Equal(t, order.ShippingAddress, order.BillingAddress)

	billing := validAddress()
	billing.Line1 = "88 Residency Road"
	svc = NewService(newFakeOrderRepo(), &fakeCartReader{snapshot: snapshotWithSubtotal([]CartLine{
		{ProductID: 1, ProductName: "mouse", UnitPrice: decimal.NewFromInt(100), Quantity: 1},
	})}, newFakeLocker(), nil, nil, nil, testCheckoutConfig())
	order, err = svc.Checkout(context.Background(), 2, &CheckoutRequest{
		PaymentMethod:   domain.PaymentMethodUPI,
		ShippingAddress: validAddress(),
		BillingAddress:  &billing,
	})
	require.NoError(t, err)
	assert.Equal(t, "88 Residency Road", order.BillingAddress.Line1)
	assert.Equal(t, "12 MG Road", order.ShippingAddress.Line1)
}
