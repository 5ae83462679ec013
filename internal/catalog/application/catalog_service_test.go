package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/errs"
)

type fakeProductRepo struct {
	products map[uint]*domain.Product
	nextID   uint
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uint]*domain.Product), nextID: 1}
}

func (f *fakeProductRepo) Save(_ context.Context, p *domain.Product) error {
	if p.ID == 0 {
		p.ID = f.nextID
		f.nextID++
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id uint) (*domain.Product, error) {
	return f.products[id], nil
}

func (f *fakeProductRepo) List(_ context.Context, filter domain.ProductFilter, limit, offset int) ([]*domain.Product, int64, error) {
	var out []*domain.Product
	for _, p := range f.products {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.BrandID != 0 && p.BrandID != filter.BrandID {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id uint) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) UpdateRatingStats(_ context.Context, id uint, avg decimal.Decimal, total int) error {
	p := f.products[id]
	p.AverageRating = avg
	p.TotalReviews = total
	return nil
}

func (f *fakeProductRepo) CountActive(context.Context) (int64, error) {
	var n int64
	for _, p := range f.products {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

type fakeBrandRepo struct {
	brands map[uint]*domain.Brand
}

func (f *fakeBrandRepo) Save(_ context.Context, b *domain.Brand) error {
	if b.ID == 0 {
		b.ID = uint(len(f.brands) + 1)
	}
	f.brands[b.ID] = b
	return nil
}

func (f *fakeBrandRepo) GetByID(_ context.Context, id uint) (*domain.Brand, error) {
	return f.brands[id], nil
}

func (f *fakeBrandRepo) ListActive(context.Context) ([]*domain.Brand, error) {
	var out []*domain.Brand
	for _, b := range f.brands {
		if b.IsActive {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	categories map[uint]*domain.Category
}

func (f *fakeCategoryRepo) Save(_ context.Context, c *domain.Category) error {
	if c.ID == 0 {
		c.ID = uint(len(f.categories) + 1)
	}
	f.categories[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id uint) (*domain.Category, error) {
	return f.categories[id], nil
}

func (f *fakeCategoryRepo) ListActive(context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range f.categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakePublisher struct {
	eventTypes []string
	events     []interface{}
}

func (f *fakePublisher) Publish(_ context.Context, eventType, _ string, event interface{}) error {
	f.eventTypes = append(f.eventTypes, eventType)
	f.events = append(f.events, event)
	return nil
}

func newTestCatalog() (*Service, *fakeProductRepo) {
	products := newFakeProductRepo()
	brands := &fakeBrandRepo{brands: map[uint]*domain.Brand{1: {Name: "Acme", IsActive: true}}}
	brands.brands[1].ID = 1
	categories := &fakeCategoryRepo{categories: map[uint]*domain.Category{2: {Name: "Peripherals", IsActive: true}}}
	categories.categories[2].ID = 2

	commands := NewCommandService(products, brands, categories, nil)
	queries := NewQueryService(products, brands, categories, nil)
	return NewService(commands, queries), products
}

func validCreateRequest() *CreateProductRequest {
	return &CreateProductRequest{
		Name:          "Mechanical Keyboard",
		Description:   "Clicky switches",
		BrandID:       1,
		CategoryID:    2,
		SKU:           "KB-001",
		Price:         decimal.NewFromInt(150),
		StockQuantity: 10,
	}
}

func TestCreateProductGeneratesSlug(t *testing.T) {
	svc, _ := newTestCatalog()

	product, err := svc.CreateProduct(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "mechanical-keyboard", product.Slug)
	assert.True(t, product.IsActive)
	assert.Equal(t, 10, product.LowStockThreshold)
}

func TestCreateProductPublishesEvent(t *testing.T) {
	products := newFakeProductRepo()
	brands := &fakeBrandRepo{brands: map[uint]*domain.Brand{1: {Name: "Acme", IsActive: true}}}
	brands.brands[1].ID = 1
	categories := &fakeCategoryRepo{categories: map[uint]*domain.Category{2: {Name: "Peripherals", IsActive: true}}}
	categories.categories[2].ID = 2
	publisher := &fakePublisher{}
	svc := NewService(
		NewCommandService(products, brands, categories, publisher),
		NewQueryService(products, brands, categories, nil),
	)

	product, err := svc.CreateProduct(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, domain.ProductCreatedEventType, publisher.eventTypes[0])
	event, ok := publisher.events[0].(*domain.ProductCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, product.ID, event.ProductID)
	assert.Equal(t, "KB-001", event.SKU)
	assert.True(t, event.Price.Equal(decimal.NewFromInt(150)))
	assert.False(t, event.Timestamp.IsZero())
}

func TestCreateProductRejectsBadPrice(t *testing.T) {
	svc, _ := newTestCatalog()

	req := validCreateRequest()
	req.Price = decimal.Zero
	_, err := svc.CreateProduct(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))

	req.Price = decimal.NewFromInt(-5)
	_, err = svc.CreateProduct(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))
}

func TestCreateProductRejectsUnknownBrand(t *testing.T) {
	svc, _ := newTestCatalog()

	req := validCreateRequest()
	req.BrandID = 99
	_, err := svc.CreateProduct(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, errs.CodeNotFound, errs.CodeOf(err))
}

func TestUpdateProductPartialFields(t *testing.T) {
	svc, _ := newTestCatalog()

	product, err := svc.CreateProduct(context.Background(), validCreateRequest())
	require.NoError(t, err)

	newName := "Silent Keyboard"
	newStock := 3
	updated, err := svc.UpdateProduct(context.Background(), product.ID, &UpdateProductRequest{
		Name:          &newName,
		StockQuantity: &newStock,
	})
	require.NoError(t, err)
	assert.Equal(t, "Silent Keyboard", updated.Name)
	assert.Equal(t, "silent-keyboard", updated.Slug)
	assert.Equal(t, 3, updated.StockQuantity)
	assert.Equal(t, "KB-001", updated.SKU)
}

func TestGetProductHidesInactive(t *testing.T) {
	svc, repo := newTestCatalog()

	product, err := svc.CreateProduct(context.Background(), validCreateRequest())
	require.NoError(t, err)

	repo.products[product.ID].IsActive = false
	_, err = svc.GetProduct(context.Background(), product.ID)
	require.Error(t, err)
	assert.Equal(t, errs.CodeNotFound, errs.CodeOf(err))
}

func TestUpdateRatingStatsWritesThrough(t *testing.T) {
	svc, repo := newTestCatalog()

	product, err := svc.CreateProduct(context.Background(), validCreateRequest())
	require.NoError(t, err)

	err = svc.UpdateRatingStats(context.Background(), product.ID, decimal.NewFromFloat(4.5), 2)
	require.NoError(t, err)
	assert.True(t, repo.products[product.ID].AverageRating.Equal(decimal.NewFromFloat(4.5)))
	assert.Equal(t, 2, repo.products[product.ID].TotalReviews)
}

func TestDeleteProductUnknown(t *testing.T) {
	svc, _ := newTestCatalog()

	err := svc.DeleteProduct(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, errs.CodeNotFound, errs.CodeOf(err))
}
