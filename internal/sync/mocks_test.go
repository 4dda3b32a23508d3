package sync

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tradesync/internal/models"
	"tradesync/internal/trademaster"
)

// fakeVendor is a scripted VendorCatalog for pass tests.
type fakeVendor struct {
	catalog    []trademaster.CatalogItem
	catalogErr error

	count    int
	countErr error

	pages    map[int][]trademaster.ProductItem
	pagesErr error

	itemListCalls []int // offsets, in call order
}

func (f *fakeVendor) CatalogList(ctx context.Context) ([]trademaster.CatalogItem, error) {
	return f.catalog, f.catalogErr
}

func (f *fakeVendor) ItemCount(ctx context.Context) (int, error) {
	return f.count, f.countErr
}

func (f *fakeVendor) ItemList(ctx context.Context, storage, offset, limit int) ([]trademaster.ProductItem, error) {
	f.itemListCalls = append(f.itemListCalls, offset)
	if f.pagesErr != nil {
		return nil, f.pagesErr
	}
	return f.pages[offset], nil
}

type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) ActiveByExport(ctx context.Context, export string) ([]*models.Category, error) {
	args := m.Called(ctx, export)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryRepo) Save(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepo) List(ctx context.Context, status models.Status, limit, offset int) ([]*models.Category, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) ActiveByExport(ctx context.Context, export string) ([]*models.Product, error) {
	args := m.Called(ctx, export)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepo) Save(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepo) List(ctx context.Context, status models.Status, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepo) ListUnsent(ctx context.Context, limit int) ([]*models.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepo) SetExternalID(ctx context.Context, id uuid.UUID, externalID string) error {
	args := m.Called(ctx, id, externalID)
	return args.Error(0)
}

type MockCartSubmitter struct {
	mock.Mock
}

func (m *MockCartSubmitter) SubmitCart(ctx context.Context, cart trademaster.Cart) (string, error) {
	args := m.Called(ctx, cart)
	return args.String(0), args.Error(1)
}
