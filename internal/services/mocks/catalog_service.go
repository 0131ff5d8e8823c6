package mocks

import (
	"context"

	"github.com/storefront-go/storefront/internal/models"
	service "github.com/storefront-go/storefront/internal/services"
	"github.com/stretchr/testify/mock"
)

type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) EnsureFetched(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *CatalogService) Status() service.FetchStatus {
	args := m.Called()

	return args.Get(0).(service.FetchStatus)
}

func (m *CatalogService) ListProducts(ctx context.Context, filter *models.ProductFilter) (service.ProductPage, error) {
	args := m.Called(ctx, filter)

	if page, ok := args.Get(0).(service.ProductPage); ok {
		return page, args.Error(1)
	}

	return service.ProductPage{}, args.Error(1)
}

func (m *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)

	if product, ok := args.Get(0).(*models.Product); ok {
		return product, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CatalogService) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)

	if categories, ok := args.Get(0).([]string); ok {
		return categories, args.Error(1)
	}

	return nil, args.Error(1)
}
