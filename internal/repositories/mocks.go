package repository

import (
	"context"

	"github.com/storefront-go/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockCatalogRepository struct {
	mock.Mock
}

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{}
}

func (m *MockCatalogRepository) FetchProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)

	if products, ok := args.Get(0).([]models.Product); ok {
		return products, args.Error(1)
	}

	return nil, args.Error(1)
}
