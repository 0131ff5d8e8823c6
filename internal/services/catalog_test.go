package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appErrors "github.com/storefront-go/storefront/internal/errors"
	"github.com/storefront-go/storefront/internal/models"
	repository "github.com/storefront-go/storefront/internal/repositories"
	service "github.com/storefront-go/storefront/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func catalogFixture() []models.Product {
	return []models.Product{
		product(1, 30, "electronics", 4.5),
		product(2, 10, "jewelery", 2.0),
		product(3, 20, "electronics", 0),
	}
}

func TestEnsureFetched(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Fetches once and becomes terminal", func(t *testing.T) {
		// Arrange
		mockRepo := repository.NewMockCatalogRepository()
		catalogService := service.NewCatalogService(mockRepo)
		mockRepo.On("FetchProducts", mock.Anything).Return(catalogFixture(), nil).Once()

		assert.Equal(t, service.StatusIdle, catalogService.Status())

		// Act
		err := catalogService.EnsureFetched(ctx)
		errAgain := catalogService.EnsureFetched(ctx)

		// Assert
		assert.NoError(t, err)
		assert.NoError(t, errAgain)
		assert.Equal(t, service.StatusSucceeded, catalogService.Status())
		mockRepo.AssertNumberOfCalls(t, "FetchProducts", 1)
	})

	t.Run("Failure - Upstream error surfaces as a failed status", func(t *testing.T) {
		// Arrange
		mockRepo := repository.NewMockCatalogRepository()
		catalogService := service.NewCatalogService(mockRepo)
		upstreamErr := errors.New("connection refused")
		mockRepo.On("FetchProducts", mock.Anything).Return(nil, upstreamErr).Once()

		// Act
		err := catalogService.EnsureFetched(ctx)

		// Assert
		require.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUpstream, appErr.Code)
		assert.ErrorIs(t, err, upstreamErr)
		assert.Equal(t, service.StatusFailed, catalogService.Status())
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Failed fetch is retried by the next caller", func(t *testing.T) {
		// Arrange
		mockRepo := repository.NewMockCatalogRepository()
		catalogService := service.NewCatalogService(mockRepo)
		mockRepo.On("FetchProducts", mock.Anything).Return(nil, errors.New("timeout")).Once()
		mockRepo.On("FetchProducts", mock.Anything).Return(catalogFixture(), nil).Once()

		// Act
		firstErr := catalogService.EnsureFetched(ctx)
		secondErr := catalogService.EnsureFetched(ctx)

		// Assert
		assert.Error(t, firstErr)
		assert.NoError(t, secondErr)
		assert.Equal(t, service.StatusSucceeded, catalogService.Status())
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Concurrent callers share a single fetch", func(t *testing.T) {
		// Arrange
		mockRepo := repository.NewMockCatalogRepository()
		catalogService := service.NewCatalogService(mockRepo)
		mockRepo.On("FetchProducts", mock.Anything).
			Run(func(args mock.Arguments) { time.Sleep(20 * time.Millisecond) }).
			Return(catalogFixture(), nil).Once()

		// Act
		var wg sync.WaitGroup

		errs := make([]error, 10)
		for i := range errs {
			wg.Add(1)

			go func() {
				defer wg.Done()
				errs[i] = catalogService.EnsureFetched(ctx)
			}()
		}

		wg.Wait()

		// Assert
		for _, err := range errs {
			assert.NoError(t, err)
		}

		mockRepo.AssertNumberOfCalls(t, "FetchProducts", 1)
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Applies the filter pipeline to the loaded catalog", func(t *testing.T) {
		// Arrange
		mockRepo := repository.NewMockCatalogRepository()
		catalogService := service.NewCatalogService(mockRepo)
		mockRepo.On("FetchProducts", mock.Anything).Return(catalogFixture(), nil).Once()

		filter := defaultFilter()
		filter.Category = "electronics"

		// Act
		page, err := catalogService.ListProducts(ctx, filter)

		// Assert
		assert.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, int64(3), page.Items[0].ID)
		assert.Equal(t, int64(1), page.Items[1].ID)
	})

	t.Run("Failure - Propagates the fetch error", func(t *testing.T) {
		// Arrange
		mockRepo := repository.NewMockCatalogRepository()
		catalogService := service.NewCatalogService(mockRepo)
		mockRepo.On("FetchProducts", mock.Anything).Return(nil, errors.New("boom")).Once()

		// Act
		_, err := catalogService.ListProducts(ctx, defaultFilter())

		// Assert
		require.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUpstream, appErr.Code)
	})
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Finds a product by id", func(t *testing.T) {
		// Arrange
		mockRepo := repository.NewMockCatalogRepository()
		catalogService := service.NewCatalogService(mockRepo)
		mockRepo.On("FetchProducts", mock.Anything).Return(catalogFixture(), nil).Once()

		// Act
		found, err := catalogService.GetProduct(ctx, 2)

		// Assert
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "jewelery", found.Category)
	})

	t.Run("Failure - Unknown id is a not-found error", func(t *testing.T) {
		// Arrange
		mockRepo := repository.NewMockCatalogRepository()
		catalogService := service.NewCatalogService(mockRepo)
		mockRepo.On("FetchProducts", mock.Anything).Return(catalogFixture(), nil).Once()

		// Act
		found, err := catalogService.GetProduct(ctx, 404)

		// Assert
		assert.Nil(t, found)
		require.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestCategories(t *testing.T) {
	t.Run("Success - Distinct categories in first-seen order", func(t *testing.T) {
		// Arrange
		mockRepo := repository.NewMockCatalogRepository()
		catalogService := service.NewCatalogService(mockRepo)
		mockRepo.On("FetchProducts", mock.Anything).Return(catalogFixture(), nil).Once()

		// Act
		categories, err := catalogService.Categories(context.Background())

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, []string{"electronics", "jewelery"}, categories)
	})
}
