package service

import (
	"context"
	"sync"

	"github.com/storefront-go/storefront/internal/errors"
	"github.com/storefront-go/storefront/internal/metrics"
	"github.com/storefront-go/storefront/internal/models"
	repository "github.com/storefront-go/storefront/internal/repositories"
)

// FetchStatus is the observable state of the session's catalog load.
type FetchStatus string

const (
	StatusIdle      FetchStatus = "idle"
	StatusLoading   FetchStatus = "loading"
	StatusSucceeded FetchStatus = "succeeded"
	StatusFailed    FetchStatus = "failed"
)

type CatalogService interface {
	EnsureFetched(ctx context.Context) error
	Status() FetchStatus
	ListProducts(ctx context.Context, filter *models.ProductFilter) (ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type catalogService struct {
	repo repository.CatalogRepository

	mu       sync.Mutex
	status   FetchStatus
	products []models.Product
	lastErr  error
	inflight chan struct{}
}

func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{
		repo:   repo,
		status: StatusIdle,
	}
}

// EnsureFetched loads the catalog once per session. The first caller
// performs the upstream fetch; concurrent callers wait on it instead of
// firing duplicate requests. A successful load is terminal; a failed one
// leaves the status at failed so the next caller retries.
func (s *catalogService) EnsureFetched(ctx context.Context) error {

	s.mu.Lock()

	switch s.status {
	case StatusSucceeded:
		s.mu.Unlock()

		return nil

	case StatusLoading:
		done := s.inflight
		s.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return errors.UpstreamError("Catalog fetch interrupted").WithError(ctx.Err())
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.status == StatusSucceeded {
			return nil
		}

		return s.lastErr
	}

	// idle, or failed and eligible for retry
	done := make(chan struct{})
	s.inflight = done
	s.status = StatusLoading
	s.mu.Unlock()

	products, err := s.repo.FetchProducts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(done)

	if err != nil {
		s.status = StatusFailed
		s.lastErr = errors.UpstreamError("Failed to fetch catalog").WithError(err)

		metrics.RecordCatalogFetch("failure")

		return s.lastErr
	}

	s.products = products
	s.status = StatusSucceeded
	s.lastErr = nil

	metrics.RecordCatalogFetch("success")

	return nil
}

func (s *catalogService) Status() FetchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

func (s *catalogService) ListProducts(ctx context.Context, filter *models.ProductFilter) (ProductPage, error) {

	if err := s.EnsureFetched(ctx); err != nil {
		return ProductPage{}, err
	}

	return FilterProducts(s.snapshot(), filter), nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {

	if err := s.EnsureFetched(ctx); err != nil {
		return nil, err
	}

	for _, p := range s.snapshot() {
		if p.ID == id {
			return &p, nil
		}
	}

	return nil, errors.NotFoundError("Product not found")
}

// Categories lists the distinct categories of the loaded catalog in
// first-seen order.
func (s *catalogService) Categories(ctx context.Context) ([]string, error) {

	if err := s.EnsureFetched(ctx); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	categories := []string{}

	for _, p := range s.snapshot() {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}

	return categories, nil
}

// snapshot returns the loaded catalog. The slice is read-only after a
// successful fetch, so handing it out without copying is safe.
func (s *catalogService) snapshot() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.products
}
