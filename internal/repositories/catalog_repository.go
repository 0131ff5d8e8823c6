package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/storefront-go/storefront/internal/config"
	"github.com/storefront-go/storefront/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// CatalogRepository provides the product catalog from an external
// read-only source. Implementations must not mutate previously
// returned slices.
type CatalogRepository interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
}

type catalogRepository struct {
	baseURL   string
	client    *http.Client
	sanitizer *bluemonday.Policy
}

func NewCatalogRepo(cfg *config.CatalogAPI) CatalogRepository {
	return &catalogRepository{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (r *catalogRepository) FetchProducts(ctx context.Context) ([]models.Product, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting catalog: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog responded with status %d", resp.StatusCode)
	}

	var products []models.Product

	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decoding catalog response: %w", err)
	}

	// Upstream text fields are rendered verbatim by clients, so strip
	// any markup before the products enter the catalog.
	for i := range products {
		products[i].Title = r.sanitizer.Sanitize(products[i].Title)
		products[i].Description = r.sanitizer.Sanitize(products[i].Description)
	}

	return products, nil
}
