package service_test

import (
	"fmt"
	"testing"

	"github.com/storefront-go/storefront/internal/models"
	service "github.com/storefront-go/storefront/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, price float64, category string, rate float64) models.Product {
	p := models.Product{
		ID:       id,
		Title:    fmt.Sprintf("Product %d", id),
		Price:    price,
		Category: category,
	}

	if rate > 0 {
		p.Rating = &models.Rating{Rate: rate, Count: 120}
	}

	return p
}

func defaultFilter() *models.ProductFilter {
	return &models.ProductFilter{
		MinPrice:  0,
		MaxPrice:  models.DefaultMaxPrice,
		SortOrder: models.SortAsc,
		Page:      1,
	}
}

func TestFilterProducts(t *testing.T) {
	catalog := []models.Product{
		product(1, 30, "electronics", 4.5),
		product(2, 10, "jewelery", 2.0),
		product(3, 20, "electronics", 0), // unrated
		product(4, 20, "men's clothing", 3.5),
		product(5, 5, "electronics", 5.0),
	}

	t.Run("No active filters returns full catalog sorted by price ascending", func(t *testing.T) {
		page := service.FilterProducts(catalog, defaultFilter())

		require.Len(t, page.Items, 5)
		assert.Equal(t, int64(5), page.Items[0].ID)
		assert.Equal(t, int64(2), page.Items[1].ID)
		assert.Equal(t, int64(1), page.Items[4].ID)
		assert.Equal(t, 5, page.Total)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("Category filter is an exact case-sensitive match", func(t *testing.T) {
		filter := defaultFilter()
		filter.Category = "electronics"

		page := service.FilterProducts(catalog, filter)

		require.Len(t, page.Items, 3)
		for _, p := range page.Items {
			assert.Equal(t, "electronics", p.Category)
		}

		filter.Category = "Electronics"
		assert.Empty(t, service.FilterProducts(catalog, filter).Items)
	})

	t.Run("Price range is inclusive on both bounds", func(t *testing.T) {
		filter := defaultFilter()
		filter.MinPrice = 10
		filter.MaxPrice = 20

		page := service.FilterProducts(catalog, filter)

		require.Len(t, page.Items, 3)
		assert.Equal(t, int64(2), page.Items[0].ID)
	})

	t.Run("Minimum rating excludes unrated products", func(t *testing.T) {
		filter := defaultFilter()
		filter.MinRating = 3

		page := service.FilterProducts(catalog, filter)

		require.Len(t, page.Items, 3)
		for _, p := range page.Items {
			require.NotNil(t, p.Rating)
			assert.GreaterOrEqual(t, p.Rating.Rate, 3.0)
		}
	})

	t.Run("Zero minimum rating keeps unrated products", func(t *testing.T) {
		page := service.FilterProducts(catalog, defaultFilter())

		assert.Equal(t, 5, page.Total)
	})

	t.Run("All predicates are conjunctive", func(t *testing.T) {
		filter := defaultFilter()
		filter.Category = "electronics"
		filter.MinPrice = 10
		filter.MaxPrice = 50
		filter.MinRating = 4

		page := service.FilterProducts(catalog, filter)

		require.Len(t, page.Items, 1)
		assert.Equal(t, int64(1), page.Items[0].ID)
	})

	t.Run("Min above max yields an empty result, not an error", func(t *testing.T) {
		filter := defaultFilter()
		filter.MinPrice = 50
		filter.MaxPrice = 10

		page := service.FilterProducts(catalog, filter)

		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.Total)
		assert.Equal(t, 0, page.TotalPages)
	})

	t.Run("Descending sort reverses the price order", func(t *testing.T) {
		filter := defaultFilter()
		filter.SortOrder = models.SortDesc

		page := service.FilterProducts(catalog, filter)

		require.Len(t, page.Items, 5)
		assert.Equal(t, int64(1), page.Items[0].ID)
		assert.Equal(t, int64(5), page.Items[4].ID)
	})

	t.Run("Equal prices keep catalog order", func(t *testing.T) {
		filter := defaultFilter()

		page := service.FilterProducts(catalog, filter)

		// products 3 and 4 share price 20; catalog order must hold
		require.Len(t, page.Items, 5)
		assert.Equal(t, int64(3), page.Items[2].ID)
		assert.Equal(t, int64(4), page.Items[3].ID)

		filter.SortOrder = models.SortDesc
		page = service.FilterProducts(catalog, filter)
		assert.Equal(t, int64(3), page.Items[1].ID)
		assert.Equal(t, int64(4), page.Items[2].ID)
	})

	t.Run("Input catalog is never reordered", func(t *testing.T) {
		filter := defaultFilter()
		filter.SortOrder = models.SortDesc

		service.FilterProducts(catalog, filter)

		assert.Equal(t, int64(1), catalog[0].ID)
		assert.Equal(t, int64(5), catalog[4].ID)
	})

	t.Run("Example end-to-end scenario", func(t *testing.T) {
		small := []models.Product{
			product(1, 10, "a", 4),
			product(2, 5, "b", 2),
		}
		filter := &models.ProductFilter{
			MinPrice:  0,
			MaxPrice:  100,
			MinRating: 3,
			SortOrder: models.SortAsc,
			Page:      1,
		}

		page := service.FilterProducts(small, filter)

		require.Len(t, page.Items, 1)
		assert.Equal(t, int64(1), page.Items[0].ID)
		assert.Equal(t, 1, page.TotalPages)
	})
}

func TestFilterProductsPagination(t *testing.T) {
	catalog := make([]models.Product, 0, 25)
	for i := 1; i <= 25; i++ {
		catalog = append(catalog, product(int64(i), float64(i), "electronics", 4))
	}

	t.Run("Total pages is the ceiling of count over page size", func(t *testing.T) {
		page := service.FilterProducts(catalog, defaultFilter())

		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 25, page.Total)
	})

	t.Run("Pages partition the filtered sequence without gaps or duplicates", func(t *testing.T) {
		seen := make(map[int64]int)

		for pageNum := 1; pageNum <= 3; pageNum++ {
			filter := defaultFilter()
			filter.Page = pageNum

			page := service.FilterProducts(catalog, filter)
			for _, p := range page.Items {
				seen[p.ID]++
			}
		}

		assert.Len(t, seen, 25)
		for id, count := range seen {
			assert.Equal(t, 1, count, "product %d appeared %d times", id, count)
		}
	})

	t.Run("Last page holds the remainder", func(t *testing.T) {
		filter := defaultFilter()
		filter.Page = 3

		page := service.FilterProducts(catalog, filter)

		assert.Len(t, page.Items, 5)
	})

	t.Run("Page beyond the end yields an empty slice", func(t *testing.T) {
		filter := defaultFilter()
		filter.Page = 4

		page := service.FilterProducts(catalog, filter)

		assert.Empty(t, page.Items)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 25, page.Total)
	})
}

func TestStarRating(t *testing.T) {
	tests := []struct {
		name   string
		rate   float64
		filled int
		half   int
		empty  int
	}{
		{"Whole rating has no half marker", 3, 3, 0, 2},
		{"Fractional rating gets exactly one half marker", 4.5, 4, 1, 0},
		{"Any non-zero fraction counts as half", 3.1, 3, 1, 1},
		{"Zero rating is all empty", 0, 0, 0, 5},
		{"Full rating is all filled", 5, 5, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stars := service.StarRating(tc.rate)

			assert.Equal(t, tc.filled, stars.Filled)
			assert.Equal(t, tc.half, stars.Half)
			assert.Equal(t, tc.empty, stars.Empty)
			assert.Equal(t, 5, stars.Filled+stars.Half+stars.Empty)
		})
	}

	t.Run("String renders five glyphs", func(t *testing.T) {
		assert.Equal(t, "★★★★☆", service.StarRating(4.5).String())
		assert.Equal(t, "☆☆☆☆☆", service.StarRating(0).String())
	})
}
