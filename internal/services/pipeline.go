package service

import (
	"math"
	"sort"
	"strings"

	"github.com/storefront-go/storefront/internal/models"
)

// PageSize is fixed for the product listing.
const PageSize = 10

// ProductPage is one page of the filtered, sorted catalog view.
type ProductPage struct {
	Items      []models.Product
	Total      int
	TotalPages int
}

// FilterProducts derives the listing view from the catalog and the filter
// criteria. It is a pure function: the input slice is never reordered or
// mutated, and equal-priced products keep their catalog order so pagination
// stays deterministic across recomputations.
//
// Predicates are conjunctive: category (exact, case-sensitive, skipped when
// empty), inclusive price range, and minimum rating. A minimum rating above
// zero excludes products without a rating. Pagination is the final step; a
// page past the end yields an empty page, not an error.
func FilterProducts(products []models.Product, filter *models.ProductFilter) ProductPage {

	filtered := make([]models.Product, 0, len(products))

	for _, p := range products {

		if filter.Category != "" && p.Category != filter.Category {
			continue
		}

		if p.Price < filter.MinPrice || p.Price > filter.MaxPrice {
			continue
		}

		if filter.MinRating > 0 && (p.Rating == nil || p.Rating.Rate < filter.MinRating) {
			continue
		}

		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filter.SortOrder == models.SortDesc {
			return filtered[i].Price > filtered[j].Price
		}

		return filtered[i].Price < filtered[j].Price
	})

	total := len(filtered)
	totalPages := (total + PageSize - 1) / PageSize

	start := (filter.Page - 1) * PageSize
	if start < 0 || start >= total {
		return ProductPage{Items: []models.Product{}, Total: total, TotalPages: totalPages}
	}

	end := start + PageSize
	if end > total {
		end = total
	}

	return ProductPage{Items: filtered[start:end], Total: total, TotalPages: totalPages}
}

// Stars is the display breakdown of a rating on a five-star scale:
// floor(rate) filled stars, a single half marker for any fractional
// remainder, and empty stars up to five.
type Stars struct {
	Filled int `json:"filled"`
	Half   int `json:"half"`
	Empty  int `json:"empty"`
}

func StarRating(rate float64) Stars {

	filled := int(math.Floor(rate))

	half := 0
	if rate != math.Trunc(rate) {
		half = 1
	}

	return Stars{
		Filled: filled,
		Half:   half,
		Empty:  5 - filled - half,
	}
}

// String renders the breakdown with text glyphs. The half marker shares
// the outline glyph; only the counts distinguish it.
func (s Stars) String() string {
	return strings.Repeat("★", s.Filled) + strings.Repeat("☆", s.Half+s.Empty)
}
