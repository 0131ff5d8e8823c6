package service

import (
	"math"
	"sync"

	"github.com/storefront-go/storefront/internal/metrics"
	"github.com/storefront-go/storefront/internal/models"
)

// Cart reducers. Each takes the current line items and returns the next
// state without touching its input, so readers holding an old snapshot
// never observe a partial update.

// AddItem appends a line item with quantity 1, snapshotting the product's
// displayable fields. A product already in the cart is not merged: the
// repeated add leaves the cart unchanged, matching the disabled
// "Added to Cart" affordance.
func AddItem(items []models.CartItem, product *models.Product) []models.CartItem {

	for _, item := range items {
		if item.ProductID == product.ID {
			return cloneItems(items)
		}
	}

	next := cloneItems(items)

	return append(next, models.CartItem{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  1,
		LineTotal: round2(product.Price),
	})
}

// RemoveItem deletes the line item with the given product id. Absent ids
// are a no-op.
func RemoveItem(items []models.CartItem, productID int64) []models.CartItem {

	next := make([]models.CartItem, 0, len(items))

	for _, item := range items {
		if item.ProductID == productID {
			continue
		}

		next = append(next, item)
	}

	return next
}

// IncreaseQuantity increments the line's quantity. No upper bound is
// enforced. Absent ids are a no-op.
func IncreaseQuantity(items []models.CartItem, productID int64) []models.CartItem {

	next := cloneItems(items)

	for i := range next {
		if next[i].ProductID == productID {
			next[i].Quantity++
			next[i].LineTotal = round2(next[i].Price * float64(next[i].Quantity))

			break
		}
	}

	return next
}

// DecreaseQuantity decrements the line's quantity but never below 1; the
// floor is enforced here rather than trusting every call site. Absent ids
// are a no-op.
func DecreaseQuantity(items []models.CartItem, productID int64) []models.CartItem {

	next := cloneItems(items)

	for i := range next {
		if next[i].ProductID == productID {
			if next[i].Quantity > 1 {
				next[i].Quantity--
				next[i].LineTotal = round2(next[i].Price * float64(next[i].Quantity))
			}

			break
		}
	}

	return next
}

// TotalPrice sums price×quantity over all lines, rounded to 2 decimal
// places for display.
func TotalPrice(items []models.CartItem) float64 {

	var total float64

	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	return round2(total)
}

func TotalQuantity(items []models.CartItem) int {

	var total int

	for _, item := range items {
		total += item.Quantity
	}

	return total
}

func cloneItems(items []models.CartItem) []models.CartItem {
	next := make([]models.CartItem, len(items))
	copy(next, items)

	return next
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CartService owns the session cart. Updates replace the item slice
// atomically under the lock; reads hand out summaries built from a
// consistent snapshot.
type CartService struct {
	mu    sync.RWMutex
	items []models.CartItem
}

func NewCartService() *CartService {
	return &CartService{items: []models.CartItem{}}
}

func (s *CartService) AddItem(product *models.Product) models.CartSummary {
	s.mu.Lock()
	s.items = AddItem(s.items, product)
	s.mu.Unlock()

	metrics.RecordCartOperation("add")

	return s.Summary()
}

func (s *CartService) RemoveItem(productID int64) models.CartSummary {
	s.mu.Lock()
	s.items = RemoveItem(s.items, productID)
	s.mu.Unlock()

	metrics.RecordCartOperation("remove")

	return s.Summary()
}

func (s *CartService) IncreaseQuantity(productID int64) models.CartSummary {
	s.mu.Lock()
	s.items = IncreaseQuantity(s.items, productID)
	s.mu.Unlock()

	metrics.RecordCartOperation("increase")

	return s.Summary()
}

func (s *CartService) DecreaseQuantity(productID int64) models.CartSummary {
	s.mu.Lock()
	s.items = DecreaseQuantity(s.items, productID)
	s.mu.Unlock()

	metrics.RecordCartOperation("decrease")

	return s.Summary()
}

func (s *CartService) Summary() models.CartSummary {
	s.mu.RLock()
	items := cloneItems(s.items)
	s.mu.RUnlock()

	return models.CartSummary{
		Items:         items,
		TotalQuantity: TotalQuantity(items),
		TotalPrice:    TotalPrice(items),
	}
}
