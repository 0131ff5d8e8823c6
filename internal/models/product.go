package models

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultMaxPrice is the upper bound applied when no max_price is given.
const DefaultMaxPrice = 1000

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a catalog record as served by the upstream catalog API.
// Products are read-only once loaded; the cart snapshots the fields it
// displays rather than referencing them.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Rating      *Rating `json:"rating,omitempty"`
}

// ProductFilter carries the listing criteria. All predicates are optional;
// the zero Category and zero MinRating mean "no filter".
type ProductFilter struct {
	Category  string  `json:"category"`
	MinPrice  float64 `json:"min_price"  validate:"gte=0"`
	MaxPrice  float64 `json:"max_price"  validate:"gte=0,gtefield=MinPrice"`
	MinRating float64 `json:"min_rating" validate:"gte=0,lte=5"`
	SortOrder string  `json:"sort"       validate:"oneof=asc desc"`
	Page      int     `json:"page"       validate:"gte=1"`
}
