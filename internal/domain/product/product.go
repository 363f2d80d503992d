package product

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrUnknownCategory is returned when a category name is outside the closed set.
	ErrUnknownCategory = errors.New("unknown category")
)

// Category is the closed set of catalog categories. CategoryAll is a filter
// wildcard and is never assigned to a product.
type Category string

const (
	CategoryAll         Category = "all"
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryHome        Category = "home"
)

// Categories lists the real product categories in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryBooks,
	CategoryHome,
}

// ParseCategory maps a case-insensitive name to a Category. The wildcard
// "all" is accepted; use Category.IsProductCategory to exclude it.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryAll, CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome:
		return c, nil
	default:
		return "", errors.Wrapf(ErrUnknownCategory, "%q", s)
	}
}

// IsProductCategory reports whether c can be assigned to a product.
func (c Category) IsProductCategory() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome:
		return true
	default:
		return false
	}
}

// DisplayName returns the capitalized category name.
func (c Category) DisplayName() string {
	switch c {
	case CategoryAll:
		return "All"
	case CategoryElectronics:
		return "Electronics"
	case CategoryClothing:
		return "Clothing"
	case CategoryBooks:
		return "Books"
	case CategoryHome:
		return "Home"
	default:
		return string(c)
	}
}

func (c Category) String() string {
	return string(c)
}

// Product represents a catalog item available for purchase.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    Category
	Image       string
	Rating      float64
	Stock       int
	Featured    bool
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Validate checks the invariants a catalog product must satisfy.
func (p Product) Validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.New("id is required")
	case p.Price.IsNegative():
		return errors.Errorf("product %s: price must not be negative", p.ID)
	case !p.Category.IsProductCategory():
		return errors.Wrapf(ErrUnknownCategory, "product %s: %q", p.ID, p.Category)
	case p.Rating < 0 || p.Rating > 5:
		return errors.Errorf("product %s: rating %v out of range [0, 5]", p.ID, p.Rating)
	case p.Stock < 0:
		return errors.Errorf("product %s: stock must not be negative", p.ID)
	}
	return nil
}
