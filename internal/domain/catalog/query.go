// Package catalog builds filtered and sorted views over the product catalog.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopease/internal/domain/product"
)

// SortOption selects the ordering of a catalog view.
type SortOption string

const (
	SortDefault    SortOption = "default"
	SortPriceAsc   SortOption = "price-asc"
	SortPriceDesc  SortOption = "price-desc"
	SortRatingDesc SortOption = "rating-desc"
)

var (
	// ErrUnknownSortOption is returned for sort names outside the closed set.
	ErrUnknownSortOption = errors.New("unknown sort option")
	// ErrInvalidPriceRange is returned when a price range is negative or inverted.
	ErrInvalidPriceRange = errors.New("invalid price range")
)

// DefaultMaxPrice is the upper bound of the price filter after a reset.
var DefaultMaxPrice = decimal.NewFromInt(2000)

// ParseSortOption maps a sort name to a SortOption. The empty string selects
// SortDefault; the storefront's older names are accepted as aliases.
func ParseSortOption(s string) (SortOption, error) {
	switch o := SortOption(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortDefault, nil
	case SortDefault, SortPriceAsc, SortPriceDesc, SortRatingDesc:
		return o, nil
	case "price-low-high":
		return SortPriceAsc, nil
	case "price-high-low":
		return SortPriceDesc, nil
	case "rating":
		return SortRatingDesc, nil
	default:
		return "", errors.Wrapf(ErrUnknownSortOption, "%q", s)
	}
}

// PriceRange is an inclusive [Min, Max] price bound.
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Contains reports whether Min <= price <= Max.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

// Filter is the session-scoped catalog filter state.
type Filter struct {
	SearchTerm string
	Category   product.Category
	PriceRange PriceRange
	Sort       SortOption
}

// DefaultFilter returns the filter state after a reset.
func DefaultFilter() Filter {
	return Filter{
		SearchTerm: "",
		Category:   product.CategoryAll,
		PriceRange: PriceRange{Min: decimal.Zero, Max: DefaultMaxPrice},
		Sort:       SortDefault,
	}
}

// Reset restores the default filter state.
func (f *Filter) Reset() {
	*f = DefaultFilter()
}

// Validate checks that the filter can be applied.
func (f Filter) Validate() error {
	if f.PriceRange.Min.IsNegative() || f.PriceRange.Min.GreaterThan(f.PriceRange.Max) {
		return errors.Wrapf(ErrInvalidPriceRange, "[%s, %s]", f.PriceRange.Min, f.PriceRange.Max)
	}
	switch f.Category {
	case product.CategoryAll, product.CategoryElectronics, product.CategoryClothing,
		product.CategoryBooks, product.CategoryHome:
	default:
		return errors.Wrapf(product.ErrUnknownCategory, "%q", f.Category)
	}
	switch f.Sort {
	case SortDefault, SortPriceAsc, SortPriceDesc, SortRatingDesc:
	default:
		return errors.Wrapf(ErrUnknownSortOption, "%q", f.Sort)
	}
	return nil
}

// Query applies search, category and price filters in that order, then
// sorts stably. The input slice is never modified.
func Query(products []product.Product, f Filter) []product.Product {
	term := strings.ToLower(f.SearchTerm)
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if !matchesSearch(p, term) {
			continue
		}
		if f.Category != product.CategoryAll && p.Category != f.Category {
			continue
		}
		if !f.PriceRange.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b product.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b product.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortRatingDesc:
		slices.SortStableFunc(out, func(a, b product.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case SortDefault:
	}
	return out
}

// term must already be lowercased.
func matchesSearch(p product.Product, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

// SearchAdmin matches term against name, description or category name,
// case-insensitively, keeping catalog order.
func SearchAdmin(products []product.Product, term string) []product.Product {
	term = strings.ToLower(term)
	var out []product.Product
	for _, p := range products {
		if matchesSearch(p, term) || strings.Contains(string(p.Category), term) {
			out = append(out, p)
		}
	}
	return out
}
