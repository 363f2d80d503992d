package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/shopease/internal/domain/product"
)

// CategoryCount is the number of products in one category.
type CategoryCount struct {
	Category product.Category
	Count    int
}

// FacetSet describes the catalog for building filter controls.
type FacetSet struct {
	// Categories starts with CategoryAll holding the catalog size, followed by
	// every product category in display order, including empty ones.
	Categories []CategoryCount
	// PriceBounds spans the cheapest to the most expensive product. Zero for
	// an empty catalog.
	PriceBounds PriceRange
	InStock     int
	OutOfStock  int
}

// Facets computes the category counts, price bounds and availability of products.
func Facets(products []product.Product) FacetSet {
	counts := make(map[product.Category]int, len(product.Categories))
	fs := FacetSet{
		PriceBounds: PriceRange{Min: decimal.Zero, Max: decimal.Zero},
	}
	for i, p := range products {
		counts[p.Category]++
		if p.InStock() {
			fs.InStock++
		} else {
			fs.OutOfStock++
		}
		if i == 0 {
			fs.PriceBounds = PriceRange{Min: p.Price, Max: p.Price}
			continue
		}
		fs.PriceBounds.Min = decimal.Min(fs.PriceBounds.Min, p.Price)
		fs.PriceBounds.Max = decimal.Max(fs.PriceBounds.Max, p.Price)
	}

	fs.Categories = make([]CategoryCount, 0, len(product.Categories)+1)
	fs.Categories = append(fs.Categories, CategoryCount{Category: product.CategoryAll, Count: len(products)})
	for _, c := range product.Categories {
		fs.Categories = append(fs.Categories, CategoryCount{Category: c, Count: counts[c]})
	}
	return fs
}
