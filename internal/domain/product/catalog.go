package product

import (
	"github.com/go-faster/errors"
)

// DefaultRelatedLimit is the number of related products shown on a detail page.
const DefaultRelatedLimit = 4

// DefaultLowStockThreshold marks products with fewer units as low on stock.
const DefaultLowStockThreshold = 10

// Catalog is an immutable, ordered product collection. Every accessor returns
// a fresh slice so callers cannot mutate the catalog through it.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// NewCatalog validates products and builds a Catalog preserving their order.
func NewCatalog(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range products {
		if err := p.Validate(); err != nil {
			return nil, errors.Wrapf(err, "product #%d", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, errors.Errorf("duplicate product id %q", p.ID)
		}
		c.products[i] = p
		c.byID[p.ID] = i
	}
	return c, nil
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// List returns every product in catalog order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// GetByID returns the product with the given id or ErrNotFound.
func (c *Catalog) GetByID(id string) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return c.products[i], nil
}

// Featured returns featured products in catalog order.
func (c *Catalog) Featured() []Product {
	return c.filter(func(p Product) bool { return p.Featured })
}

// Related returns up to limit products sharing the category of id, excluding
// the product itself. A non-positive limit means DefaultRelatedLimit.
func (c *Catalog) Related(id string, limit int) ([]Product, error) {
	p, err := c.GetByID(id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	out := make([]Product, 0, limit)
	for _, q := range c.products {
		if len(out) == limit {
			break
		}
		if q.Category == p.Category && q.ID != p.ID {
			out = append(out, q)
		}
	}
	return out, nil
}

// LowStock returns products whose stock is strictly below threshold.
func (c *Catalog) LowStock(threshold int) []Product {
	return c.filter(func(p Product) bool { return p.Stock < threshold })
}

func (c *Catalog) filter(keep func(Product) bool) []Product {
	var out []Product
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
