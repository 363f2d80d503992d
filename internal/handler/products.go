package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"

	"github.com/xenking/shopease/internal/domain/catalog"
	"github.com/xenking/shopease/internal/domain/product"
)

// ListProducts handles GET /products with optional search, category,
// minPrice, maxPrice and sort query parameters.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(catalog.DefaultFilter(), r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	products := catalog.Query(h.catalog.List(), f)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProducts(e, products)
	})
}

// ProductFacets handles GET /products/facets.
func (h *Handler) ProductFacets(w http.ResponseWriter, _ *http.Request) {
	fs := catalog.Facets(h.catalog.List())
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeFacets(e, fs)
	})
}

// FeaturedProducts handles GET /products/featured.
func (h *Handler) FeaturedProducts(w http.ResponseWriter, _ *http.Request) {
	products := h.catalog.Featured()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProducts(e, products)
	})
}

// LowStockProducts handles GET /products/low-stock. With a search parameter
// the report also matches category names.
func (h *Handler) LowStockProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	threshold, err := intParam(q, "threshold", h.lowStockThreshold)
	if err != nil {
		writeError(w, r, err)
		return
	}
	products := h.catalog.LowStock(threshold)
	if term := q.Get("search"); term != "" {
		products = catalog.SearchAdmin(products, term)
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProducts(e, products)
	})
}

// GetProduct handles GET /products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProduct(e, p)
	})
}

// RelatedProducts handles GET /products/{id}/related.
func (h *Handler) RelatedProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit", product.DefaultRelatedLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	products, err := h.catalog.Related(chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProducts(e, products)
	})
}

// filterFromQuery overrides base with the filter parameters present in q.
func filterFromQuery(base catalog.Filter, q url.Values) (catalog.Filter, error) {
	f := base
	if q.Has("search") {
		f.SearchTerm = q.Get("search")
	}
	if v := q.Get("category"); v != "" {
		c, err := product.ParseCategory(v)
		if err != nil {
			return f, err
		}
		f.Category = c
	}
	if v := q.Get("minPrice"); v != "" {
		d, err := parseAmount(v, "minPrice")
		if err != nil {
			return f, err
		}
		f.PriceRange.Min = d
	}
	if v := q.Get("maxPrice"); v != "" {
		d, err := parseAmount(v, "maxPrice")
		if err != nil {
			return f, err
		}
		f.PriceRange.Max = d
	}
	if v := q.Get("sort"); v != "" {
		s, err := catalog.ParseSortOption(v)
		if err != nil {
			return f, err
		}
		f.Sort = s
	}
	return f, f.Validate()
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest(err, name)
	}
	return n, nil
}
