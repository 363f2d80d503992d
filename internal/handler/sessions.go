package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopease/internal/domain/catalog"
	"github.com/xenking/shopease/internal/domain/product"
	"github.com/xenking/shopease/internal/session"
)

// CreateSession handles POST /sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, _ *http.Request) {
	id := h.sessions.Create()
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("sessionId")
		e.Str(id)
		e.ObjEnd()
	})
}

// DeleteSession handles DELETE /sessions/{sid}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "sid")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetFilter handles GET /sessions/{sid}/filter.
func (h *Handler) GetFilter(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(st *session.State) error {
		writeFilter(w, st.Filter)
		return nil
	})
}

// PutFilter handles PUT /sessions/{sid}/filter. Fields missing from the body
// keep their current value; an invalid result leaves the filter unchanged.
func (h *Handler) PutFilter(w http.ResponseWriter, r *http.Request) {
	var patch filterPatch
	if err := h.decodeBody(w, r, patch.decodeField); err != nil {
		writeError(w, r, err)
		return
	}

	h.withSession(w, r, func(st *session.State) error {
		f := patch.apply(st.Filter)
		if err := f.Validate(); err != nil {
			return err
		}
		st.Filter = f
		writeFilter(w, st.Filter)
		return nil
	})
}

// ResetFilter handles DELETE /sessions/{sid}/filter.
func (h *Handler) ResetFilter(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(st *session.State) error {
		st.Filter.Reset()
		writeFilter(w, st.Filter)
		return nil
	})
}

// SessionProducts handles GET /sessions/{sid}/products: the catalog view
// under the session filter, with query parameters applied on top.
func (h *Handler) SessionProducts(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(st *session.State) error {
		f, err := filterFromQuery(st.Filter, r.URL.Query())
		if err != nil {
			return err
		}
		products := catalog.Query(h.catalog.List(), f)
		writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
			encodeProducts(e, products)
		})
		return nil
	})
}

func writeFilter(w http.ResponseWriter, f catalog.Filter) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeFilter(e, f)
	})
}

// filterPatch holds the filter fields present in a request body.
type filterPatch struct {
	search   *string
	category *product.Category
	minPrice *decimal.Decimal
	maxPrice *decimal.Decimal
	sort     *catalog.SortOption
}

func (p *filterPatch) decodeField(d *jx.Decoder, key string) error {
	switch key {
	case "search":
		s, err := d.Str()
		if err != nil {
			return err
		}
		p.search = &s
	case "category":
		s, err := d.Str()
		if err != nil {
			return err
		}
		c, err := product.ParseCategory(s)
		if err != nil {
			return err
		}
		p.category = &c
	case "minPrice":
		v, err := decodeDecimal(d)
		if err != nil {
			return err
		}
		p.minPrice = &v
	case "maxPrice":
		v, err := decodeDecimal(d)
		if err != nil {
			return err
		}
		p.maxPrice = &v
	case "sort":
		s, err := d.Str()
		if err != nil {
			return err
		}
		o, err := catalog.ParseSortOption(s)
		if err != nil {
			return err
		}
		p.sort = &o
	default:
		return d.Skip()
	}
	return nil
}

func (p filterPatch) apply(f catalog.Filter) catalog.Filter {
	if p.search != nil {
		f.SearchTerm = *p.search
	}
	if p.category != nil {
		f.Category = *p.category
	}
	if p.minPrice != nil {
		f.PriceRange.Min = *p.minPrice
	}
	if p.maxPrice != nil {
		f.PriceRange.Max = *p.maxPrice
	}
	if p.sort != nil {
		f.Sort = *p.sort
	}
	return f
}
