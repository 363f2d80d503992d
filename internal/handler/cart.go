package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/shopease/internal/domain/cart"
	"github.com/xenking/shopease/internal/domain/pricing"
	"github.com/xenking/shopease/internal/session"
)

// GetCart handles GET /sessions/{sid}/cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(st *session.State) error {
		writeCart(w, st.Cart)
		return nil
	})
}

// AddCartItem handles POST /sessions/{sid}/cart/items with a body of
// {"productId": "...", "quantity": n}. Quantity defaults to 1 and is clamped
// so the line never exceeds the product's stock.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var (
		productID string
		quantity  = 1
	)
	if err := h.decodeBody(w, r, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			productID, err = d.Str()
		case "quantity":
			quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		writeError(w, r, err)
		return
	}
	if productID == "" {
		writeError(w, r, &requestError{err: errors.New("productId is required")})
		return
	}

	p, err := h.catalog.GetByID(productID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.withSession(w, r, func(st *session.State) error {
		if quantity < 1 {
			return cart.ErrInvalidQuantity
		}
		available := p.Stock - st.Cart.Quantity(p.ID)
		if available <= 0 {
			return errors.Wrapf(ErrOutOfStock, "product %s", p.ID)
		}
		if err := st.Cart.AddToCart(p, min(quantity, available)); err != nil {
			return err
		}
		writeCart(w, st.Cart)
		return nil
	})
}

// UpdateCartItem handles PUT /sessions/{sid}/cart/items/{productId} with a
// body of {"quantity": n}. A quantity of zero or less removes the line; a
// quantity above stock is clamped to stock.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	quantity, seen := 0, false
	if err := h.decodeBody(w, r, func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		seen = true
		var err error
		quantity, err = d.Int()
		return err
	}); err != nil {
		writeError(w, r, err)
		return
	}
	if !seen {
		writeError(w, r, &requestError{err: errors.New("quantity is required")})
		return
	}

	productID := chi.URLParam(r, "productId")
	if p, err := h.catalog.GetByID(productID); err == nil {
		quantity = min(quantity, p.Stock)
	}

	h.withSession(w, r, func(st *session.State) error {
		st.Cart.UpdateQuantity(productID, quantity)
		writeCart(w, st.Cart)
		return nil
	})
}

// RemoveCartItem handles DELETE /sessions/{sid}/cart/items/{productId}.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(st *session.State) error {
		st.Cart.RemoveFromCart(chi.URLParam(r, "productId"))
		writeCart(w, st.Cart)
		return nil
	})
}

// ClearCart handles DELETE /sessions/{sid}/cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(st *session.State) error {
		st.Cart.ClearCart()
		writeCart(w, st.Cart)
		return nil
	})
}

// CartSummary handles GET /sessions/{sid}/cart/summary. The cart page prices
// standard shipping unless shippingMethod says otherwise.
func (h *Handler) CartSummary(w http.ResponseWriter, r *http.Request) {
	method, err := pricing.ParseShippingMethod(r.URL.Query().Get("shippingMethod"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.withSession(w, r, func(st *session.State) error {
		totals := pricing.ComputeTotals(st.Cart.TotalPrice(), method)
		writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
			encodeTotals(e, totals, method)
		})
		return nil
	})
}

func writeCart(w http.ResponseWriter, c *cart.Store) {
	snap := c.Snapshot()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCart(e, snap)
	})
}
