package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/shopease/internal/domain/checkout"
	"github.com/xenking/shopease/internal/domain/pricing"
	"github.com/xenking/shopease/internal/session"
)

// StartCheckout handles POST /sessions/{sid}/checkout. It always begins a
// fresh workflow at the shipping step.
func (h *Handler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(st *session.State) error {
		wf, err := h.checkout.Start(st.Cart)
		if err != nil {
			return err
		}
		st.Checkout = wf
		writeCheckout(w, http.StatusCreated, wf)
		return nil
	})
}

// GetCheckout handles GET /sessions/{sid}/checkout. A workflow whose cart
// was emptied is reported reset; a placed one keeps its confirmation.
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	h.withCheckout(w, r, func(wf *checkout.Workflow) error {
		wf.Refresh()
		return nil
	})
}

// SubmitShipping handles POST /sessions/{sid}/checkout/shipping. The body
// may carry "shippingMethod" alongside the address fields.
func (h *Handler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	var (
		info   checkout.ShippingInfo
		method string
	)
	if err := h.decodeBody(w, r, func(d *jx.Decoder, key string) error {
		var err error
		switch checkout.Field(key) {
		case checkout.FieldFirstName:
			info.FirstName, err = d.Str()
		case checkout.FieldLastName:
			info.LastName, err = d.Str()
		case checkout.FieldAddress:
			info.Address, err = d.Str()
		case checkout.FieldCity:
			info.City, err = d.Str()
		case checkout.FieldState:
			info.State, err = d.Str()
		case checkout.FieldZip:
			info.Zip, err = d.Str()
		case checkout.FieldEmail:
			info.Email, err = d.Str()
		case checkout.FieldPhone:
			info.Phone, err = d.Str()
		case "shippingMethod":
			method, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		writeError(w, r, err)
		return
	}

	h.withCheckout(w, r, func(wf *checkout.Workflow) error {
		if method != "" {
			if err := wf.SetShippingMethod(pricing.ShippingMethod(method)); err != nil {
				return err
			}
		}
		return wf.SubmitShipping(info)
	})
}

// SetShippingMethod handles PUT /sessions/{sid}/checkout/shipping-method.
func (h *Handler) SetShippingMethod(w http.ResponseWriter, r *http.Request) {
	var method string
	if err := h.decodeBody(w, r, func(d *jx.Decoder, key string) error {
		if key != "shippingMethod" {
			return d.Skip()
		}
		var err error
		method, err = d.Str()
		return err
	}); err != nil {
		writeError(w, r, err)
		return
	}

	h.withCheckout(w, r, func(wf *checkout.Workflow) error {
		return wf.SetShippingMethod(pricing.ShippingMethod(method))
	})
}

// SubmitPayment handles POST /sessions/{sid}/checkout/payment.
func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var info checkout.PaymentInfo
	if err := h.decodeBody(w, r, func(d *jx.Decoder, key string) error {
		var err error
		switch checkout.Field(key) {
		case checkout.FieldCardName:
			info.CardName, err = d.Str()
		case checkout.FieldCardNumber:
			info.CardNumber, err = d.Str()
		case checkout.FieldExpiration:
			info.Expiration, err = d.Str()
		case checkout.FieldCVV:
			info.CVV, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		writeError(w, r, err)
		return
	}

	h.withCheckout(w, r, func(wf *checkout.Workflow) error {
		return wf.SubmitPayment(info)
	})
}

// CheckoutBack handles POST /sessions/{sid}/checkout/back.
func (h *Handler) CheckoutBack(w http.ResponseWriter, r *http.Request) {
	h.withCheckout(w, r, func(wf *checkout.Workflow) error {
		return wf.Back()
	})
}

// PlaceOrder handles POST /sessions/{sid}/checkout/place.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	h.withCheckout(w, r, func(wf *checkout.Workflow) error {
		_, err := wf.PlaceOrder(r.Context())
		return err
	})
}

// withCheckout runs fn against the session's workflow and responds with the
// resulting checkout state.
func (h *Handler) withCheckout(w http.ResponseWriter, r *http.Request, fn func(*checkout.Workflow) error) {
	h.withSession(w, r, func(st *session.State) error {
		if st.Checkout == nil {
			return ErrCheckoutNotStarted
		}
		if err := fn(st.Checkout); err != nil {
			return err
		}
		writeCheckout(w, http.StatusOK, st.Checkout)
		return nil
	})
}

func writeCheckout(w http.ResponseWriter, status int, wf *checkout.Workflow) {
	writeJSON(w, status, func(e *jx.Encoder) {
		encodeCheckout(e, wf)
	})
}
