package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shopease/internal/domain/cart"
	"github.com/xenking/shopease/internal/domain/catalog"
	"github.com/xenking/shopease/internal/domain/checkout"
	"github.com/xenking/shopease/internal/domain/pricing"
	"github.com/xenking/shopease/internal/domain/product"
	"github.com/xenking/shopease/internal/session"
)

var (
	// ErrCheckoutNotStarted is returned for checkout actions on a session
	// without a checkout workflow.
	ErrCheckoutNotStarted = errors.New("checkout not started")
	// ErrOutOfStock is returned when no more units of a product can be added.
	ErrOutOfStock = errors.New("product out of stock")
)

// requestError marks malformed request input.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }

func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error, msg string) error {
	return &requestError{err: errors.Wrap(err, msg)}
}

// writeError maps domain errors to API error responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		vErr   *checkout.ValidationError
		tErr   *checkout.TransitionError
		reqErr *requestError
	)
	switch {
	case errors.As(err, &vErr):
		writeValidationError(w, vErr)
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, ErrCheckoutNotStarted):
		writeErrorStatus(w, http.StatusNotFound, err.Error())
	case errors.As(err, &tErr),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrAlreadyPlaced),
		errors.Is(err, ErrOutOfStock):
		writeErrorStatus(w, http.StatusConflict, err.Error())
	case errors.As(err, &reqErr),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrInvalidPriceRange),
		errors.Is(err, catalog.ErrUnknownSortOption),
		errors.Is(err, product.ErrUnknownCategory),
		errors.Is(err, pricing.ErrUnknownShippingMethod):
		writeErrorStatus(w, http.StatusBadRequest, err.Error())
	default:
		zctx.From(r.Context()).Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeErrorStatus(w, http.StatusInternalServerError, "internal error")
	}
}

func writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(msg)
		e.ObjEnd()
	})
}

func writeValidationError(w http.ResponseWriter, vErr *checkout.ValidationError) {
	const status = http.StatusUnprocessableEntity
	msgs := vErr.Messages()
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(vErr.Error())
		e.FieldStart("step")
		e.Str(vErr.Step.String())
		e.FieldStart("fields")
		e.ObjStart()
		for _, f := range vErr.Fields {
			e.FieldStart(string(f))
			e.Str(msgs[f])
		}
		e.ObjEnd()
		e.ObjEnd()
	})
}
