package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/shopease/internal/domain/checkout"
	"github.com/xenking/shopease/internal/domain/product"
	"github.com/xenking/shopease/internal/session"
)

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// LowStockThreshold is the default for GET /products/low-stock when the
	// request has no threshold parameter.
	LowStockThreshold int
	// MaxBodyBytes bounds request bodies. Zero selects 64 KiB.
	MaxBodyBytes int64
}

// Handler serves the storefront JSON API over the catalog, the session
// store and the checkout service.
type Handler struct {
	catalog  *product.Catalog
	sessions *session.Store
	checkout *checkout.Service

	lowStockThreshold int
	maxBodyBytes      int64
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg HandlerConfig,
	catalog *product.Catalog,
	sessions *session.Store,
	checkoutSvc *checkout.Service,
) *Handler {
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = product.DefaultLowStockThreshold
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 << 10
	}
	return &Handler{
		catalog:           catalog,
		sessions:          sessions,
		checkout:          checkoutSvc,
		lowStockThreshold: cfg.LowStockThreshold,
		maxBodyBytes:      cfg.MaxBodyBytes,
	}
}

// Routes returns the API router. It is mounted under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorStatus(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/facets", h.ProductFacets)
		r.Get("/featured", h.FeaturedProducts)
		r.Get("/low-stock", h.LowStockProducts)
		r.Get("/{id}", h.GetProduct)
		r.Get("/{id}/related", h.RelatedProducts)
	})

	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Delete("/", h.DeleteSession)

		r.Get("/filter", h.GetFilter)
		r.Put("/filter", h.PutFilter)
		r.Delete("/filter", h.ResetFilter)
		r.Get("/products", h.SessionProducts)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Get("/summary", h.CartSummary)
			r.Post("/items", h.AddCartItem)
			r.Put("/items/{productId}", h.UpdateCartItem)
			r.Delete("/items/{productId}", h.RemoveCartItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", h.StartCheckout)
			r.Get("/", h.GetCheckout)
			r.Post("/shipping", h.SubmitShipping)
			r.Put("/shipping-method", h.SetShippingMethod)
			r.Post("/payment", h.SubmitPayment)
			r.Post("/back", h.CheckoutBack)
			r.Post("/place", h.PlaceOrder)
		})
	})
	return r
}

// withSession runs fn under the session lock of the {sid} path parameter and
// writes the error it returns, if any.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(*session.State) error) {
	if err := h.sessions.Do(chi.URLParam(r, "sid"), fn); err != nil {
		writeError(w, r, err)
	}
}
