package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/shopease/db"
	"github.com/xenking/shopease/internal/domain/checkout"
	"github.com/xenking/shopease/internal/domain/order"
	"github.com/xenking/shopease/internal/domain/product"
	"github.com/xenking/shopease/internal/handler"
	"github.com/xenking/shopease/internal/session"
	"github.com/xenking/shopease/internal/storage/catalogfile"
	"github.com/xenking/shopease/pkg/health"
	"github.com/xenking/shopease/pkg/httpmiddleware"
)

// orderNumberCapacity sizes the issued-number filter.
const orderNumberCapacity = 100_000

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	lg.Info("Catalog loaded",
		zap.Int("products", catalog.Len()),
		zap.String("source", catalogSource(cfg.CatalogPath)),
	)

	sessions := session.NewStore(cfg.Session.TTL)

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddReadinessCheck("catalog", time.Second, health.CatalogCheck(catalog.Len))
	healthSvc.AddReadinessCheck("sessions", time.Second, health.SessionLimitCheck(sessions.Len, cfg.Session.Max))

	// Domain services.
	metricsCompleter, err := order.NewMetricsCompleter(m.MeterProvider().Meter("storefront"))
	if err != nil {
		return errors.Wrap(err, "create order metrics")
	}
	checkoutSvc := checkout.NewService(
		order.NewNumberGenerator(orderNumberCapacity),
		order.Completers{order.LogCompleter(), metricsCompleter},
	)

	h := handler.NewHandler(
		handler.HandlerConfig{LowStockThreshold: cfg.LowStock},
		catalog,
		sessions,
		checkoutSvc,
	)

	// Router: health endpoints + API routes on one server.
	mux := chi.NewRouter()
	mux.Get("/livez", healthSvc.LiveEndpoint)
	mux.Get("/readyz", healthSvc.ReadyEndpoint)
	mux.Mount("/api", h.Routes())

	limiter := httpmiddleware.NewRateLimiter(httpmiddleware.RateLimitConfig{
		Max:    cfg.RateLimit.Max,
		Window: cfg.RateLimit.Window,
	})

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", httpmiddleware.RequestIDHeader},
				ExposeHeaders:    []string{httpmiddleware.RequestIDHeader},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			limiter.Middleware(),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("storefront-api", m),
			httpmiddleware.RouteContext(),
			httpmiddleware.LogRequests(),
			httpmiddleware.Labeler(),
		),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return healthSvc.Run(gCtx, 10*time.Second)
	})
	g.Go(func() error {
		return sessions.Run(gCtx, cfg.Session.SweepInterval)
	})
	g.Go(func() error {
		return limiter.Run(gCtx)
	})
	g.Go(func() error {
		// Graceful shutdown: wait for cancellation, drain, then stop.
		<-gCtx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	g.Go(func() error {
		healthSvc.SetReady(true)
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	return g.Wait()
}

// loadCatalog reads the catalog document at path, or the bundled seed
// catalog when path is empty.
func loadCatalog(path string) (*product.Catalog, error) {
	if path == "" {
		c, err := catalogfile.DecodeBytes(db.Products)
		if err != nil {
			return nil, errors.Wrap(err, "load bundled catalog")
		}
		return c, nil
	}
	return catalogfile.Load(path)
}

func catalogSource(path string) string {
	if path == "" {
		return "bundled"
	}
	return path
}
