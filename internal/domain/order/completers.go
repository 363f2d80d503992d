package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// LogCompleter writes one structured log line per placed order, using the
// logger carried by the context.
func LogCompleter() Completer {
	return CompleterFunc(func(ctx context.Context, c *Confirmation) error {
		totals := c.Totals.Rounded()
		zctx.From(ctx).Info("Order placed",
			zap.String("order", c.Number),
			zap.Int("line_items", len(c.Items)),
			zap.String("shipping_method", string(c.ShippingMethod)),
			zap.String("subtotal", totals.Subtotal.StringFixed(2)),
			zap.String("total", totals.Total.StringFixed(2)),
			zap.Time("placed_at", c.PlacedAt),
		)
		return nil
	})
}

// MetricsCompleter counts placed orders and their revenue.
type MetricsCompleter struct {
	orders  metric.Int64Counter
	units   metric.Int64Counter
	revenue metric.Float64Counter
}

// NewMetricsCompleter registers the order instruments on meter.
func NewMetricsCompleter(meter metric.Meter) (*MetricsCompleter, error) {
	orders, err := meter.Int64Counter("storefront.orders.placed",
		metric.WithDescription("Number of placed orders"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "orders counter")
	}
	units, err := meter.Int64Counter("storefront.orders.units",
		metric.WithDescription("Number of product units in placed orders"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "units counter")
	}
	revenue, err := meter.Float64Counter("storefront.orders.revenue",
		metric.WithDescription("Order totals including shipping and tax"),
		metric.WithUnit("USD"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "revenue counter")
	}
	return &MetricsCompleter{orders: orders, units: units, revenue: revenue}, nil
}

// OrderPlaced implements Completer.
func (m *MetricsCompleter) OrderPlaced(ctx context.Context, c *Confirmation) error {
	attrs := metric.WithAttributes(attribute.String("shipping_method", string(c.ShippingMethod)))

	units := 0
	for _, item := range c.Items {
		units += item.Quantity
	}

	m.orders.Add(ctx, 1, attrs)
	m.units.Add(ctx, int64(units), attrs)
	m.revenue.Add(ctx, c.Totals.Rounded().Total.InexactFloat64(), attrs)
	return nil
}
