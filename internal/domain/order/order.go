// Package order holds the confirmation record of a placed checkout, the
// confirmation number generator and the completion collaborators notified
// after placement.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/xenking/shopease/internal/domain/pricing"
)

// Confirmation is the record produced when a checkout is placed. Payment
// card data is never copied into it.
type Confirmation struct {
	Number         string
	PlacedAt       time.Time
	Items          []Item
	Totals         pricing.Totals
	ShippingMethod pricing.ShippingMethod
	Recipient      Recipient
}

// Item is a line item snapshot at placement time.
type Item struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Recipient is the shipping destination of an order.
type Recipient struct {
	FirstName string
	LastName  string
	Address   string
	City      string
	State     string
	Zip       string
	Email     string
	Phone     string
}

// FullName returns "First Last".
func (r Recipient) FullName() string {
	return r.FirstName + " " + r.LastName
}

// Completer is notified once an order has been placed.
type Completer interface {
	OrderPlaced(ctx context.Context, c *Confirmation) error
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, c *Confirmation) error

// OrderPlaced calls f.
func (f CompleterFunc) OrderPlaced(ctx context.Context, c *Confirmation) error {
	return f(ctx, c)
}

// Completers fans a confirmation out to every completer, in order. All
// completers run even if one fails; errors are combined.
type Completers []Completer

// OrderPlaced implements Completer.
func (cs Completers) OrderPlaced(ctx context.Context, c *Confirmation) error {
	var err error
	for _, completer := range cs {
		err = multierr.Append(err, completer.OrderPlaced(ctx, c))
	}
	return err
}
