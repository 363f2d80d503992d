// Package checkout implements the multi-step checkout state machine:
// Shipping → Payment → Review → Placed.
//
// A Workflow is not safe for concurrent use; the owner serializes actions
// together with the cart it was started on.
package checkout

import (
	"context"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/shopease/internal/domain/cart"
	"github.com/xenking/shopease/internal/domain/order"
	"github.com/xenking/shopease/internal/domain/pricing"
)

// Step is the current checkout step.
type Step string

const (
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
	StepPlaced   Step = "placed"
)

func (s Step) String() string {
	return string(s)
}

// Cart is the part of the cart store the workflow reads and clears.
type Cart interface {
	IsEmpty() bool
	TotalPrice() decimal.Decimal
	Snapshot() cart.Snapshot
	ClearCart()
}

// NumberSource issues order confirmation numbers.
type NumberSource interface {
	Next() string
}

// Service starts checkout workflows sharing one number source and one
// order-completion collaborator.
type Service struct {
	numbers   NumberSource
	completer order.Completer
	now       func() time.Time
}

// NewService creates a checkout Service. A nil completer is allowed.
func NewService(numbers NumberSource, completer order.Completer) *Service {
	return &Service{
		numbers:   numbers,
		completer: completer,
		now:       time.Now,
	}
}

// Start begins a checkout on c at StepShipping with standard shipping.
// It returns ErrEmptyCart when c holds no line items.
func (s *Service) Start(c Cart) (*Workflow, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	return &Workflow{
		svc:    s,
		cart:   c,
		step:   StepShipping,
		method: pricing.ShippingStandard,
	}, nil
}

// Workflow is one checkout attempt.
type Workflow struct {
	svc  *Service
	cart Cart

	step         Step
	shipping     ShippingInfo
	payment      PaymentInfo
	method       pricing.ShippingMethod
	confirmation *order.Confirmation
}

// Step returns the current step.
func (w *Workflow) Step() Step {
	return w.step
}

// Shipping returns the shipping data entered so far.
func (w *Workflow) Shipping() ShippingInfo {
	return w.shipping
}

// Payment returns the payment data entered so far.
func (w *Workflow) Payment() PaymentInfo {
	return w.payment
}

// ShippingMethod returns the selected shipping method.
func (w *Workflow) ShippingMethod() pricing.ShippingMethod {
	return w.method
}

// Confirmation returns the placed order, or nil before StepPlaced.
func (w *Workflow) Confirmation() *order.Confirmation {
	return w.confirmation
}

// Summary prices the current cart with the selected shipping method.
func (w *Workflow) Summary() pricing.Totals {
	if w.confirmation != nil {
		return w.confirmation.Totals
	}
	return pricing.ComputeTotals(w.cart.TotalPrice(), w.method)
}

// Refresh resets a workflow that is not placed once its cart has become
// empty, so a read never reports a step the cart no longer supports.
func (w *Workflow) Refresh() {
	if w.step != StepPlaced && w.cart.IsEmpty() {
		w.reset()
	}
}

// SetShippingMethod changes the shipping method on any step before placement.
func (w *Workflow) SetShippingMethod(m pricing.ShippingMethod) error {
	if err := w.guard(); err != nil {
		return err
	}
	parsed, err := pricing.ParseShippingMethod(string(m))
	if err != nil {
		return err
	}
	w.method = parsed
	return nil
}

// SubmitShipping stores info and advances to StepPayment when every
// required shipping field is present. Otherwise it stays on StepShipping
// and returns a *ValidationError.
func (w *Workflow) SubmitShipping(info ShippingInfo) error {
	if err := w.expect(StepShipping, "submit shipping"); err != nil {
		return err
	}
	w.shipping = info
	if m := info.Missing(); len(m) > 0 {
		return &ValidationError{Step: StepShipping, Fields: m}
	}
	w.step = StepPayment
	return nil
}

// SubmitPayment stores info and advances to StepReview when every required
// payment field is present. Otherwise it stays on StepPayment and returns a
// *ValidationError.
func (w *Workflow) SubmitPayment(info PaymentInfo) error {
	if err := w.expect(StepPayment, "submit payment"); err != nil {
		return err
	}
	w.payment = info
	if m := info.Missing(); len(m) > 0 {
		return &ValidationError{Step: StepPayment, Fields: m}
	}
	w.step = StepReview
	return nil
}

// Back returns to the previous step keeping every entered value.
func (w *Workflow) Back() error {
	if err := w.guard(); err != nil {
		return err
	}
	switch w.step {
	case StepPayment:
		w.step = StepShipping
	case StepReview:
		w.step = StepPayment
	default:
		return &TransitionError{From: w.step, Action: "go back"}
	}
	return nil
}

// PlaceOrder confirms the order from StepReview: it snapshots and clears
// the cart, issues a confirmation number and notifies the completion
// collaborator. Completion failures are logged; the order stays placed.
func (w *Workflow) PlaceOrder(ctx context.Context) (*order.Confirmation, error) {
	if err := w.expect(StepReview, "place order"); err != nil {
		return nil, err
	}

	snap := w.cart.Snapshot()
	items := make([]order.Item, len(snap.Items))
	for i, li := range snap.Items {
		items[i] = order.Item{
			ProductID: li.Product.ID,
			Name:      li.Product.Name,
			UnitPrice: li.Product.Price,
			Quantity:  li.Quantity,
		}
	}

	c := &order.Confirmation{
		Number:         w.svc.numbers.Next(),
		PlacedAt:       w.svc.now(),
		Items:          items,
		Totals:         pricing.ComputeTotals(snap.TotalPrice, w.method),
		ShippingMethod: w.method,
		Recipient:      w.shipping.Recipient(),
	}

	w.cart.ClearCart()
	w.payment = PaymentInfo{}
	w.step = StepPlaced
	w.confirmation = c

	if w.svc.completer != nil {
		if err := w.svc.completer.OrderPlaced(ctx, c); err != nil {
			zctx.From(ctx).Warn("Order completion failed",
				zap.String("order", c.Number),
				zap.Error(err),
			)
		}
	}
	return c, nil
}

// expect runs guard and checks the current step.
func (w *Workflow) expect(step Step, action string) error {
	if err := w.guard(); err != nil {
		return err
	}
	if w.step != step {
		return &TransitionError{From: w.step, Action: action}
	}
	return nil
}

// guard rejects actions after placement and resets the workflow when the
// cart has become empty.
func (w *Workflow) guard() error {
	if w.step == StepPlaced {
		return ErrAlreadyPlaced
	}
	if w.cart.IsEmpty() {
		w.reset()
		return ErrEmptyCart
	}
	return nil
}

func (w *Workflow) reset() {
	w.step = StepShipping
	w.shipping = ShippingInfo{}
	w.payment = PaymentInfo{}
	w.method = pricing.ShippingStandard
}
