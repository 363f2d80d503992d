package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shopease/internal/domain/cart"
	"github.com/xenking/shopease/internal/domain/order"
	"github.com/xenking/shopease/internal/domain/pricing"
	"github.com/xenking/shopease/internal/domain/product"
)

// --- Mock implementations ---

type fixedNumbers struct {
	numbers []string
	calls   int
}

func (f *fixedNumbers) Next() string {
	n := f.numbers[f.calls%len(f.numbers)]
	f.calls++
	return n
}

type recordingCompleter struct {
	placed []*order.Confirmation
	err    error
}

func (r *recordingCompleter) OrderPlaced(_ context.Context, c *order.Confirmation) error {
	r.placed = append(r.placed, c)
	return r.err
}

// countingCart wraps a cart store and counts ClearCart calls.
type countingCart struct {
	*cart.Store
	clears int
}

func (c *countingCart) ClearCart() {
	c.clears++
	c.Store.ClearCart()
}

// --- Helpers ---

var placedAt = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func validShipping() ShippingInfo {
	return ShippingInfo{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Address:   "12 Analytical Row",
		City:      "London",
		State:     "LN",
		Zip:       "10001",
		Email:     "ada@example.com",
		Phone:     "555-0100",
	}
}

func validPayment() PaymentInfo {
	return PaymentInfo{
		CardName:   "Ada Lovelace",
		CardNumber: "4242 4242 4242 4242",
		Expiration: "12/30",
		CVV:        "123",
	}
}

type fixture struct {
	cart      *countingCart
	numbers   *fixedNumbers
	completer *recordingCompleter
	svc       *Service
}

func newFixture(t *testing.T, prices ...string) *fixture {
	t.Helper()

	f := &fixture{
		cart:      &countingCart{Store: cart.NewStore()},
		numbers:   &fixedNumbers{numbers: []string{"ORD-123456"}},
		completer: &recordingCompleter{},
	}
	for i, price := range prices {
		p := product.Product{
			ID:       string(rune('a' + i)),
			Name:     "Item",
			Price:    decimal.RequireFromString(price),
			Category: product.CategoryBooks,
			Stock:    10,
		}
		require.NoError(t, f.cart.AddToCart(p, 1))
	}
	f.svc = NewService(f.numbers, f.completer)
	f.svc.now = func() time.Time { return placedAt }
	return f
}

func (f *fixture) start(t *testing.T) *Workflow {
	t.Helper()
	w, err := f.svc.Start(f.cart)
	require.NoError(t, err)
	return w
}

func advanceToReview(t *testing.T, w *Workflow) {
	t.Helper()
	require.NoError(t, w.SubmitShipping(validShipping()))
	require.NoError(t, w.SubmitPayment(validPayment()))
	require.Equal(t, StepReview, w.Step())
}

// --- Tests ---

func TestStart_EmptyCartRejected(t *testing.T) {
	f := newFixture(t)

	w, err := f.svc.Start(f.cart)

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, w)
}

func TestStart_BeginsAtShipping(t *testing.T) {
	f := newFixture(t, "10.00")

	w := f.start(t)

	assert.Equal(t, StepShipping, w.Step())
	assert.Equal(t, pricing.ShippingStandard, w.ShippingMethod())
	assert.Nil(t, w.Confirmation())
}

func TestSubmitShipping_MissingFields(t *testing.T) {
	f := newFixture(t, "10.00")
	w := f.start(t)

	info := validShipping()
	info.Email = ""
	info.Zip = "   "
	info.FirstName = ""

	err := w.SubmitShipping(info)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, StepShipping, vErr.Step)
	assert.Equal(t, []Field{FieldFirstName, FieldZip, FieldEmail}, vErr.Fields)
	assert.Equal(t, "email is required", vErr.Messages()[FieldEmail])
	assert.Equal(t, "ZIP code is required", vErr.Messages()[FieldZip])
	assert.Equal(t, StepShipping, w.Step())
	assert.Equal(t, "Lovelace", w.Shipping().LastName, "entered values are kept")
}

func TestSubmitShipping_AllFieldsRequired(t *testing.T) {
	f := newFixture(t, "10.00")
	w := f.start(t)

	err := w.SubmitShipping(ShippingInfo{})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []Field{
		FieldFirstName, FieldLastName, FieldAddress, FieldCity,
		FieldState, FieldZip, FieldEmail, FieldPhone,
	}, vErr.Fields)
}

func TestSubmitPayment_MissingFields(t *testing.T) {
	f := newFixture(t, "10.00")
	w := f.start(t)
	require.NoError(t, w.SubmitShipping(validShipping()))

	err := w.SubmitPayment(PaymentInfo{CardName: "Ada"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, StepPayment, vErr.Step)
	assert.Equal(t, []Field{FieldCardNumber, FieldExpiration, FieldCVV}, vErr.Fields)
	assert.Equal(t, StepPayment, w.Step())
}

func TestTransitions_OutOfOrder(t *testing.T) {
	f := newFixture(t, "10.00")
	w := f.start(t)

	var tErr *TransitionError
	require.ErrorAs(t, w.SubmitPayment(validPayment()), &tErr)
	assert.Equal(t, StepShipping, tErr.From)

	_, err := w.PlaceOrder(context.Background())
	require.ErrorAs(t, err, &tErr)

	require.ErrorAs(t, w.Back(), &tErr)
	assert.Equal(t, "cannot go back from step shipping", tErr.Error())

	require.NoError(t, w.SubmitShipping(validShipping()))
	require.ErrorAs(t, w.SubmitShipping(validShipping()), &tErr)
	assert.Equal(t, StepPayment, tErr.From)
}

func TestBack_PreservesValues(t *testing.T) {
	f := newFixture(t, "10.00")
	w := f.start(t)
	advanceToReview(t, w)

	require.NoError(t, w.Back())
	assert.Equal(t, StepPayment, w.Step())
	assert.Equal(t, validPayment(), w.Payment())

	require.NoError(t, w.Back())
	assert.Equal(t, StepShipping, w.Step())
	assert.Equal(t, validShipping(), w.Shipping())
	assert.Equal(t, validPayment(), w.Payment())
}

func TestShippingMethod_FeedsSummary(t *testing.T) {
	f := newFixture(t, "20.00", "20.00")
	w := f.start(t)

	summary := w.Summary()
	assert.True(t, decimal.RequireFromString("5.99").Equal(summary.Shipping))

	require.NoError(t, w.SetShippingMethod(pricing.ShippingExpress))
	require.NoError(t, w.SubmitShipping(validShipping()))
	assert.Equal(t, pricing.ShippingExpress, w.ShippingMethod())

	summary = w.Summary()
	assert.True(t, decimal.RequireFromString("15.99").Equal(summary.Shipping))
	assert.True(t, decimal.RequireFromString("3.20").Equal(summary.Tax))
	assert.True(t, decimal.RequireFromString("59.19").Equal(summary.Total))

	require.ErrorIs(t, w.SetShippingMethod("drone"), pricing.ErrUnknownShippingMethod)
	assert.Equal(t, pricing.ShippingExpress, w.ShippingMethod())
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t, "40.00")
	w := f.start(t)
	advanceToReview(t, w)

	c, err := w.PlaceOrder(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ORD-123456", c.Number)
	assert.Equal(t, placedAt, c.PlacedAt)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("49.19").Equal(c.Totals.Total))
	assert.Equal(t, "Ada Lovelace", c.Recipient.FullName())

	assert.Equal(t, StepPlaced, w.Step())
	assert.Same(t, c, w.Confirmation())
	assert.Zero(t, f.cart.TotalItems())
	assert.Equal(t, 1, f.cart.clears)
	assert.Equal(t, PaymentInfo{}, w.Payment(), "card data is dropped after placement")
	require.Len(t, f.completer.placed, 1)
	assert.Same(t, c, f.completer.placed[0])

	summary := w.Summary()
	assert.True(t, c.Totals.Total.Equal(summary.Total), "summary keeps the placed totals")
}

func TestPlaceOrder_OnlyOnce(t *testing.T) {
	f := newFixture(t, "40.00")
	w := f.start(t)
	advanceToReview(t, w)

	_, err := w.PlaceOrder(context.Background())
	require.NoError(t, err)

	_, err = w.PlaceOrder(context.Background())
	require.ErrorIs(t, err, ErrAlreadyPlaced)
	require.ErrorIs(t, w.Back(), ErrAlreadyPlaced)

	assert.Equal(t, 1, f.cart.clears)
	assert.Equal(t, 1, f.numbers.calls)
	assert.Len(t, f.completer.placed, 1)
}

func TestPlaceOrder_CompleterErrorKeepsOrderPlaced(t *testing.T) {
	f := newFixture(t, "40.00")
	f.completer.err = errors.New("downstream unavailable")
	w := f.start(t)
	advanceToReview(t, w)

	c, err := w.PlaceOrder(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, c.Number)
	assert.Equal(t, StepPlaced, w.Step())
	assert.True(t, f.cart.IsEmpty())
}

func TestEmptiedCartResetsWorkflow(t *testing.T) {
	f := newFixture(t, "40.00")
	w := f.start(t)
	require.NoError(t, w.SetShippingMethod(pricing.ShippingExpress))
	require.NoError(t, w.SubmitShipping(validShipping()))

	f.cart.RemoveFromCart("a")

	require.ErrorIs(t, w.SubmitPayment(validPayment()), ErrEmptyCart)
	assert.Equal(t, StepShipping, w.Step())
	assert.Equal(t, ShippingInfo{}, w.Shipping())
	assert.Equal(t, pricing.ShippingStandard, w.ShippingMethod())
	assert.Zero(t, f.cart.clears)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t, "40.00")
	w := f.start(t)
	require.NoError(t, w.SetShippingMethod(pricing.ShippingExpress))
	require.NoError(t, w.SubmitShipping(validShipping()))

	w.Refresh()
	assert.Equal(t, StepPayment, w.Step(), "non-empty cart is left alone")

	f.cart.ClearCart()
	w.Refresh()

	assert.Equal(t, StepShipping, w.Step())
	assert.Equal(t, ShippingInfo{}, w.Shipping())
	assert.Equal(t, pricing.ShippingStandard, w.ShippingMethod())
}

func TestRefresh_PlacedKeepsConfirmation(t *testing.T) {
	f := newFixture(t, "40.00")
	w := f.start(t)
	advanceToReview(t, w)
	c, err := w.PlaceOrder(context.Background())
	require.NoError(t, err)

	w.Refresh()

	assert.Equal(t, StepPlaced, w.Step())
	assert.Same(t, c, w.Confirmation())
}

func TestMaskedCardNumber(t *testing.T) {
	tests := map[string]string{
		"4242 4242 4242 4242": "**** **** **** 4242",
		"378282246310005":     "**** **** *** 0005",
		"1234":                "1234",
		"":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, PaymentInfo{CardNumber: in}.MaskedCardNumber(), in)
	}
}
