package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopease/internal/domain/cart"
	"github.com/xenking/shopease/internal/domain/catalog"
	"github.com/xenking/shopease/internal/domain/checkout"
	"github.com/xenking/shopease/internal/domain/order"
	"github.com/xenking/shopease/internal/domain/pricing"
	"github.com/xenking/shopease/internal/domain/product"
)

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status is already written; a failed write means the client is gone.
	_, _ = w.Write(e.Bytes())
}

// decodeBody reads a JSON object body and calls fn for every field.
// An empty body is treated as an empty object.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, fn func(d *jx.Decoder, key string) error) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		return badRequest(err, "read body")
	}
	if len(data) == 0 {
		return nil
	}
	if err := jx.DecodeBytes(data).Obj(fn); err != nil {
		return badRequest(err, "decode body")
	}
	return nil
}

func encodeMoney(e *jx.Encoder, d decimal.Decimal) {
	e.Float64(d.Round(2).InexactFloat64())
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("price")
	encodeMoney(e, p.Price)
	e.FieldStart("displayPrice")
	e.Str(pricing.Format(p.Price))
	e.FieldStart("category")
	e.Str(p.Category.String())
	e.FieldStart("image")
	e.Str(p.Image)
	e.FieldStart("rating")
	e.Float64(p.Rating)
	e.FieldStart("stock")
	e.Int(p.Stock)
	e.FieldStart("inStock")
	e.Bool(p.InStock())
	e.FieldStart("featured")
	e.Bool(p.Featured)
	e.ObjEnd()
}

func encodeProducts(e *jx.Encoder, products []product.Product) {
	e.ArrStart()
	for _, p := range products {
		encodeProduct(e, p)
	}
	e.ArrEnd()
}

func encodeFacets(e *jx.Encoder, fs catalog.FacetSet) {
	e.ObjStart()
	e.FieldStart("categories")
	e.ArrStart()
	for _, c := range fs.Categories {
		e.ObjStart()
		e.FieldStart("category")
		e.Str(c.Category.String())
		e.FieldStart("name")
		e.Str(c.Category.DisplayName())
		e.FieldStart("count")
		e.Int(c.Count)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("minPrice")
	encodeMoney(e, fs.PriceBounds.Min)
	e.FieldStart("maxPrice")
	encodeMoney(e, fs.PriceBounds.Max)
	e.FieldStart("inStock")
	e.Int(fs.InStock)
	e.FieldStart("outOfStock")
	e.Int(fs.OutOfStock)
	e.ObjEnd()
}

func encodeFilter(e *jx.Encoder, f catalog.Filter) {
	e.ObjStart()
	e.FieldStart("search")
	e.Str(f.SearchTerm)
	e.FieldStart("category")
	e.Str(f.Category.String())
	e.FieldStart("minPrice")
	encodeMoney(e, f.PriceRange.Min)
	e.FieldStart("maxPrice")
	encodeMoney(e, f.PriceRange.Max)
	e.FieldStart("sort")
	e.Str(string(f.Sort))
	e.ObjEnd()
}

func encodeCart(e *jx.Encoder, snap cart.Snapshot) {
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, li := range snap.Items {
		e.ObjStart()
		e.FieldStart("product")
		encodeProduct(e, li.Product)
		e.FieldStart("quantity")
		e.Int(li.Quantity)
		e.FieldStart("lineTotal")
		encodeMoney(e, li.LineTotal())
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("totalItems")
	e.Int(snap.TotalItems)
	e.FieldStart("totalPrice")
	encodeMoney(e, snap.TotalPrice)
	e.ObjEnd()
}

func encodeTotals(e *jx.Encoder, t pricing.Totals, method pricing.ShippingMethod) {
	t = t.Rounded()
	e.ObjStart()
	e.FieldStart("shippingMethod")
	e.Str(string(method))
	e.FieldStart("subtotal")
	encodeMoney(e, t.Subtotal)
	e.FieldStart("shipping")
	encodeMoney(e, t.Shipping)
	e.FieldStart("tax")
	encodeMoney(e, t.Tax)
	e.FieldStart("total")
	encodeMoney(e, t.Total)
	e.FieldStart("freeShippingRemaining")
	encodeMoney(e, pricing.FreeShippingRemaining(t.Subtotal))
	e.FieldStart("display")
	e.ObjStart()
	e.FieldStart("subtotal")
	e.Str(pricing.Format(t.Subtotal))
	e.FieldStart("shipping")
	e.Str(pricing.Format(t.Shipping))
	e.FieldStart("tax")
	e.Str(pricing.Format(t.Tax))
	e.FieldStart("total")
	e.Str(pricing.Format(t.Total))
	e.ObjEnd()
	e.ObjEnd()
}

func encodeShipping(e *jx.Encoder, s checkout.ShippingInfo) {
	e.ObjStart()
	for _, f := range []struct {
		name  checkout.Field
		value string
	}{
		{checkout.FieldFirstName, s.FirstName},
		{checkout.FieldLastName, s.LastName},
		{checkout.FieldAddress, s.Address},
		{checkout.FieldCity, s.City},
		{checkout.FieldState, s.State},
		{checkout.FieldZip, s.Zip},
		{checkout.FieldEmail, s.Email},
		{checkout.FieldPhone, s.Phone},
	} {
		e.FieldStart(string(f.name))
		e.Str(f.value)
	}
	e.ObjEnd()
}

// encodePayment never echoes the full card number or the CVV.
func encodePayment(e *jx.Encoder, p checkout.PaymentInfo) {
	e.ObjStart()
	e.FieldStart(string(checkout.FieldCardName))
	e.Str(p.CardName)
	e.FieldStart(string(checkout.FieldCardNumber))
	e.Str(p.MaskedCardNumber())
	e.FieldStart(string(checkout.FieldExpiration))
	e.Str(p.Expiration)
	e.ObjEnd()
}

func encodeConfirmation(e *jx.Encoder, c *order.Confirmation) {
	e.ObjStart()
	e.FieldStart("orderNumber")
	e.Str(c.Number)
	e.FieldStart("placedAt")
	e.Str(c.PlacedAt.UTC().Format(time.RFC3339))
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range c.Items {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(it.ProductID)
		e.FieldStart("name")
		e.Str(it.Name)
		e.FieldStart("unitPrice")
		encodeMoney(e, it.UnitPrice)
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.FieldStart("lineTotal")
		encodeMoney(e, it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("summary")
	encodeTotals(e, c.Totals, c.ShippingMethod)
	e.FieldStart("recipient")
	e.ObjStart()
	e.FieldStart("name")
	e.Str(c.Recipient.FullName())
	e.FieldStart("address")
	e.Str(c.Recipient.Address)
	e.FieldStart("city")
	e.Str(c.Recipient.City)
	e.FieldStart("state")
	e.Str(c.Recipient.State)
	e.FieldStart("zipCode")
	e.Str(c.Recipient.Zip)
	e.FieldStart("email")
	e.Str(c.Recipient.Email)
	e.ObjEnd()
	e.ObjEnd()
}

func encodeCheckout(e *jx.Encoder, w *checkout.Workflow) {
	e.ObjStart()
	e.FieldStart("step")
	e.Str(w.Step().String())
	e.FieldStart("shippingMethod")
	e.Str(string(w.ShippingMethod()))
	e.FieldStart("shipping")
	encodeShipping(e, w.Shipping())
	e.FieldStart("payment")
	encodePayment(e, w.Payment())
	e.FieldStart("summary")
	encodeTotals(e, w.Summary(), w.ShippingMethod())
	if c := w.Confirmation(); c != nil {
		e.FieldStart("confirmation")
		encodeConfirmation(e, c)
	}
	e.ObjEnd()
}

// decodeDecimal accepts JSON numbers and numeric strings.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	if d.Next() == jx.String {
		s, err := d.Str()
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromString(s)
	}
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	v, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "parse amount")
	}
	return v, nil
}

func parseAmount(s, name string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, badRequest(err, name)
	}
	return d, nil
}
