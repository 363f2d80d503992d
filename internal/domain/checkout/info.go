package checkout

import (
	"strings"

	"github.com/xenking/shopease/internal/domain/order"
)

// Field names the form fields reported in a ValidationError.
type Field string

const (
	FieldFirstName  Field = "firstName"
	FieldLastName   Field = "lastName"
	FieldAddress    Field = "address"
	FieldCity       Field = "city"
	FieldState      Field = "state"
	FieldZip        Field = "zipCode"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"
	FieldCardName   Field = "cardName"
	FieldCardNumber Field = "cardNumber"
	FieldExpiration Field = "expDate"
	FieldCVV        Field = "cvv"
)

var fieldLabels = map[Field]string{
	FieldFirstName:  "first name",
	FieldLastName:   "last name",
	FieldAddress:    "address",
	FieldCity:       "city",
	FieldState:      "state",
	FieldZip:        "ZIP code",
	FieldEmail:      "email",
	FieldPhone:      "phone",
	FieldCardName:   "name on card",
	FieldCardNumber: "card number",
	FieldExpiration: "expiration date",
	FieldCVV:        "CVV",
}

// Label returns the human-readable field name.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// ShippingInfo is the data collected on the shipping step.
type ShippingInfo struct {
	FirstName string
	LastName  string
	Address   string
	City      string
	State     string
	Zip       string
	Email     string
	Phone     string
}

// Missing returns the required fields that are blank, in form order.
func (s ShippingInfo) Missing() []Field {
	return missing([]requiredField{
		{FieldFirstName, s.FirstName},
		{FieldLastName, s.LastName},
		{FieldAddress, s.Address},
		{FieldCity, s.City},
		{FieldState, s.State},
		{FieldZip, s.Zip},
		{FieldEmail, s.Email},
		{FieldPhone, s.Phone},
	})
}

// Recipient converts the shipping data for an order confirmation.
func (s ShippingInfo) Recipient() order.Recipient {
	return order.Recipient{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Address:   s.Address,
		City:      s.City,
		State:     s.State,
		Zip:       s.Zip,
		Email:     s.Email,
		Phone:     s.Phone,
	}
}

// PaymentInfo is the data collected on the payment step. It is held only
// for the lifetime of the checkout.
type PaymentInfo struct {
	CardName   string
	CardNumber string
	Expiration string
	CVV        string
}

// Missing returns the required fields that are blank, in form order.
func (p PaymentInfo) Missing() []Field {
	return missing([]requiredField{
		{FieldCardName, p.CardName},
		{FieldCardNumber, p.CardNumber},
		{FieldExpiration, p.Expiration},
		{FieldCVV, p.CVV},
	})
}

// MaskedCardNumber returns the card number with every digit but the last
// four replaced, e.g. "**** **** **** 4242".
func (p PaymentInfo) MaskedCardNumber() string {
	digits := make([]byte, 0, len(p.CardNumber))
	for i := range len(p.CardNumber) {
		if c := p.CardNumber[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}

	var b strings.Builder
	hidden := len(digits) - 4
	for i := range hidden {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('*')
	}
	b.WriteByte(' ')
	b.Write(digits[hidden:])
	return b.String()
}

type requiredField struct {
	name  Field
	value string
}

func missing(fields []requiredField) []Field {
	var out []Field
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}
