package checkout

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

var (
	// ErrEmptyCart is returned when the workflow is entered or driven while
	// the cart holds no line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrAlreadyPlaced is returned by any action after the order was placed.
	ErrAlreadyPlaced = errors.New("order already placed")
)

// ValidationError lists the required fields that were blank on a submitted
// step. The workflow stays on that step.
type ValidationError struct {
	Step   Step
	Fields []Field
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("%s: missing required fields: %s", e.Step, strings.Join(names, ", "))
}

// Messages returns a user-facing message per missing field.
func (e *ValidationError) Messages() map[Field]string {
	out := make(map[Field]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f] = f.Label() + " is required"
	}
	return out
}

// TransitionError is returned when an action is not valid from the current step.
type TransitionError struct {
	From   Step
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s from step %s", e.Action, e.From)
}
