// Package calculator implements the arithmetic keypad behind amount entry:
// a live expression edited one key at a time, grouped for display after every
// edit and evaluated with decimal precision on demand.
//
// A Calculator is not safe for concurrent use. Hosts serialize key presses.
package calculator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/turbekoff/amountpad/pkg/locale"
)

const (
	// TripleZero is the "000" shortcut key.
	TripleZero = "000"
	// ErrorPrefix starts the text returned by EvaluateText on failure.
	ErrorPrefix = "ERROR"
)

// State drives the label of the equals key.
type State int

const (
	// AwaitingOperator means equals finishes entry.
	AwaitingOperator State = iota
	// HasOperator means equals computes the expression.
	HasOperator
)

func (s State) String() string {
	if s == HasOperator {
		return "has-operator"
	}
	return "awaiting-operator"
}

// Label is the text of the equals key in this state.
func (s State) Label() string {
	if s == HasOperator {
		return "="
	}
	return "Done"
}

type Calculator struct {
	expr      Expression
	symbols   locale.Symbols
	limits    Limits
	evaluated bool

	onChange func(display string)
	onDone   func()
}

func New(symbols locale.Symbols, limits Limits) *Calculator {
	return &Calculator{
		expr:    Zero(),
		symbols: symbols,
		limits:  limits,
	}
}

// OnChange registers fn to receive the display after every change.
func (c *Calculator) OnChange(fn func(display string)) {
	c.onChange = fn
}

// OnDone registers fn to run when equals is pressed with no operator.
func (c *Calculator) OnDone(fn func()) {
	c.onDone = fn
}

func (c *Calculator) Display() string {
	return c.expr.Format(c.symbols)
}

func (c *Calculator) Expression() Expression {
	return c.expr
}

func (c *Calculator) Symbols() locale.Symbols {
	return c.symbols
}

func (c *Calculator) State() State {
	if c.expr.HasOperator() {
		return HasOperator
	}
	return AwaitingOperator
}

// Evaluated reports whether the display holds the result of an equals press.
func (c *Calculator) Evaluated() bool {
	return c.evaluated
}

func (c *Calculator) commit(e Expression) {
	c.expr = e
	c.evaluated = false
	c.notify()
}

func (c *Calculator) notify() {
	if c.onChange != nil {
		c.onChange(c.Display())
	}
}

// Input appends a digit, TripleZero or the decimal separator to the last
// number. "." is accepted as the decimal separator in every locale. A
// rejected key leaves the expression unchanged.
func (c *Calculator) Input(key string) error {
	switch {
	case key == "." || key == string(c.symbols.Decimal):
		return c.appendSeparator()
	case key == TripleZero:
		return c.appendDigits(key)
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		return c.appendDigits(key)
	}
	return ErrUnsupportedKey
}

func (c *Calculator) appendDigits(digits string) error {
	if c.expr.IsZero() {
		if digits == TripleZero {
			return ErrMisplacedZeros
		}
		c.commit(Expression{terms: []term{{number: digits}}})
		return nil
	}

	next := c.expr.clone()
	t := next.tail()
	switch {
	case (t.number == "" || t.number == "0") && digits == TripleZero:
		return ErrMisplacedZeros
	case t.number == "" || t.number == "0":
		t.number = digits
	default:
		t.number += digits
	}

	if err := c.limits.checkNumber(t.number); err != nil {
		return err
	}
	if err := c.limits.checkAmount(next); err != nil {
		return err
	}
	c.commit(next)
	return nil
}

func (c *Calculator) appendSeparator() error {
	if c.expr.IsZero() {
		return ErrLeadingSeparator
	}

	next := c.expr.clone()
	t := next.tail()
	switch {
	case strings.Contains(t.number, "."):
		return ErrDuplicateSeparator
	case c.limits.MaxFractionDigits <= 0:
		return ErrTooManyDigits
	case t.number == "":
		t.number = "0."
	default:
		t.number += "."
	}
	c.commit(next)
	return nil
}

// AppendOperator appends op, replacing a trailing operator. ASCII and
// Unicode spellings accepted by ParseOperator are stored as the keypad glyph.
func (c *Calculator) AppendOperator(op Operator) error {
	op, ok := ParseOperator(rune(op))
	if !ok {
		return ErrUnsupportedKey
	}
	if c.expr.IsZero() {
		return ErrLeadingOperator
	}

	next := c.expr.clone()
	t := next.tail()
	if t.number == "" {
		t.op = op
	} else {
		t.number = strings.TrimSuffix(t.number, ".")
		next.terms = append(next.terms, term{op: op})
	}
	c.commit(next)
	return nil
}

// Backspace removes the last typed character. Removing the last character of
// the expression resets it to "0".
func (c *Calculator) Backspace() {
	if c.expr.IsZero() {
		c.commit(Zero())
		return
	}

	next := c.expr.clone()
	t := next.tail()
	if t.number == "" {
		next.terms = next.terms[:len(next.terms)-1]
	} else {
		t.number = t.number[:len(t.number)-1]
		if len(next.terms) == 1 && (t.number == "" || t.number == "-") {
			next = Zero()
		}
	}
	c.commit(next)
}

// Clear resets the expression to "0" and notifies.
func (c *Calculator) Clear() {
	c.commit(Zero())
}

// Reset is Clear without notification.
func (c *Calculator) Reset() {
	c.expr = Zero()
	c.evaluated = false
}

// Evaluate computes the current expression.
func (c *Calculator) Evaluate() (decimal.Decimal, error) {
	return c.expr.Evaluate()
}

// EvaluateText returns the result as a canonical decimal string, or
// ErrorPrefix followed by the display when the expression cannot be evaluated.
func (c *Calculator) EvaluateText() string {
	result, err := c.expr.Evaluate()
	if err != nil {
		return ErrorPrefix + c.Display()
	}
	return result.String()
}

// Equals computes the expression when it has an operator and replaces it with
// the result rounded half to even at the fraction digit limit. Without an operator it runs
// the OnDone callback instead.
func (c *Calculator) Equals() error {
	if !c.expr.HasOperator() {
		if c.onDone != nil {
			c.onDone()
		}
		return nil
	}

	result, err := c.expr.Evaluate()
	if err != nil {
		return err
	}
	c.expr = c.rounded(result)
	c.evaluated = true
	c.notify()
	return nil
}

// Result returns what Equals would display, without changing the expression.
func (c *Calculator) Result() (string, error) {
	result, err := c.expr.Evaluate()
	if err != nil {
		return "", err
	}
	return c.rounded(result).Format(c.symbols), nil
}

// rounded rounds half to even.
func (c *Calculator) rounded(d decimal.Decimal) Expression {
	return FromDecimal(d.RoundBank(int32(c.limits.MaxFractionDigits)))
}

// IsWithinMaxAmount reports whether the display text evaluates to an amount
// no larger than the limit.
func (c *Calculator) IsWithinMaxAmount(text string) bool {
	e, err := Parse(text, c.symbols)
	if err != nil {
		return false
	}
	return c.limits.checkAmount(e) == nil
}

// Amount returns the evaluated expression, or "0" when it cannot be evaluated.
func (c *Calculator) Amount() string {
	result, err := c.expr.Evaluate()
	if err != nil {
		return "0"
	}
	return result.String()
}

// SetAmount replaces the expression with text, written in display form. An
// empty text resets to "0".
func (c *Calculator) SetAmount(text string) error {
	e, err := Parse(text, c.symbols)
	if err != nil {
		return err
	}
	if err := c.limits.checkAmount(e); err != nil {
		return err
	}
	c.commit(e)
	return nil
}
