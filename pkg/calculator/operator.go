package calculator

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrUnsupportedKey      = errors.New("unsupported key")
	ErrLeadingOperator     = errors.New("expression cannot start with an operator")
	ErrLeadingSeparator    = errors.New("expression cannot start with a decimal separator")
	ErrDuplicateSeparator  = errors.New("number already has a decimal separator")
	ErrMisplacedZeros      = errors.New("triple zero needs a leading digit")
	ErrTooManyDigits       = errors.New("number has too many digits")
	ErrAmountTooLarge      = errors.New("amount exceeds the maximum")
	ErrEmptyExpression     = errors.New("empty expression")
	ErrMalformedExpression = errors.New("malformed expression")
)

// Operator is a binary operator as shown on the keypad.
type Operator rune

const (
	Add      Operator = '+'
	Subtract Operator = '-'
	Multiply Operator = 'x'
	Divide   Operator = '÷'
)

// ParseOperator maps keypad glyphs and their ASCII spellings to an Operator.
func ParseOperator(r rune) (Operator, bool) {
	switch r {
	case '+':
		return Add, true
	case '-', '−':
		return Subtract, true
	case 'x', '×', '*':
		return Multiply, true
	case '÷', '/':
		return Divide, true
	}
	return 0, false
}

func (op Operator) String() string {
	return string(rune(op))
}

// Limits bound what the keypad accepts.
type Limits struct {
	// MaxAmount is the largest absolute value an expression may evaluate to.
	MaxAmount         decimal.Decimal
	MaxIntegerDigits  int
	MaxFractionDigits int
}

// MaxAmount is the default ceiling, 9,999,999,999,999.99.
var MaxAmount = decimal.New(999999999999999, -2)

func DefaultLimits() Limits {
	return Limits{
		MaxAmount:         MaxAmount,
		MaxIntegerDigits:  13,
		MaxFractionDigits: 2,
	}
}

func (l Limits) checkNumber(number string) error {
	whole, frac, _ := cutNumber(number)
	if l.MaxIntegerDigits > 0 && len(whole) > l.MaxIntegerDigits {
		return ErrTooManyDigits
	}
	if len(frac) > l.MaxFractionDigits {
		return ErrTooManyDigits
	}
	return nil
}

func (l Limits) checkAmount(e Expression) error {
	result, err := e.Evaluate()
	if err != nil {
		return err
	}
	if result.Abs().GreaterThan(l.MaxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}
