package calculator

import (
	"unicode/utf8"

	"github.com/turbekoff/amountpad/pkg/locale"
)

const (
	KeyDecimal   = "."
	KeyClear     = "C"
	KeyBackspace = "⌫"
	KeyEquals    = "="
)

// Key is one keypad button. Data is what the host passes back to Press.
type Key struct {
	Label string
	Data  string
}

// Press applies one keypad key. Keys are digits, TripleZero, KeyDecimal or
// the locale decimal separator, operator glyphs, KeyClear, KeyBackspace
// (or "<") and KeyEquals.
func (c *Calculator) Press(key string) error {
	switch key {
	case KeyClear:
		c.Clear()
		return nil
	case KeyBackspace, "<":
		c.Backspace()
		return nil
	case KeyEquals:
		return c.Equals()
	}

	if r, size := utf8.DecodeRuneInString(key); size > 0 && size == len(key) {
		if op, ok := ParseOperator(r); ok {
			return c.AppendOperator(op)
		}
	}
	return c.Input(key)
}

// Layout returns the keypad rows for symbols, with the equals key labelled
// for state.
func Layout(symbols locale.Symbols, state State) [][]Key {
	digit := func(d string) Key { return Key{Label: d, Data: d} }
	op := func(o Operator) Key { return Key{Label: o.String(), Data: o.String()} }

	return [][]Key{
		{{Label: KeyClear, Data: KeyClear}, {Label: KeyBackspace, Data: KeyBackspace}, op(Divide)},
		{digit("7"), digit("8"), digit("9"), op(Multiply)},
		{digit("4"), digit("5"), digit("6"), op(Subtract)},
		{digit("1"), digit("2"), digit("3"), op(Add)},
		{
			digit(TripleZero),
			digit("0"),
			{Label: string(symbols.Decimal), Data: KeyDecimal},
			{Label: state.Label(), Data: KeyEquals},
		},
	}
}
