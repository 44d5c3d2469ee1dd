package calculator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/turbekoff/amountpad/pkg/locale"
)

// divisionPrecision is the number of digits a quotient keeps, counting its
// integer digits and fraction places. Leading zeros of a quotient below one
// count as places.
const divisionPrecision = 64

// term is an operator followed by the number it applies to. The first term of
// an expression has no operator. Only the last term may have an empty number,
// which means its operator is still waiting for an operand.
type term struct {
	op     Operator
	number string
}

// Expression is a de-grouped arithmetic expression. Numbers use '.' as the
// decimal separator and carry no grouping.
type Expression struct {
	terms []term
}

// Zero returns the reset expression "0".
func Zero() Expression {
	return Expression{terms: []term{{number: "0"}}}
}

// FromDecimal returns an expression holding the single number d.
func FromDecimal(d decimal.Decimal) Expression {
	return Expression{terms: []term{{number: d.String()}}}
}

// Parse reads a display or de-grouped expression written with symbols. An
// empty text parses as Zero. A single trailing operator is kept.
func Parse(text string, symbols locale.Symbols) (Expression, error) {
	plain := symbols.Degroup(strings.TrimSpace(text))
	if plain == "" {
		return Zero(), nil
	}

	var (
		e   Expression
		cur term
	)
	for i, r := range plain {
		if isNumberRune(r) {
			cur.number += string(r)
			continue
		}

		op, ok := ParseOperator(r)
		if !ok {
			return Expression{}, fmt.Errorf("%w: unexpected %q", ErrMalformedExpression, r)
		}
		if i == 0 && op == Subtract {
			cur.number = "-"
			continue
		}
		if cur.number == "" || cur.number == "-" {
			return Expression{}, fmt.Errorf("%w: operator %q without operand", ErrMalformedExpression, r)
		}

		n, err := normalizeNumber(cur.number)
		if err != nil {
			return Expression{}, err
		}
		cur.number = n
		e.terms = append(e.terms, cur)
		cur = term{op: op}
	}

	if cur.number == "-" {
		return Expression{}, fmt.Errorf("%w: dangling sign", ErrMalformedExpression)
	}
	if cur.number != "" {
		n, err := normalizeNumber(cur.number)
		if err != nil {
			return Expression{}, err
		}
		cur.number = n
	}
	e.terms = append(e.terms, cur)
	return e, nil
}

func isNumberRune(r rune) bool {
	return r >= '0' && r <= '9' || r == '.'
}

// normalizeNumber drops redundant leading zeros and rejects a second '.'.
func normalizeNumber(n string) (string, error) {
	neg := strings.HasPrefix(n, "-")
	whole, frac, hasDot := cutNumber(n)
	if strings.Contains(frac, ".") {
		return "", fmt.Errorf("%w: %q has more than one decimal separator", ErrMalformedExpression, n)
	}

	whole = strings.TrimLeft(whole, "0")
	if whole == "" {
		whole = "0"
	}

	out := whole
	if hasDot {
		out += "." + frac
	}
	if neg && out != "0" {
		out = "-" + out
	}
	return out, nil
}

// cutNumber splits a number into its unsigned integer and fraction digits.
func cutNumber(n string) (whole, frac string, hasDot bool) {
	return strings.Cut(strings.TrimPrefix(n, "-"), ".")
}

// IsZero reports whether e is the reset expression.
func (e Expression) IsZero() bool {
	return len(e.terms) == 0 ||
		len(e.terms) == 1 && (e.terms[0].number == "0" || e.terms[0].number == "")
}

// HasOperator reports whether e contains a binary operator. The sign of a
// negative leading number is not an operator.
func (e Expression) HasOperator() bool {
	return len(e.terms) > 1
}

func (e Expression) clone() Expression {
	terms := make([]term, len(e.terms))
	copy(terms, e.terms)
	return Expression{terms: terms}
}

func (e *Expression) tail() *term {
	return &e.terms[len(e.terms)-1]
}

// String returns the de-grouped form, e.g. "1234.5x3+".
func (e Expression) String() string {
	if len(e.terms) == 0 {
		return "0"
	}

	var b strings.Builder
	for _, t := range e.terms {
		if t.op != 0 {
			b.WriteRune(rune(t.op))
		}
		b.WriteString(t.number)
	}
	return b.String()
}

// Format renders e for display with every number grouped per symbols.
// Fraction digits are shown exactly as typed.
func (e Expression) Format(symbols locale.Symbols) string {
	if len(e.terms) == 0 {
		return "0"
	}

	var b strings.Builder
	for _, t := range e.terms {
		if t.op != 0 {
			b.WriteRune(rune(t.op))
		}
		b.WriteString(formatNumber(t.number, symbols))
	}
	return b.String()
}

func formatNumber(n string, symbols locale.Symbols) string {
	if n == "" {
		return ""
	}

	whole, frac, hasDot := cutNumber(n)
	out := symbols.Group(whole)
	if strings.HasPrefix(n, "-") {
		out = "-" + out
	}
	if hasDot {
		out += string(symbols.Decimal) + frac
	}
	return out
}

// Evaluate computes e with multiplication and division binding tighter than
// addition and subtraction, left to right within each level. A trailing
// operator is ignored. Dividing by zero leaves the dividend unchanged.
func (e Expression) Evaluate() (decimal.Decimal, error) {
	terms := e.terms
	if n := len(terms); n > 0 && terms[n-1].number == "" {
		terms = terms[:n-1]
	}
	if len(terms) == 0 {
		return decimal.Zero, ErrEmptyExpression
	}

	operands := make([]decimal.Decimal, 0, len(terms))
	for _, t := range terms {
		d, err := decimal.NewFromString(strings.TrimSuffix(t.number, "."))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: operand %q", ErrMalformedExpression, t.number)
		}
		operands = append(operands, d)
	}

	reduced := operands[:1:1]
	var additive []Operator
	for i, t := range terms[1:] {
		rhs := operands[i+1]
		last := len(reduced) - 1

		switch t.op {
		case Multiply:
			reduced[last] = reduced[last].Mul(rhs)
		case Divide:
			if !rhs.IsZero() {
				reduced[last] = quo(reduced[last], rhs)
			}
		case Add, Subtract:
			reduced = append(reduced, rhs)
			additive = append(additive, t.op)
		default:
			return decimal.Zero, fmt.Errorf("%w: operator %q", ErrMalformedExpression, rune(t.op))
		}
	}

	result := reduced[0]
	for i, op := range additive {
		if op == Add {
			result = result.Add(reduced[i+1])
		} else {
			result = result.Sub(reduced[i+1])
		}
	}
	return result, nil
}

func quo(a, b decimal.Decimal) decimal.Decimal {
	var digits int32
	if whole, _ := a.QuoRem(b, 0); !whole.IsZero() {
		digits = int32(len(whole.Abs().String()))
	}

	places := divisionPrecision - digits
	if places < 0 {
		places = 0
	}
	return a.DivRound(b, places)
}
