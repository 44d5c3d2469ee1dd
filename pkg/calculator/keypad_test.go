package calculator_test

import (
	"errors"
	"testing"

	"golang.org/x/text/language"

	"github.com/turbekoff/amountpad/pkg/calculator"
	"github.com/turbekoff/amountpad/pkg/locale"
)

func TestPress_Aliases(t *testing.T) {
	t.Parallel()

	c, _ := newCalculator(t, locale.Default)
	for _, k := range []string{"6", "*", "2", "/", "4", "×", "3", "−", "1"} {
		if err := c.Press(k); err != nil {
			t.Fatalf("press %q: %v", k, err)
		}
	}
	if c.Display() != "6x2÷4x3-1" {
		t.Fatalf("unexpected display %q", c.Display())
	}
	if c.Amount() != "8" {
		t.Fatalf("want 8, got %q", c.Amount())
	}
}

func TestPress_Unsupported(t *testing.T) {
	t.Parallel()

	c, _ := newCalculator(t, locale.Default)
	press(c, "4")
	for _, k := range []string{"%", "", "12", ",", "AC"} {
		if err := c.Press(k); !errors.Is(err, calculator.ErrUnsupportedKey) {
			t.Fatalf("press %q: want unsupported, got %v", k, err)
		}
	}
	if c.Display() != "4" {
		t.Fatalf("unsupported keys changed display to %q", c.Display())
	}
}

func TestPress_ControlKeys(t *testing.T) {
	t.Parallel()

	c, rec := newCalculator(t, locale.Default)
	press(c, "1", "2", calculator.KeyBackspace)
	if c.Display() != "1" {
		t.Fatalf("backspace: got %q", c.Display())
	}
	press(c, "+", "1", calculator.KeyEquals)
	if c.Display() != "2" {
		t.Fatalf("equals: got %q", c.Display())
	}
	press(c, calculator.KeyClear)
	if c.Display() != "0" {
		t.Fatalf("clear: got %q", c.Display())
	}
	press(c, "5", calculator.KeyEquals)
	if rec.done != 1 {
		t.Fatalf("done: want 1, got %d", rec.done)
	}
}

func TestLayout(t *testing.T) {
	t.Parallel()

	rows := calculator.Layout(locale.New(language.German), calculator.AwaitingOperator)
	if len(rows) != 5 {
		t.Fatalf("want 5 rows, got %d", len(rows))
	}

	last := rows[len(rows)-1]
	if last[2].Label != "," || last[2].Data != calculator.KeyDecimal {
		t.Fatalf("decimal key: %+v", last[2])
	}
	if last[3].Label != "Done" {
		t.Fatalf("equals key awaiting operator: %q", last[3].Label)
	}

	rows = calculator.Layout(locale.Default, calculator.HasOperator)
	if got := rows[4][3].Label; got != "=" {
		t.Fatalf("equals key with operator: %q", got)
	}

	c, _ := newCalculator(t, locale.Default)
	for _, row := range rows {
		for _, k := range row {
			if k.Data == calculator.KeyEquals || k.Data == calculator.KeyClear {
				continue
			}
			if err := c.Press(k.Data); errors.Is(err, calculator.ErrUnsupportedKey) {
				t.Fatalf("layout key %q is not pressable", k.Data)
			}
		}
	}
}
