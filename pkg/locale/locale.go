// Package locale supplies the number symbols and integer grouping of a
// language, backed by the CLDR data in golang.org/x/text.
package locale

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Symbols describes how numbers are written in one locale.
type Symbols struct {
	Tag      language.Tag
	Decimal  rune
	Grouping rune

	printer *message.Printer
}

// Default is the English locale.
var Default = New(language.English)

// New derives the symbols of tag by formatting a probe number.
func New(tag language.Tag) Symbols {
	s := Symbols{
		Tag:      tag,
		Decimal:  '.',
		Grouping: ',',
		printer:  message.NewPrinter(tag),
	}

	var seps []rune
	for _, r := range s.printer.Sprint(number.Decimal(1234567.5)) {
		if unicode.IsDigit(r) || unicode.Is(unicode.Cf, r) {
			continue
		}
		seps = append(seps, r)
	}

	switch {
	case len(seps) >= 2 && seps[0] != seps[len(seps)-1]:
		s.Grouping = seps[0]
		s.Decimal = seps[len(seps)-1]
	case len(seps) == 1:
		s.Decimal = seps[0]
		s.Grouping = 0
	}
	return s
}

// Parse resolves a BCP 47 tag such as "de" or "en-IN".
func Parse(tag string) (Symbols, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return Symbols{}, err
	}
	return New(t), nil
}

// Group formats a run of ASCII digits with the locale grouping.
func (s Symbols) Group(digits string) string {
	if digits == "" {
		return ""
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || s.printer == nil {
		return s.groupThousands(digits)
	}

	out := s.printer.Sprint(number.Decimal(n))
	for _, r := range out {
		if unicode.IsDigit(r) && (r < '0' || r > '9') {
			return s.groupThousands(digits)
		}
	}
	return out
}

func (s Symbols) groupThousands(digits string) string {
	if s.Grouping == 0 || len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteRune(s.Grouping)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Degroup strips grouping separators and spaces and rewrites the locale
// decimal separator as '.'.
func (s Symbols) Degroup(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == s.Decimal:
			return '.'
		case r == s.Grouping, unicode.IsSpace(r), unicode.Is(unicode.Cf, r):
			return -1
		}
		return r
	}, text)
}
