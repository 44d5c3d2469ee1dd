package main

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/turbekoff/amountpad/pkg/calculator"
	"github.com/turbekoff/amountpad/pkg/locale"
)

func TestKeyboard_Layout(t *testing.T) {
	t.Parallel()

	markup := keyboard(locale.New(language.German), calculator.HasOperator)
	if len(markup.InlineKeyboard) != 5 {
		t.Fatalf("want 5 rows, got %d", len(markup.InlineKeyboard))
	}

	last := markup.InlineKeyboard[4]
	sep, equals := last[2], last[3]
	if sep.Text != "," || sep.CallbackData == nil || *sep.CallbackData != calculator.KeyDecimal {
		t.Fatalf("decimal button: %+v", sep)
	}
	if equals.Text != "=" || equals.CallbackData == nil || *equals.CallbackData != calculator.KeyEquals {
		t.Fatalf("equals button: %+v", equals)
	}

	done := keyboard(locale.Default, calculator.AwaitingOperator).InlineKeyboard[4][3]
	if done.Text != "Done" {
		t.Fatalf("equals button without operator: %q", done.Text)
	}
}

func TestKeyboard_CallbackDataFits(t *testing.T) {
	t.Parallel()

	for _, row := range keyboard(locale.Default, calculator.AwaitingOperator).InlineKeyboard {
		for _, b := range row {
			if b.CallbackData == nil || len(*b.CallbackData) == 0 || len(*b.CallbackData) > 64 {
				t.Fatalf("callback data of %q must be 1-64 bytes", b.Text)
			}
		}
	}
}

func TestSessionKey(t *testing.T) {
	t.Parallel()

	if got := sessionKey(-100123, 42); got != "-100123_42" {
		t.Fatalf("unexpected key %q", got)
	}
}

func newTestSessions(t *testing.T) (*SessionCache, *time.Time) {
	t.Helper()

	sc := NewSessionCache(time.Minute, time.Hour)
	t.Cleanup(func() { sc.Close() })

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sc.now = func() time.Time { return now }
	return sc, &now
}

func TestPressKey_Edit(t *testing.T) {
	t.Parallel()

	sc, _ := newTestSessions(t)
	sc.Set("1_2", newTestSession())

	s, outcome, err := pressKey(sc, "1_2", "7")
	if err != nil || outcome != keyEdited {
		t.Fatalf("press 7: outcome %v err %v", outcome, err)
	}
	if s.display != "7" || sc.Get("1_2") != s {
		t.Fatalf("session after edit: display %q", s.display)
	}
}

func TestPressKey_RejectedRefreshesSession(t *testing.T) {
	t.Parallel()

	sc, now := newTestSessions(t)
	sc.Set("1_2", newTestSession())

	*now = now.Add(50 * time.Second)
	s, outcome, err := pressKey(sc, "1_2", calculator.KeyDecimal)
	if err != nil || outcome != keyRejected {
		t.Fatalf("separator on zero: outcome %v err %v", outcome, err)
	}
	if s.display != "0" {
		t.Fatalf("rejected edit changed display to %q", s.display)
	}

	*now = now.Add(50 * time.Second)
	if sc.Get("1_2") != s {
		t.Fatal("rejected edit must refresh the session TTL")
	}
}

func TestPressKey_UnsupportedKey(t *testing.T) {
	t.Parallel()

	sc, _ := newTestSessions(t)
	sc.Set("1_2", newTestSession())

	_, outcome, err := pressKey(sc, "1_2", "%")
	if outcome != keyRejected || !errors.Is(err, calculator.ErrUnsupportedKey) {
		t.Fatalf("unsupported key: outcome %v err %v", outcome, err)
	}
}

func TestPressKey_DoneRemovesSession(t *testing.T) {
	t.Parallel()

	sc, _ := newTestSessions(t)
	sc.Set("1_2", newTestSession())

	for _, k := range []string{"1", "2", "+", "3", calculator.KeyEquals} {
		if _, outcome, err := pressKey(sc, "1_2", k); err != nil || outcome != keyEdited {
			t.Fatalf("press %q: outcome %v err %v", k, outcome, err)
		}
	}

	s, outcome, err := pressKey(sc, "1_2", calculator.KeyEquals)
	if err != nil || outcome != keyDone {
		t.Fatalf("done press: outcome %v err %v", outcome, err)
	}
	if s.calc.Amount() != "15" || !s.done {
		t.Fatalf("finished session: amount %s done %v", s.calc.Amount(), s.done)
	}
	if sc.Get("1_2") != nil || !sc.IsEmpty() {
		t.Fatal("finished session must be removed")
	}
}

func TestPressKey_Expired(t *testing.T) {
	t.Parallel()

	sc, now := newTestSessions(t)
	sc.Set("1_2", newTestSession())
	*now = now.Add(2 * time.Minute)

	s, outcome, err := pressKey(sc, "1_2", "7")
	if s != nil || outcome != keyExpired || !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expired session: %v outcome %v err %v", s, outcome, err)
	}

	if _, outcome, _ := pressKey(sc, "3_4", "7"); outcome != keyExpired {
		t.Fatalf("unknown session: outcome %v", outcome)
	}
}
