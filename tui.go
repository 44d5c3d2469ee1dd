package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/turbekoff/amountpad/pkg/calculator"
)

// KeypadUI is the terminal host of a calculator: a display line over the
// keypad grid. Keys can be clicked or typed.
type KeypadUI struct {
	App *tview.Application

	calc    *calculator.Calculator
	display *tview.TextView
	status  *tview.TextView
	equals  *tview.Button
	done    bool
}

func NewKeypadUI(calc *calculator.Calculator) *KeypadUI {
	ui := &KeypadUI{
		App:  tview.NewApplication(),
		calc: calc,
		display: tview.NewTextView().
			SetTextAlign(tview.AlignRight).
			SetDynamicColors(false),
		status: tview.NewTextView().
			SetTextAlign(tview.AlignRight).
			SetTextColor(tcell.ColorGray),
	}
	ui.display.SetBorder(true).SetTitle(" amount ")

	calc.OnChange(func(display string) {
		ui.display.SetText(display)
		ui.refresh()
	})
	calc.OnDone(func() {
		ui.done = true
		ui.App.Stop()
	})

	grid := tview.NewGrid().
		SetRows(3, 1, 0, 0, 0, 0, 0).
		SetColumns(0, 0, 0, 0).
		AddItem(ui.display, 0, 0, 1, 4, 0, 0, false).
		AddItem(ui.status, 1, 0, 1, 4, 0, 0, false)

	for r, keys := range calculator.Layout(calc.Symbols(), calc.State()) {
		for col, k := range keys {
			data := k.Data
			button := tview.NewButton(k.Label).SetSelectedFunc(func() {
				ui.press(data)
			})
			if data == calculator.KeyEquals {
				ui.equals = button
			}

			span := 1
			if r == 0 && col == len(keys)-1 {
				span = 4 - col
			}
			grid.AddItem(button, r+2, col, 1, span, 0, 0, r == 4 && col == 0)
		}
	}

	ui.App.SetRoot(grid, true).EnableMouse(true).SetInputCapture(ui.capture)
	ui.display.SetText(calc.Display())
	ui.refresh()
	return ui
}

func (ui *KeypadUI) press(key string) {
	_ = ui.calc.Press(key)
}

func (ui *KeypadUI) refresh() {
	state := ui.calc.State()
	if ui.equals != nil {
		ui.equals.SetLabel(state.Label())
	}

	status := ""
	if ui.calc.Evaluated() {
		status = "result"
	} else if state == calculator.HasOperator {
		if result, err := ui.calc.Result(); err == nil {
			status = "= " + result
		}
	}
	ui.status.SetText(status)
}

// capture maps the keyboard onto keypad keys.
func (ui *KeypadUI) capture(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		ui.press(calculator.KeyBackspace)
		return nil
	case tcell.KeyEnter:
		ui.press(calculator.KeyEquals)
		return nil
	case tcell.KeyEscape:
		ui.press(calculator.KeyClear)
		return nil
	case tcell.KeyRune:
	default:
		return event
	}

	switch r := event.Rune(); {
	case r == 'q':
		ui.App.Stop()
	case r == 'c' || r == 'C':
		ui.press(calculator.KeyClear)
	case r == '=':
		ui.press(calculator.KeyEquals)
	case r == '.' || r == ',':
		if r == '.' || r == ui.calc.Symbols().Decimal {
			ui.press(calculator.KeyDecimal)
		}
	default:
		ui.press(string(r))
	}
	return nil
}

// Run shows the keypad until Done or q. It reports whether the entry was
// completed with Done.
func (ui *KeypadUI) Run() (bool, error) {
	if err := ui.App.Run(); err != nil {
		return false, err
	}
	return ui.done, nil
}
