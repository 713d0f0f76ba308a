package views

import (
	"github.com/rivo/tview"

	"github.com/matheus3301/mandap/internal/tui/ui"
)

// Confirm asks a yes/no question before a destructive action.
type Confirm struct {
	*tview.Modal
	onYes func()
	onNo  func()
}

// NewConfirm creates the confirmation dialog.
func NewConfirm(theme *ui.Theme) *Confirm {
	c := &Confirm{Modal: tview.NewModal()}
	c.SetBackgroundColor(theme.BgColor)
	c.SetTextColor(theme.FgColor)
	c.SetButtonBackgroundColor(theme.BorderColor)
	c.AddButtons([]string{"Yes", "No"})
	c.SetDoneFunc(func(index int, _ string) {
		if index == 0 && c.onYes != nil {
			c.onYes()
			return
		}
		if c.onNo != nil {
			c.onNo()
		}
	})
	return c
}

// Name implements ui.Component.
func (c *Confirm) Name() string { return "Confirm" }

// Hints implements ui.Component.
func (c *Confirm) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Choose"},
		{Key: "Esc", Description: "Back"},
	}
}

// Ask shows question; yes runs on confirmation and no otherwise.
func (c *Confirm) Ask(question string, yes, no func()) {
	c.SetText(question)
	c.SetFocus(1)
	c.onYes, c.onNo = yes, no
}
