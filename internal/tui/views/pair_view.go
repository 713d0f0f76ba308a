package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/matheus3301/mandap/internal/tui/ui"
)

// PairView shows the WhatsApp pairing QR code.
type PairView struct {
	*tview.TextView
}

// NewPairView creates the pairing page.
func NewPairView(theme *ui.Theme) *PairView {
	tv := tview.NewTextView().
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Link WhatsApp ")
	tv.SetTitleColor(theme.TitleColor)
	return &PairView{TextView: tv}
}

// Name implements ui.Component.
func (pv *PairView) Name() string { return "Pair" }

// Hints implements ui.Component.
func (pv *PairView) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "Esc", Description: "Back"}}
}

// ShowCode replaces the view with a rendered QR block.
func (pv *PairView) ShowCode(block string) {
	pv.SetText(block + "\nWaiting for the phone to scan...")
}

// ShowMessage displays a status line.
func (pv *PairView) ShowMessage(msg string) {
	pv.SetText(fmt.Sprintf("\n\n%s", msg))
}
