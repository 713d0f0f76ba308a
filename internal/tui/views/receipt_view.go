package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/matheus3301/mandap/internal/ledger"
	"github.com/matheus3301/mandap/internal/tui/ui"
)

// ReceiptView shows the receipt of one offering.
type ReceiptView struct {
	*tview.TextView
	theme   *ui.Theme
	receipt *ledger.Receipt
}

// NewReceiptView creates the receipt page.
func NewReceiptView(theme *ui.Theme) *ReceiptView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitleColor(theme.TitleColor)
	return &ReceiptView{TextView: tv, theme: theme}
}

// Name implements ui.Component.
func (rv *ReceiptView) Name() string { return "Receipt" }

// Hints implements ui.Component.
func (rv *ReceiptView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "w", Description: "Send by chat"},
		{Key: "m", Description: "Send by SMS"},
		{Key: "Esc", Description: "Back"},
	}
}

// Show renders r.
func (rv *ReceiptView) Show(r *ledger.Receipt) {
	rv.receipt = r
	rv.Clear()
	rv.SetTitle(fmt.Sprintf(" Receipt %s ", r.Number))

	label, value := ui.Tag(rv.theme.FgColor), ui.Tag(rv.theme.InfoValueColor)
	line := func(k, v string) {
		_, _ = fmt.Fprintf(rv, " [%s::b]%-9s[-:-:-] [%s]%s[-]\n", label, k, value, tview.Escape(sanitizeForTerminal(v)))
	}
	_, _ = fmt.Fprintf(rv, "\n [%s::b]%s[-:-:-]\n\n", ui.Tag(rv.theme.TitleColor), tview.Escape(r.MandapName))
	line("Receipt", r.Number)
	line("Devotee", r.Offering.Name)
	line("Gothram", r.Offering.Gothram)
	line("Phone", r.Offering.Phone)
	line("Address", r.Offering.Address)
	line("Amount", fmt.Sprintf("₹%d", r.Offering.Rupees))
	line("Date", formatCreated(r.Offering.CreatedAt))
	_, _ = fmt.Fprintf(rv, "\n %s\n", tview.Escape(r.Message))
}

// Receipt returns the displayed receipt.
func (rv *ReceiptView) Receipt() *ledger.Receipt { return rv.receipt }
