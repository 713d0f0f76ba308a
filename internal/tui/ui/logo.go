package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// NewLogo creates the header logo.
func NewLogo(theme *Theme) *tview.TextView {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(1, 0, 1, 0)

	title := Tag(theme.TitleColor)
	_, _ = fmt.Fprintf(tv,
		"[%s::b]╔╦╗╔═╗╔╗╔╔╦╗╔═╗╔═╗[-:-:-]\n"+
			"[%s::b]║║║╠═╣║║║ ║║╠═╣╠═╝[-:-:-]\n"+
			"[%s::b]╩ ╩╩ ╩╝╚╝═╩╝╩ ╩╩[-:-:-]\n"+
			"[%s]offerings ledger[-]",
		title, title, title, Tag(theme.MutedColor),
	)
	return tv
}
