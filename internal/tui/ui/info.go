package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// InfoData is the header summary of the logged-in mandap.
type InfoData struct {
	Profile     string
	Mandap      string
	User        string
	Role        string
	Channel     string
	Collections int64
}

// Info displays InfoData in the header.
type Info struct {
	*tview.TextView
	theme *Theme
}

// NewInfo creates the header info panel.
func NewInfo(theme *Theme) *Info {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)
	return &Info{TextView: tv, theme: theme}
}

// Update renders d; nil shows a logged-out header.
func (i *Info) Update(d *InfoData) {
	i.Clear()
	label, value := Tag(i.theme.FgColor), Tag(i.theme.InfoValueColor)
	row := func(k, v string) {
		_, _ = fmt.Fprintf(i, "[%s::b]%-8s[-:-:-] [%s]%s[-]\n", label, k+":", value, tview.Escape(v))
	}
	if d == nil {
		row("Mandap", "-")
		row("User", "not logged in")
		return
	}
	row("Profile", d.Profile)
	row("Mandap", d.Mandap)
	row("User", fmt.Sprintf("%s (%s)", d.User, d.Role))
	row("Channel", d.Channel)
	row("Total", fmt.Sprintf("₹%d", d.Collections))
}
