package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/matheus3301/mandap/internal/tui/ui"
)

// HelpView is the key binding reference.
type HelpView struct {
	*tview.TextView
}

// NewHelpView creates the help page.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	k := ui.Tag(theme.MenuKeyColor)
	section := func(title string) { _, _ = fmt.Fprintf(tv, "\n  [::b]%s[-:-:-]\n\n", title) }
	key := func(keys, what string) { _, _ = fmt.Fprintf(tv, "  [%s]%-16s[-] %s\n", k, keys, what) }

	section("Everywhere")
	key(":", "Command mode")
	key("?", "This help")
	key("Esc", "Back")
	key("Ctrl-C", "Quit")

	section("Offerings")
	key("/", "Search by devotee name (as you type)")
	key("Enter", "Show receipt")
	key("a", "Record an offering")
	key("e", "Switch to events")
	key("r", "Reload from the newest")

	section("Events")
	key("Enter", "Notify every devotee of the event")
	key("a", "Schedule an event (admin)")
	key("d", "Delete the event (admin)")
	key("o", "Switch to offerings")

	section("Notify")
	key("s", "Send one message per devotee")
	key("g", "Send a single group message")
	key("c", "Cancel while sending")

	section("Commands")
	key(":offerings", "Offerings list")
	key(":events", "Events list")
	key(":search <name>", "Search offerings")
	key(":pair", "Link a WhatsApp device")
	key(":logout", "Log out")
	key(":quit, :q", "Quit")

	return &HelpView{TextView: tv}
}

// Name implements ui.Component.
func (hv *HelpView) Name() string { return "Help" }

// Hints implements ui.Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "Esc", Description: "Back"}}
}
