package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Menu lists the keyboard shortcuts of the visible page.
type Menu struct {
	*tview.TextView
	theme *Theme
}

// NewMenu creates a menu panel.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)
	return &Menu{TextView: tv, theme: theme}
}

// Update renders hints, one per line.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()
	key := Tag(m.theme.MenuKeyColor)
	for _, h := range hints {
		_, _ = fmt.Fprintf(m, "[%s::b]<%s>[-:-:-] %s\n", key, h.Key, h.Description)
	}
}
