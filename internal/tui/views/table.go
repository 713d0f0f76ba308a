package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/mandap/internal/tui/ui"
)

type column struct {
	title  string
	expand int
	align  int
}

func newTable(theme *ui.Theme, title string) *tview.Table {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(title)
	table.SetTitleColor(theme.TitleColor)
	return table
}

func setHeader(table *tview.Table, theme *ui.Theme, cols []column) {
	for i, c := range cols {
		table.SetCell(0, i, tview.NewTableCell(" "+c.title).
			SetSelectable(false).
			SetTextColor(theme.TableHeaderFg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(c.expand).
			SetAlign(c.align))
	}
}

func cell(text string, color tcell.Color, c column) *tview.TableCell {
	return tview.NewTableCell(" " + tview.Escape(sanitizeForTerminal(text))).
		SetTextColor(color).
		SetExpansion(c.expand).
		SetAlign(c.align)
}

// footer writes the trailing status row of a paginated table.
func footer(table *tview.Table, theme *ui.Theme, row int, done bool, empty string) {
	text := "more below, scroll to load"
	switch {
	case done && row == 1:
		text = empty
	case done:
		text = "end of list"
	}
	table.SetCell(row, 0, tview.NewTableCell(" "+text).
		SetSelectable(false).
		SetTextColor(theme.MutedColor))
}
