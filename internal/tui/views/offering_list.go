package views

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rivo/tview"

	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tui/model"
	"github.com/matheus3301/mandap/internal/tui/ui"
)

var offeringColumns = []column{
	{title: "NAME", expand: 2},
	{title: "GOTHRAM", expand: 1},
	{title: "PHONE"},
	{title: "RUPEES", align: tview.AlignRight},
	{title: "DATE", align: tview.AlignRight},
}

// OfferingList is the newest-first table of offerings with name search.
type OfferingList struct {
	*tview.Table
	theme  *ui.Theme
	items  []store.Contribution
	done   bool
	nearFn func()
}

// NewOfferingList creates the offerings table.
func NewOfferingList(theme *ui.Theme) *OfferingList {
	ol := &OfferingList{Table: newTable(theme, " Offerings "), theme: theme}
	ol.SetSelectionChangedFunc(func(row, _ int) {
		if !ol.done && ol.nearFn != nil && row >= len(ol.items)-1 {
			ol.nearFn()
		}
	})
	ol.Update(model.Snapshot[store.Contribution]{})
	return ol
}

// Name implements ui.Component.
func (ol *OfferingList) Name() string { return "Offerings" }

// Hints implements ui.Component.
func (ol *OfferingList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Receipt"},
		{Key: "/", Description: "Search"},
		{Key: "a", Description: "New offering"},
		{Key: "e", Description: "Events"},
		{Key: "r", Description: "Refresh"},
	}
}

// SetOnNearEnd sets the callback fired when the cursor reaches the last
// loaded row.
func (ol *OfferingList) SetOnNearEnd(fn func()) { ol.nearFn = fn }

// Update renders a listing snapshot.
func (ol *OfferingList) Update(s model.Snapshot[store.Contribution]) {
	ol.items, ol.done = s.Items, s.Done
	row, _ := ol.GetSelection()
	ol.Clear()
	setHeader(ol.Table, ol.theme, offeringColumns)

	for i, c := range s.Items {
		r := i + 1
		ol.SetCell(r, 0, cell(c.Name, ol.theme.FgColor, offeringColumns[0]))
		ol.SetCell(r, 1, cell(c.Gothram, ol.theme.FgColor, offeringColumns[1]))
		ol.SetCell(r, 2, cell(c.Phone, ol.theme.FgColor, offeringColumns[2]))
		ol.SetCell(r, 3, cell("₹"+strconv.FormatInt(c.Rupees, 10), ol.theme.AmountColor, offeringColumns[3]))
		ol.SetCell(r, 4, cell(formatCreated(c.CreatedAt), ol.theme.MutedColor, offeringColumns[4]))
	}
	footer(ol.Table, ol.theme, len(s.Items)+1, s.Done, "no offerings yet")

	if s.Query != "" {
		ol.SetTitle(fmt.Sprintf(" Offerings (%d) name: %s ", len(s.Items), tview.Escape(s.Query)))
	} else {
		ol.SetTitle(fmt.Sprintf(" Offerings (%d) ", len(s.Items)))
	}
	if row < 1 || row > len(s.Items) {
		row = 1
	}
	ol.Select(row, 0)
}

// Selected returns the offering under the cursor.
func (ol *OfferingList) Selected() (store.Contribution, bool) {
	row, _ := ol.GetSelection()
	if row < 1 || row > len(ol.items) {
		return store.Contribution{}, false
	}
	return ol.items[row-1], true
}

func formatCreated(ms int64) string {
	if ms == 0 {
		return ""
	}
	t := time.UnixMilli(ms)
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("02 Jan")
}
