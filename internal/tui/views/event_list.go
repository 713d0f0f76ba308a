package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tui/model"
	"github.com/matheus3301/mandap/internal/tui/ui"
)

var eventColumns = []column{
	{title: "DATE"},
	{title: "TITLE", expand: 1},
	{title: "DESCRIPTION", expand: 2},
	{title: "", align: tview.AlignRight},
}

// EventList is the table of scheduled events.
type EventList struct {
	*tview.Table
	theme    *ui.Theme
	upcoming func(date string) bool
	items    []store.ScheduledEvent
	done     bool
	nearFn   func()
}

// NewEventList creates the events table. upcoming decides which events are
// marked as still to come.
func NewEventList(theme *ui.Theme, upcoming func(date string) bool) *EventList {
	el := &EventList{Table: newTable(theme, " Events "), theme: theme, upcoming: upcoming}
	el.SetSelectionChangedFunc(func(row, _ int) {
		if !el.done && el.nearFn != nil && row >= len(el.items)-1 {
			el.nearFn()
		}
	})
	el.Update(model.Snapshot[store.ScheduledEvent]{})
	return el
}

// Name implements ui.Component.
func (el *EventList) Name() string { return "Events" }

// Hints implements ui.Component.
func (el *EventList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Notify devotees"},
		{Key: "a", Description: "New event"},
		{Key: "d", Description: "Delete event"},
		{Key: "o", Description: "Offerings"},
		{Key: "r", Description: "Refresh"},
	}
}

// SetOnNearEnd sets the callback fired when the cursor reaches the last
// loaded row.
func (el *EventList) SetOnNearEnd(fn func()) { el.nearFn = fn }

// Update renders a listing snapshot.
func (el *EventList) Update(s model.Snapshot[store.ScheduledEvent]) {
	el.items, el.done = s.Items, s.Done
	row, _ := el.GetSelection()
	el.Clear()
	setHeader(el.Table, el.theme, eventColumns)

	for i, e := range s.Items {
		r := i + 1
		color, mark := el.theme.MutedColor, "past"
		if el.upcoming(e.Date) {
			color, mark = el.theme.FgColor, "upcoming"
		}
		el.SetCell(r, 0, cell(e.Date, color, eventColumns[0]))
		el.SetCell(r, 1, cell(e.Title, color, eventColumns[1]))
		el.SetCell(r, 2, cell(e.Description, color, eventColumns[2]))
		el.SetCell(r, 3, cell(mark, el.theme.MutedColor, eventColumns[3]))
	}
	footer(el.Table, el.theme, len(s.Items)+1, s.Done, "no events scheduled")

	el.SetTitle(fmt.Sprintf(" Events (%d) ", len(s.Items)))
	if row < 1 || row > len(s.Items) {
		row = 1
	}
	el.Select(row, 0)
}

// Selected returns the event under the cursor.
func (el *EventList) Selected() (store.ScheduledEvent, bool) {
	row, _ := el.GetSelection()
	if row < 1 || row > len(el.items) {
		return store.ScheduledEvent{}, false
	}
	return el.items[row-1], true
}
