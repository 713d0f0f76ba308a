package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/matheus3301/mandap/internal/notify"
	"github.com/matheus3301/mandap/internal/status"
	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tui/ui"
)

const progressWidth = 30

// NotifyView previews an event notification and follows its dispatch.
type NotifyView struct {
	*tview.Flex
	theme    *ui.Theme
	preview  *tview.TextView
	progress *tview.TextView

	event    store.ScheduledEvent
	kind     string
	total    int
	done     int
	state    status.State
	problem  string
	scanning bool
}

// NewNotifyView creates the notify page.
func NewNotifyView(theme *ui.Theme) *NotifyView {
	preview := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	preview.SetBorder(true)
	preview.SetBorderColor(theme.BorderColor)
	preview.SetBackgroundColor(theme.BgColor)
	preview.SetTextColor(theme.FgColor)
	preview.SetTitle(" Message ")
	preview.SetTitleColor(theme.TitleColor)

	progress := tview.NewTextView().SetDynamicColors(true)
	progress.SetBorder(true)
	progress.SetBorderColor(theme.BorderColor)
	progress.SetBackgroundColor(theme.BgColor)
	progress.SetTextColor(theme.FgColor)
	progress.SetTitle(" Dispatch ")
	progress.SetTitleColor(theme.TitleColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(preview, 0, 1, true).
		AddItem(progress, 5, 0, false)

	return &NotifyView{Flex: flex, theme: theme, preview: preview, progress: progress}
}

// Name implements ui.Component.
func (nv *NotifyView) Name() string { return "Notify" }

// Hints implements ui.Component.
func (nv *NotifyView) Hints() []ui.MenuHint {
	switch nv.state {
	case status.Ready:
		return []ui.MenuHint{
			{Key: "s", Description: "Send one by one"},
			{Key: "g", Description: "Send as group"},
			{Key: "Esc", Description: "Back"},
		}
	case status.Dispatching:
		return []ui.MenuHint{{Key: "c", Description: "Cancel"}}
	}
	return []ui.MenuHint{{Key: "Esc", Description: "Back"}}
}

// Scanning shows that recipients of event are being collected.
func (nv *NotifyView) Scanning(event store.ScheduledEvent) {
	*nv = NotifyView{Flex: nv.Flex, theme: nv.theme, preview: nv.preview, progress: nv.progress}
	nv.event = event
	nv.state = status.Collecting
	nv.scanning = true
	nv.preview.SetText(fmt.Sprintf("\n Collecting devotees to notify of %s...", tview.Escape(event.Title)))
	nv.renderProgress()
}

// Prepared shows a job ready to dispatch over kind. scanErr is the partial
// collection failure, if any.
func (nv *NotifyView) Prepared(job *notify.Job, kind string, scanErr error) {
	nv.scanning = false
	nv.kind = kind
	nv.total = job.Total()
	nv.state = job.State()
	nv.problem = ""
	if scanErr != nil {
		nv.problem = scanErr.Error()
	}

	nv.preview.Clear()
	muted := ui.Tag(nv.theme.MutedColor)
	_, _ = fmt.Fprintf(nv.preview, "[%s]To %d devotee(s) by %s[-]\n\n%s",
		muted, nv.total, kind, tview.Escape(job.Text()))
	nv.renderProgress()
}

// SetProgress records that p.Processed of p.Total recipients are done.
func (nv *NotifyView) SetProgress(p notify.Progress) {
	nv.scanning = false
	nv.done, nv.total = p.Processed, p.Total
	nv.renderProgress()
}

// SetState records the job's lifecycle state.
func (nv *NotifyView) SetState(s status.State) {
	nv.scanning = false
	nv.state = s
	nv.renderProgress()
}

// Fail shows err as the outcome.
func (nv *NotifyView) Fail(err error) {
	nv.scanning = false
	nv.state = status.Failed
	nv.problem = err.Error()
	nv.renderProgress()
}

// State returns the displayed job state.
func (nv *NotifyView) State() status.State { return nv.state }

func (nv *NotifyView) renderProgress() {
	nv.progress.Clear()
	if nv.scanning {
		_, _ = fmt.Fprint(nv.progress, " scanning offerings...")
		return
	}
	filled := 0
	if nv.total > 0 {
		filled = nv.done * progressWidth / nv.total
	}
	bar := fmt.Sprintf("[%s]%s[-]%s", ui.Tag(nv.theme.ProgressColor),
		strings.Repeat("█", filled), strings.Repeat("░", progressWidth-filled))
	_, _ = fmt.Fprintf(nv.progress, " %s %d/%d  %s\n", bar, nv.done, nv.total, stateLabel(nv.state))
	if nv.problem != "" {
		_, _ = fmt.Fprintf(nv.progress, " [%s]%s[-]", ui.Tag(nv.theme.FlashErrColor), tview.Escape(nv.problem))
	}
}

func stateLabel(s status.State) string {
	switch s {
	case status.Collecting:
		return "collecting"
	case status.Ready:
		return "ready"
	case status.Dispatching:
		return "sending..."
	case status.Completed:
		return "completed"
	case status.Cancelled:
		return "cancelled"
	case status.Failed:
		return "failed"
	}
	return ""
}
