package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/matheus3301/mandap/internal/app"
	"github.com/matheus3301/mandap/internal/channel"
	"github.com/matheus3301/mandap/internal/ledger"
	"github.com/matheus3301/mandap/internal/notify"
	"github.com/matheus3301/mandap/internal/status"
	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tenant"
	"github.com/matheus3301/mandap/internal/tui/keys"
	"github.com/matheus3301/mandap/internal/tui/model"
	"github.com/matheus3301/mandap/internal/tui/ui"
	"github.com/matheus3301/mandap/internal/tui/views"
)

const promptHeight = 3

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	theme    *ui.Theme
	root     *tview.Flex
	pages    *ui.Pages
	info     *ui.Info
	menu     *ui.Menu
	crumbs   *ui.Crumbs
	flash    *ui.Flash
	flashBar *ui.FlashBar
	prompt   *ui.Prompt
	registry *keys.Registry

	ws       *app.Workspace
	ledger   *ledger.Ledger
	accounts *ledger.Accounts
	logger   *zap.Logger
	tenant   tenant.Context

	login        *views.LoginForm
	offerings    *views.OfferingList
	events       *views.EventList
	notifyView   *views.NotifyView
	receipt      *views.ReceiptView
	offeringForm *views.OfferingForm
	eventForm    *views.EventForm
	confirm      *views.Confirm
	help         *views.HelpView
	pair         *views.PairView

	offeringList *model.Listing[store.Contribution]
	eventList    *model.Listing[store.ScheduledEvent]
	notify       *model.NotifySession

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI over ws.
func NewApp(ws *app.Workspace, led *ledger.Ledger, acc *ledger.Accounts, logger *zap.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:      tview.NewApplication(),
		theme:    theme,
		pages:    ui.NewPages(),
		info:     ui.NewInfo(theme),
		menu:     ui.NewMenu(theme),
		crumbs:   ui.NewCrumbs(theme),
		flash:    ui.NewFlash(),
		flashBar: ui.NewFlashBar(theme),
		prompt:   ui.NewPrompt(theme),
		registry: keys.NewRegistry(),

		ws:       ws,
		ledger:   led,
		accounts: acc,
		logger:   logger.Named("tui"),

		login:        views.NewLoginForm(theme),
		offerings:    views.NewOfferingList(theme),
		events:       views.NewEventList(theme, led.Upcoming),
		notifyView:   views.NewNotifyView(theme),
		receipt:      views.NewReceiptView(theme),
		offeringForm: views.NewOfferingForm(theme),
		eventForm:    views.NewEventForm(theme),
		confirm:      views.NewConfirm(theme),
		help:         views.NewHelpView(theme),
		pair:         views.NewPairView(theme),

		ctx:    ctx,
		cancel: cancel,
	}

	a.notify = model.NewNotifySession(ctx, func(fn func()) { a.app.QueueUpdateDraw(fn) })

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: ':', Label: ":", Description: "Command",
		Handler: func() { a.showPrompt(ui.PromptCommand, "") },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: '?', Label: "?", Description: "Help",
		Handler: func() {
			if a.pages.Top() != a.help {
				a.pages.Push(a.help)
			}
		},
	})

	offerings := a.offerings.Name()
	a.registry.AddView(offerings, &keys.Action{
		Key: tcell.KeyRune, Rune: '/', Label: "/", Description: "Search",
		Handler: func() { a.showPrompt(ui.PromptSearch, a.offeringList.Query()) },
	})
	a.registry.AddView(offerings, &keys.Action{
		Key: tcell.KeyRune, Rune: 'a', Label: "a", Description: "New offering",
		Handler: func() {
			a.offeringForm.Reset()
			a.pages.Push(a.offeringForm)
		},
	})
	a.registry.AddView(offerings, &keys.Action{
		Key: tcell.KeyRune, Rune: 'e', Label: "e", Description: "Events",
		Handler: func() { a.pages.Reset(a.events) },
	})
	a.registry.AddView(offerings, &keys.Action{
		Key: tcell.KeyRune, Rune: 'r', Label: "r", Description: "Refresh",
		Handler: func() { a.offeringList.Refresh() },
	})

	events := a.events.Name()
	a.registry.AddView(events, &keys.Action{
		Key: tcell.KeyRune, Rune: 'a', Label: "a", Description: "New event",
		Handler: func() {
			if !a.tenant.IsAdmin() {
				a.notice(ledger.ErrForbidden)
				return
			}
			a.eventForm.Reset()
			a.pages.Push(a.eventForm)
		},
	})
	a.registry.AddView(events, &keys.Action{
		Key: tcell.KeyRune, Rune: 'd', Label: "d", Description: "Delete event",
		Handler: a.deleteEvent,
	})
	a.registry.AddView(events, &keys.Action{
		Key: tcell.KeyRune, Rune: 'o', Label: "o", Description: "Offerings",
		Handler: func() { a.pages.Reset(a.offerings) },
	})
	a.registry.AddView(events, &keys.Action{
		Key: tcell.KeyRune, Rune: 'r', Label: "r", Description: "Refresh",
		Handler: func() { a.eventList.Refresh() },
	})

	notifyName := a.notifyView.Name()
	a.registry.AddView(notifyName, &keys.Action{
		Key: tcell.KeyRune, Rune: 's', Label: "s", Description: "Send one by one",
		Handler: func() { a.dispatch(false) },
	})
	a.registry.AddView(notifyName, &keys.Action{
		Key: tcell.KeyRune, Rune: 'g', Label: "g", Description: "Send as group",
		Handler: func() { a.dispatch(true) },
	})
	a.registry.AddView(notifyName, &keys.Action{
		Key: tcell.KeyRune, Rune: 'c', Label: "c", Description: "Cancel",
		Handler: func() {
			if job := a.notify.Job(); job != nil && job.State() == status.Dispatching {
				job.Cancel()
			}
		},
	})

	receipt := a.receipt.Name()
	a.registry.AddView(receipt, &keys.Action{
		Key: tcell.KeyRune, Rune: 'w', Label: "w", Description: "Send by chat",
		Handler: func() { a.sendReceipt(channel.Chat) },
	})
	a.registry.AddView(receipt, &keys.Action{
		Key: tcell.KeyRune, Rune: 'm', Label: "m", Description: "Send by SMS",
		Handler: func() { a.sendReceipt(channel.SMS) },
	})
}

func (a *App) setupCallbacks() {
	a.pages.SetOnChange(func(top ui.Component, stack []ui.Component) {
		a.crumbs.Update(stack)
		a.menu.Update(top.Hints())
		a.app.SetFocus(top)
		if !a.pages.Contains(a.notifyView) && a.notify.Close() {
			a.flash.Warn("Notification cancelled")
			a.flashBar.Update(a.flash.Current())
		}
	})

	a.prompt.SetOnChange(func(mode ui.PromptMode, text string) {
		if mode == ui.PromptSearch && a.offeringList != nil {
			a.offeringList.Search(text)
		}
	})
	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		if mode == ui.PromptCommand {
			a.runCommand(ParseCommand(text))
		}
	})
	a.prompt.SetOnCancel(func(mode ui.PromptMode) {
		a.hidePrompt()
		if mode == ui.PromptSearch && a.offeringList != nil {
			a.offeringList.Search("")
		}
	})

	a.login.SetOnSubmit(func(username, password string) {
		t, err := a.accounts.Login(username, password)
		if err != nil {
			a.login.ShowError(err)
			return
		}
		if err := a.ws.SignIn(t); err != nil {
			a.login.ShowError(err)
			return
		}
		a.login.Reset()
		a.enter(t)
	})

	a.offerings.SetOnNearEnd(func() {
		if a.offeringList != nil {
			a.offeringList.LoadMore()
		}
	})
	a.offerings.SetSelectedFunc(func(_, _ int) {
		if c, ok := a.offerings.Selected(); ok {
			a.showReceipt(c.ID)
		}
	})

	a.events.SetOnNearEnd(func() {
		if a.eventList != nil {
			a.eventList.LoadMore()
		}
	})
	a.events.SetSelectedFunc(func(_, _ int) {
		if e, ok := a.events.Selected(); ok {
			a.openNotify(e)
		}
	})

	a.offeringForm.SetOnSubmit(func(f ledger.OfferingForm) {
		c, err := a.ledger.RecordOffering(a.tenant, f)
		if err != nil {
			a.offeringForm.ShowError(err)
			return
		}
		a.offeringForm.Reset()
		a.pages.Pop()
		a.flash.Info(fmt.Sprintf("Recorded ₹%d from %s", c.Rupees, c.Name))
		a.offeringList.Refresh()
		a.refreshInfo()
		a.showReceipt(c.ID)
	})

	a.eventForm.SetOnSubmit(func(f ledger.EventForm) {
		e, err := a.ledger.AddEvent(a.tenant, f)
		if err != nil {
			a.eventForm.ShowError(err)
			return
		}
		a.eventForm.Reset()
		a.pages.Pop()
		a.flash.Info("Scheduled " + e.Title)
		a.eventList.Refresh()
	})
}

func (a *App) setupLayout() {
	header := tview.NewFlex().
		AddItem(a.info, 0, 1, false).
		AddItem(a.menu, 0, 2, false).
		AddItem(ui.NewLogo(a.theme), 22, 0, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 6, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)
	a.root.SetBackgroundColor(a.theme.BgColor)

	a.app.SetRoot(a.root, true)
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		focused := a.app.GetFocus()
		if focused == tview.Primitive(a.prompt) {
			return event
		}

		if event.Key() == tcell.KeyEscape {
			if a.pages.Pop() {
				return nil
			}
			return event
		}

		// Let form fields handle all keys normally.
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}

		top := a.pages.Top()
		if top == nil || top == a.confirm {
			return event
		}
		if a.registry.HandleEvent(top.Name(), event) {
			return nil
		}
		return event
	})
}

func (a *App) showPrompt(mode ui.PromptMode, text string) {
	a.prompt.Activate(mode, text)
	a.root.ResizeItem(a.prompt, promptHeight, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	if top := a.pages.Top(); top != nil {
		a.app.SetFocus(top)
	}
}

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case "":
		return
	case "quit", "q":
		a.app.Stop()
		return
	case "help", "h":
		a.pages.Push(a.help)
		return
	case "pair":
		a.showPair()
		return
	}

	if !a.tenant.Valid() {
		a.notice(tenant.ErrNoTenant)
		return
	}
	switch cmd.Name {
	case "offerings", "o":
		a.pages.Reset(a.offerings)
	case "events", "e":
		a.pages.Reset(a.events)
	case "search", "s":
		a.pages.Reset(a.offerings)
		a.offeringList.Search(cmd.Args)
	case "logout":
		a.logout()
	default:
		a.flash.Warn("Unknown command: " + cmd.Name)
		a.flashBar.Update(a.flash.Current())
	}
}

// enter shows the offerings of t's mandap.
func (a *App) enter(t tenant.Context) {
	a.stopListings()
	a.tenant = t
	delay := a.ws.Config().Search.Debounce.Duration

	a.offeringList = model.NewListing(a.ctx, a.ws.Offerings(t), delay)
	a.offeringList.SetOnChange(func(s model.Snapshot[store.Contribution]) {
		a.app.QueueUpdateDraw(func() { a.offerings.Update(s) })
	})
	a.offeringList.SetOnError(a.queueNotice)

	a.eventList = model.NewListing(a.ctx, a.ws.Events(t), delay)
	a.eventList.SetOnChange(func(s model.Snapshot[store.ScheduledEvent]) {
		a.app.QueueUpdateDraw(func() { a.events.Update(s) })
	})
	a.eventList.SetOnError(a.queueNotice)

	a.pages.Reset(a.offerings)
	a.offeringList.Refresh()
	a.eventList.Refresh()
	a.refreshInfo()
	a.logger.Info("session opened", zap.String("mandap", t.MandapID()), zap.String("user", t.Username()))
}

func (a *App) logout() {
	if a.notify.Dispatching() {
		a.flash.Warn("Wait for the notification to finish or cancel it first")
		a.flashBar.Update(a.flash.Current())
		return
	}
	if err := a.ws.SignOut(); err != nil {
		a.notice(err)
		return
	}
	a.stopListings()
	a.tenant = tenant.Context{}
	a.info.Update(nil)
	a.pages.Reset(a.login)
	a.flash.Info("Logged out")
	a.flashBar.Update(a.flash.Current())
}

func (a *App) stopListings() {
	if a.offeringList != nil {
		a.offeringList.Stop()
	}
	if a.eventList != nil {
		a.eventList.Stop()
	}
}

func (a *App) refreshInfo() {
	t := a.tenant
	cfg := a.ws.Config()
	kind := a.ws.Messenger().Kind
	go func() {
		total, err := a.ledger.TotalCollections(t)
		if err != nil {
			a.queueNotice(err)
		}
		a.app.QueueUpdateDraw(func() {
			a.info.Update(&ui.InfoData{
				Profile:     a.ws.Profile(),
				Mandap:      t.DisplayName(),
				User:        t.Username(),
				Role:        string(t.Role()),
				Channel:     fmt.Sprintf("%s (%s)", cfg.Notify.Channel, kind),
				Collections: total,
			})
		})
	}()
}

func (a *App) showReceipt(id string) {
	r, err := a.ledger.Receipt(a.tenant, id)
	if err != nil {
		a.notice(err)
		return
	}
	a.receipt.Show(r)
	a.pages.Push(a.receipt)
}

func (a *App) sendReceipt(kind channel.Kind) {
	r := a.receipt.Receipt()
	if r == nil {
		return
	}
	addr := r.Offering.Phone
	if kind == channel.Chat {
		addr = notify.Address(a.ws.Config().CountryCode, addr)
	}
	go a.ws.Messenger().Open(a.ctx, kind, addr, r.Message)
	a.flash.Info(fmt.Sprintf("Receipt %s sent to %s", r.Number, r.Offering.Name))
	a.flashBar.Update(a.flash.Current())
}

func (a *App) deleteEvent() {
	e, ok := a.events.Selected()
	if !ok {
		return
	}
	if !a.tenant.IsAdmin() {
		a.notice(ledger.ErrForbidden)
		return
	}
	a.confirm.Ask(fmt.Sprintf("Delete %s on %s?", e.Title, e.Date), func() {
		a.pages.Pop()
		if err := a.ledger.DeleteEvent(a.tenant, e.ID); err != nil {
			a.notice(err)
			return
		}
		a.flash.Info("Deleted " + e.Title)
		a.flashBar.Update(a.flash.Current())
		a.eventList.Refresh()
	}, func() { a.pages.Pop() })
	a.pages.Push(a.confirm)
}

// openNotify collects the recipients of e and shows the prepared job.
// Leaving the page cancels the scan and any dispatch it started.
func (a *App) openNotify(e store.ScheduledEvent) {
	a.notifyView.Scanning(e)
	a.pages.Push(a.notifyView)

	d := a.ws.Dispatcher(a.tenant)
	kind := a.ws.Messenger().Kind
	a.notify.Open(func(ctx context.Context) (*notify.Job, error) {
		return d.Prepare(ctx, e)
	}, func(job *notify.Job, err error) {
		if job == nil {
			a.notifyView.Fail(err)
		} else {
			a.notifyView.Prepared(job, string(kind), err)
			if err != nil {
				a.flash.Warn(fmt.Sprintf("Only %d devotee(s) could be collected", job.Total()))
				a.flashBar.Update(a.flash.Current())
			}
		}
		a.updateNotifyMenu()
	})
}

func (a *App) dispatch(group bool) {
	job := a.notify.Job()
	if job == nil || job.State() != status.Ready {
		return
	}
	kind := a.ws.Messenger().Kind
	a.notifyView.SetState(status.Dispatching)
	a.updateNotifyMenu()

	a.notify.Go(func(ctx context.Context, apply func(func())) {
		var err error
		if group {
			err = job.DispatchAsGroup(ctx, kind)
		} else {
			err = job.DispatchIndividually(ctx, kind, func(p notify.Progress) {
				apply(func() { a.notifyView.SetProgress(p) })
			})
		}
		apply(func() {
			a.notifyView.SetProgress(notify.Progress{Processed: job.Processed(), Total: job.Total()})
			a.notifyView.SetState(job.State())
			switch {
			case errors.Is(err, notify.ErrDispatchCancelled):
				a.flash.Warn(fmt.Sprintf("Cancelled after %d of %d", job.Processed(), job.Total()))
			case err != nil:
				a.notifyView.Fail(err)
				a.flash.Err(err)
			default:
				a.flash.Info(fmt.Sprintf("Notified %d devotee(s) of %s", job.Total(), job.Event().Title))
			}
			a.flashBar.Update(a.flash.Current())
			a.updateNotifyMenu()
		})
	})
}

func (a *App) updateNotifyMenu() {
	if a.pages.Top() == a.notifyView {
		a.menu.Update(a.notifyView.Hints())
	}
}

func (a *App) showPair() {
	wa := a.ws.Messenger().WhatsApp
	switch {
	case wa == nil:
		a.flash.Warn(`WhatsApp is off: set notify.channel = "whatsapp" in config.toml`)
		a.flashBar.Update(a.flash.Current())
		return
	case wa.IsLoggedIn():
		a.flash.Info("WhatsApp is already linked")
		a.flashBar.Update(a.flash.Current())
		return
	}

	a.pair.ShowMessage("Requesting a pairing code...")
	a.pages.Push(a.pair)
	go func() {
		err := wa.Pair(a.ctx, qrWriter{a})
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.pair.ShowMessage("Pairing failed: " + err.Error())
				return
			}
			a.pair.ShowMessage("WhatsApp linked.")
			a.flash.Info("WhatsApp linked")
			a.flashBar.Update(a.flash.Current())
		})
	}()
}

// qrWriter forwards each pairing code block to the pair view.
type qrWriter struct{ a *App }

func (w qrWriter) Write(p []byte) (int, error) {
	block := string(p)
	w.a.app.QueueUpdateDraw(func() { w.a.pair.ShowCode(block) })
	return len(p), nil
}

// notice shows err in the flash bar. Must run on the UI goroutine.
func (a *App) notice(err error) {
	a.flash.Err(err)
	a.flashBar.Update(a.flash.Current())
}

func (a *App) queueNotice(err error) {
	a.logger.Warn("background operation failed", zap.Error(err))
	a.app.QueueUpdateDraw(func() { a.notice(err) })
}

// Run starts the TUI application.
func (a *App) Run() error {
	t, err := a.ws.Tenant()
	switch {
	case err == nil:
		a.enter(t)
	case errors.Is(err, tenant.ErrNoTenant):
		a.info.Update(nil)
		a.pages.Reset(a.login)
	default:
		return err
	}

	a.startRefreshLoop()
	return a.app.Run()
}

func (a *App) startRefreshLoop() {
	ticker := time.NewTicker(time.Second)
	go func() {
		for {
			select {
			case <-ticker.C:
				a.app.QueueUpdateDraw(func() {
					a.flashBar.Update(a.flash.Current())
				})
			case <-a.ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.notify.Close()
	a.cancel()
	a.stopListings()
	a.app.Stop()
}
