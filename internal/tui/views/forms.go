package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rivo/tview"

	"github.com/matheus3301/mandap/internal/ledger"
	"github.com/matheus3301/mandap/internal/tui/ui"
)

// formPage is a tview form with a line of validation errors under it.
type formPage struct {
	*tview.Flex
	form   *tview.Form
	errors *tview.TextView
	theme  *ui.Theme
	name   string
}

func newFormPage(theme *ui.Theme, name, title string) *formPage {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)
	form.SetTitle(title)
	form.SetTitleColor(theme.TitleColor)
	form.SetFieldBackgroundColor(tview.Styles.MoreContrastBackgroundColor)
	form.SetLabelColor(theme.FgColor)
	form.SetButtonBackgroundColor(theme.BorderColor)

	errs := tview.NewTextView().SetDynamicColors(true)
	errs.SetBackgroundColor(theme.BgColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(errs, 3, 0, false)
	return &formPage{Flex: flex, form: form, errors: errs, theme: theme, name: name}
}

// Name implements ui.Component.
func (fp *formPage) Name() string { return fp.name }

// Hints implements ui.Component.
func (fp *formPage) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Back"},
	}
}

// ShowError shows err under the form; a validation error lists every
// rejected field. nil clears it.
func (fp *formPage) ShowError(err error) {
	fp.errors.Clear()
	if err != nil {
		_, _ = fmt.Fprintf(fp.errors, " [%s]%s[-]", ui.Tag(fp.theme.FlashErrColor), tview.Escape(err.Error()))
	}
}

func (fp *formPage) reset() {
	for i := range fp.form.GetFormItemCount() {
		if in, ok := fp.form.GetFormItem(i).(*tview.InputField); ok {
			in.SetText("")
		}
	}
	fp.form.SetFocus(0)
	fp.errors.Clear()
}

func (fp *formPage) text(label string) string {
	if in, ok := fp.form.GetFormItemByLabel(label).(*tview.InputField); ok {
		return in.GetText()
	}
	return ""
}

func digitsOnly(text string, last rune) bool {
	return last >= '0' && last <= '9'
}

// OfferingForm records a new offering.
type OfferingForm struct {
	*formPage
	onSubmit func(ledger.OfferingForm)
}

// NewOfferingForm creates the new-offering page.
func NewOfferingForm(theme *ui.Theme) *OfferingForm {
	f := &OfferingForm{formPage: newFormPage(theme, "New offering", " Record offering ")}
	f.form.
		AddInputField("Name", "", 30, nil, nil).
		AddInputField("Gothram", "", 30, nil, nil).
		AddInputField("Phone", "", 12, digitsOnly, nil).
		AddInputField("Address", "", 40, nil, nil).
		AddInputField("Rupees", "", 10, digitsOnly, nil).
		AddButton("Save", f.submit)
	return f
}

// SetOnSubmit sets the callback receiving the filled form.
func (f *OfferingForm) SetOnSubmit(fn func(ledger.OfferingForm)) { f.onSubmit = fn }

// Reset clears every field.
func (f *OfferingForm) Reset() { f.reset() }

func (f *OfferingForm) submit() {
	if f.onSubmit == nil {
		return
	}
	rupees, _ := strconv.ParseInt(f.text("Rupees"), 10, 64)
	f.onSubmit(ledger.OfferingForm{
		Name:    f.text("Name"),
		Gothram: f.text("Gothram"),
		Phone:   f.text("Phone"),
		Address: f.text("Address"),
		Rupees:  rupees,
	})
}

// EventForm schedules an event.
type EventForm struct {
	*formPage
	onSubmit func(ledger.EventForm)
}

// NewEventForm creates the new-event page.
func NewEventForm(theme *ui.Theme) *EventForm {
	f := &EventForm{formPage: newFormPage(theme, "New event", " Schedule event ")}
	f.form.
		AddInputField("Title", "", 30, nil, nil).
		AddInputField("Date", "", 12, nil, nil).
		AddInputField("Description", "", 50, nil, nil).
		AddButton("Save", f.submit)
	if in, ok := f.form.GetFormItemByLabel("Date").(*tview.InputField); ok {
		in.SetPlaceholder("YYYY-MM-DD")
	}
	return f
}

// SetOnSubmit sets the callback receiving the filled form.
func (f *EventForm) SetOnSubmit(fn func(ledger.EventForm)) { f.onSubmit = fn }

// Reset clears every field.
func (f *EventForm) Reset() { f.reset() }

func (f *EventForm) submit() {
	if f.onSubmit != nil {
		f.onSubmit(ledger.EventForm{
			Title:       f.text("Title"),
			Date:        f.text("Date"),
			Description: f.text("Description"),
		})
	}
}

// LoginForm asks for a username and password.
type LoginForm struct {
	*formPage
	onSubmit func(username, password string)
}

// NewLoginForm creates the login page.
func NewLoginForm(theme *ui.Theme) *LoginForm {
	f := &LoginForm{formPage: newFormPage(theme, "Login", " Log in ")}
	f.form.
		AddInputField("Username", "", 24, nil, nil).
		AddPasswordField("Password", "", 24, '*', nil).
		AddButton("Log in", f.submit)
	return f
}

// Hints implements ui.Component.
func (f *LoginForm) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Log in"},
		{Key: "Ctrl-C", Description: "Quit"},
	}
}

// SetOnSubmit sets the callback receiving the credentials.
func (f *LoginForm) SetOnSubmit(fn func(username, password string)) { f.onSubmit = fn }

// Reset clears every field.
func (f *LoginForm) Reset() { f.reset() }

func (f *LoginForm) submit() {
	if f.onSubmit != nil {
		f.onSubmit(strings.TrimSpace(f.text("Username")), f.text("Password"))
	}
}
