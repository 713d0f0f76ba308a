package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// PromptMode is what the prompt's text is used for.
type PromptMode int

const (
	// PromptCommand runs the text as a command on Enter.
	PromptCommand PromptMode = iota
	// PromptSearch reports every edit so the listing can search as the user types.
	PromptSearch
)

// Prompt is the command and search input bar.
type Prompt struct {
	*tview.InputField
	mode     PromptMode
	onChange func(mode PromptMode, text string)
	onSubmit func(mode PromptMode, text string)
	onCancel func(mode PromptMode)
}

// NewPrompt creates a prompt bar.
func NewPrompt(theme *Theme) *Prompt {
	input := tview.NewInputField()
	input.SetBorder(true)
	input.SetBorderColor(theme.BorderFocusColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	p := &Prompt{InputField: input}
	input.SetChangedFunc(func(text string) {
		if p.onChange != nil {
			p.onChange(p.mode, text)
		}
	})
	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			if p.onSubmit != nil {
				p.onSubmit(p.mode, p.GetText())
			}
		case tcell.KeyEscape:
			if p.onCancel != nil {
				p.onCancel(p.mode)
			}
		}
	})
	return p
}

// SetOnChange sets the callback for every edit.
func (p *Prompt) SetOnChange(fn func(mode PromptMode, text string)) { p.onChange = fn }

// SetOnSubmit sets the callback for Enter.
func (p *Prompt) SetOnSubmit(fn func(mode PromptMode, text string)) { p.onSubmit = fn }

// SetOnCancel sets the callback for Esc.
func (p *Prompt) SetOnCancel(fn func(mode PromptMode)) { p.onCancel = fn }

// Activate prepares the prompt for mode with initial text.
func (p *Prompt) Activate(mode PromptMode, text string) {
	p.mode = mode
	switch mode {
	case PromptCommand:
		p.SetLabel(":")
		p.SetTitle(" Command ")
	case PromptSearch:
		p.SetLabel("/")
		p.SetTitle(" Search by name ")
	}
	cb := p.onChange
	p.onChange = nil
	p.SetText(text)
	p.onChange = cb
}

// Mode returns the current prompt mode.
func (p *Prompt) Mode() PromptMode { return p.mode }
