package ui

import "github.com/rivo/tview"

// Pages is a stack of components over tview.Pages. Components are added
// lazily the first time they are pushed.
type Pages struct {
	*tview.Pages
	stack    []Component
	onChange func(top Component, stack []Component)
}

// NewPages creates an empty page stack.
func NewPages() *Pages {
	return &Pages{Pages: tview.NewPages()}
}

// SetOnChange sets a callback fired after every stack change.
func (p *Pages) SetOnChange(fn func(top Component, stack []Component)) {
	p.onChange = fn
}

// Push shows c on top of the stack.
func (p *Pages) Push(c Component) {
	if !p.HasPage(c.Name()) {
		p.AddPage(c.Name(), c, true, false)
	}
	if top := p.Top(); top != nil {
		p.HidePage(top.Name())
	}
	p.stack = append(p.stack, c)
	p.show(c)
}

// Pop removes the top component and shows the one below it. The root is
// never popped; Pop reports whether anything was removed.
func (p *Pages) Pop() bool {
	if len(p.stack) <= 1 {
		return false
	}
	top := p.stack[len(p.stack)-1]
	p.HidePage(top.Name())
	p.stack = p.stack[:len(p.stack)-1]
	p.show(p.stack[len(p.stack)-1])
	return true
}

// Reset replaces the whole stack with c.
func (p *Pages) Reset(c Component) {
	for _, s := range p.stack {
		p.HidePage(s.Name())
	}
	p.stack = nil
	p.Push(c)
}

// Top returns the visible component, or nil.
func (p *Pages) Top() Component {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

// Contains reports whether c is anywhere on the stack.
func (p *Pages) Contains(c Component) bool {
	for _, s := range p.stack {
		if s == c {
			return true
		}
	}
	return false
}

func (p *Pages) show(c Component) {
	p.ShowPage(c.Name())
	p.SendToFront(c.Name())
	if p.onChange != nil {
		stack := make([]Component, len(p.stack))
		copy(stack, p.stack)
		p.onChange(c, stack)
	}
}
