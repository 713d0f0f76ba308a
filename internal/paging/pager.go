package paging

import (
	"context"
	"sync"

	"github.com/matheus3301/mandap/internal/bus"
)

// PageResult is the payload of "paging.page" events.
type PageResult[T any] struct {
	Listing    string
	Mode       Mode
	Prefix     string
	Records    []T
	IsLastPage bool
}

// Pager accumulates the pages of one listing view. An empty search prefix
// means chronological listing; any change of mode or prefix starts over.
type Pager[T any] struct {
	name   string
	engine *Engine[T]
	size   int
	bus    *bus.Bus

	mu     sync.Mutex
	gen    uint64
	mode   Mode
	prefix string
	cursor Cursor
	items  []T
	done   bool
}

// NewPager creates a pager that lists newest records first. name labels the
// listing in published events.
func NewPager[T any](name string, e *Engine[T], pageSize int, b *bus.Bus) *Pager[T] {
	return &Pager[T]{
		name:   name,
		engine: e,
		size:   pageSize,
		bus:    b,
		mode:   Chronological,
		cursor: NoCursor{},
	}
}

// Search switches the listing to prefix search, or back to chronological
// when prefix is empty. It reports whether the listing was reset.
func (p *Pager[T]) Search(prefix string) bool {
	mode := Chronological
	if prefix != "" {
		mode = PrefixSearch
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if mode == p.mode && prefix == p.prefix {
		return false
	}
	p.mode, p.prefix = mode, prefix
	p.resetLocked()
	return true
}

// Reset clears the accumulated records and rewinds the cursor, keeping the
// current mode.
func (p *Pager[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

func (p *Pager[T]) resetLocked() {
	p.gen++
	p.cursor = NoCursor{}
	p.items = nil
	p.done = false
}

// LoadMore fetches the next page and appends it. It does nothing once the
// last page has been seen or while another fetch is in flight. A page that
// arrives after the listing was reset is dropped and the fetch is repeated
// for the new state.
func (p *Pager[T]) LoadMore(ctx context.Context) (bool, error) {
	for {
		p.mu.Lock()
		if p.done {
			p.mu.Unlock()
			return false, nil
		}
		gen := p.gen
		req := Request{Mode: p.mode, Cursor: p.cursor, PageSize: p.size, Prefix: p.prefix}
		p.mu.Unlock()

		page, err := p.engine.FetchPage(ctx, req)
		if err != nil {
			return false, err
		}
		if page.Skipped {
			return false, nil
		}

		p.mu.Lock()
		if gen != p.gen {
			p.mu.Unlock()
			continue
		}
		p.items = append(p.items, page.Records...)
		p.cursor = page.Next
		p.done = page.IsLastPage
		p.mu.Unlock()

		p.bus.Emit("paging.page", PageResult[T]{
			Listing:    p.name,
			Mode:       req.Mode,
			Prefix:     req.Prefix,
			Records:    page.Records,
			IsLastPage: page.IsLastPage,
		})
		return true, nil
	}
}

// Items returns a copy of the accumulated records.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// Done reports whether the last page has been seen.
func (p *Pager[T]) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Cursor returns the position the next LoadMore resumes from.
func (p *Pager[T]) Cursor() Cursor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Mode returns the current listing mode and search prefix.
func (p *Pager[T]) Mode() (Mode, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode, p.prefix
}
