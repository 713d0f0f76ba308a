// Package model holds the state behind the TUI's views, independent of tview.
package model

import (
	"context"
	"strings"
	"time"

	"github.com/matheus3301/mandap/internal/paging"
)

// Snapshot is the state of a listing after a change.
type Snapshot[T any] struct {
	Items []T
	Done  bool
	Query string
}

// Listing drives one paginated view: debounced name search and load-more
// over a pager. Callbacks run on the goroutine that finished the fetch.
type Listing[T any] struct {
	ctx      context.Context
	pager    *paging.Pager[T]
	debounce *paging.Debouncer
	onChange func(Snapshot[T])
	onError  func(error)
}

// NewListing creates a listing. delay is the search debounce.
func NewListing[T any](ctx context.Context, pager *paging.Pager[T], delay time.Duration) *Listing[T] {
	return &Listing[T]{
		ctx:      ctx,
		pager:    pager,
		debounce: paging.NewDebouncer(delay),
		onChange: func(Snapshot[T]) {},
		onError:  func(error) {},
	}
}

// SetOnChange sets the callback for new records.
func (l *Listing[T]) SetOnChange(fn func(Snapshot[T])) { l.onChange = fn }

// SetOnError sets the callback for fetch failures.
func (l *Listing[T]) SetOnError(fn func(error)) { l.onError = fn }

// Refresh discards the loaded records and fetches the first page again.
func (l *Listing[T]) Refresh() {
	l.pager.Reset()
	l.snapshot()
	go l.fetch()
}

// LoadMore fetches the next page in the background. It is a no-op while a
// fetch is running or after the last page.
func (l *Listing[T]) LoadMore() {
	if l.pager.Done() {
		return
	}
	go l.fetch()
}

// Search schedules a prefix search for text once typing pauses. Empty text
// returns to the chronological listing.
func (l *Listing[T]) Search(text string) {
	prefix := strings.TrimSpace(text)
	l.debounce.Trigger(func() {
		if l.pager.Search(prefix) {
			l.snapshot()
			l.fetch()
		}
	})
}

// Query returns the active search prefix.
func (l *Listing[T]) Query() string {
	_, prefix := l.pager.Mode()
	return prefix
}

// Stop cancels a pending search.
func (l *Listing[T]) Stop() {
	l.debounce.Stop()
}

func (l *Listing[T]) fetch() {
	loaded, err := l.pager.LoadMore(l.ctx)
	if err != nil {
		l.onError(err)
		return
	}
	if loaded {
		l.snapshot()
	}
}

func (l *Listing[T]) snapshot() {
	_, prefix := l.pager.Mode()
	l.onChange(Snapshot[T]{Items: l.pager.Items(), Done: l.pager.Done(), Query: prefix})
}
