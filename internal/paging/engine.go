// Package paging fetches bounded pages of a mandap's records under either a
// chronological scan or a name-prefix search, tracking opaque cursors
// between calls.
package paging

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tenant"
)

var (
	// ErrStoreUnavailable wraps any failure of the underlying collection.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInvalidCursorState means a cursor was used under a mode or prefix
	// it was not produced by. It signals a caller bug and is not retryable.
	ErrInvalidCursorState = errors.New("invalid cursor state")
	// ErrInvalidRequest rejects malformed fetch requests.
	ErrInvalidRequest = errors.New("invalid page request")
)

// Source is a paginated collection.
type Source[T any] interface {
	QueryPage(ctx context.Context, q store.PageQuery) (store.Page[T], error)
}

// SourceFunc adapts a store query method to Source.
type SourceFunc[T any] func(ctx context.Context, q store.PageQuery) (store.Page[T], error)

// QueryPage calls f.
func (f SourceFunc[T]) QueryPage(ctx context.Context, q store.PageQuery) (store.Page[T], error) {
	return f(ctx, q)
}

// Request describes one page fetch.
type Request struct {
	Mode     Mode
	Cursor   Cursor
	PageSize int
	// Prefix is required for PrefixSearch and ignored otherwise.
	Prefix string
}

// Page is the outcome of a fetch.
type Page[T any] struct {
	Records []T
	// Next resumes the listing after Records. It equals the request cursor
	// when nothing was returned.
	Next       Cursor
	IsLastPage bool
	// Skipped is set when the call was dropped because another fetch on the
	// same engine was still in flight.
	Skipped bool
}

// Engine issues page fetches against one collection for one mandap. At most
// one fetch is in flight per engine.
type Engine[T any] struct {
	tenant   tenant.Context
	src      Source[T]
	log      *zap.Logger
	inflight atomic.Bool
}

// NewEngine creates an engine scoped to t.
func NewEngine[T any](t tenant.Context, src Source[T], log *zap.Logger) *Engine[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine[T]{tenant: t, src: src, log: log}
}

// Tenant returns the mandap the engine is scoped to.
func (e *Engine[T]) Tenant() tenant.Context { return e.tenant }

// Busy reports whether a fetch is in flight.
func (e *Engine[T]) Busy() bool { return e.inflight.Load() }

// FetchPage fetches the page after req.Cursor.
func (e *Engine[T]) FetchPage(ctx context.Context, req Request) (Page[T], error) {
	q, err := e.plan(req)
	if err != nil {
		return Page[T]{}, err
	}

	if !e.inflight.CompareAndSwap(false, true) {
		e.log.Debug("fetch skipped, another is in flight", zap.Stringer("mode", req.Mode))
		return Page[T]{Next: cursorOrNone(req.Cursor), Skipped: true}, nil
	}
	defer e.inflight.Store(false)

	res, err := e.src.QueryPage(ctx, q)
	if err != nil {
		e.log.Warn("page fetch failed",
			zap.Stringer("mode", req.Mode),
			zap.Stringer("cursor", cursorOrNone(req.Cursor)),
			zap.Error(err),
		)
		return Page[T]{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	page := Page[T]{
		Records:    res.Records,
		Next:       cursorOrNone(req.Cursor),
		IsLastPage: len(res.Records) < req.PageSize,
	}
	if res.Last != nil {
		h := *res.Last
		switch req.Mode {
		case Chronological:
			page.Next = ChronoCursor{at: &h}
		case PrefixSearch:
			page.Next = PrefixCursor{prefix: req.Prefix, at: &h}
		}
	}
	e.log.Debug("page fetched",
		zap.Stringer("mode", req.Mode),
		zap.Int("records", len(page.Records)),
		zap.Bool("last", page.IsLastPage),
	)
	return page, nil
}

// Chronological fetches the page of newest-first records after c.
func (e *Engine[T]) Chronological(ctx context.Context, c ChronoCursor, size int) (Page[T], ChronoCursor, error) {
	page, err := e.FetchPage(ctx, Request{Mode: Chronological, Cursor: c, PageSize: size})
	if err != nil {
		return page, c, err
	}
	next, ok := page.Next.(ChronoCursor)
	if !ok {
		next = c
	}
	return page, next, nil
}

// Prefix fetches the page of name-ordered records after c within c's prefix.
func (e *Engine[T]) Prefix(ctx context.Context, c PrefixCursor, size int) (Page[T], PrefixCursor, error) {
	page, err := e.FetchPage(ctx, Request{Mode: PrefixSearch, Cursor: c, PageSize: size, Prefix: c.prefix})
	if err != nil {
		return page, c, err
	}
	next, ok := page.Next.(PrefixCursor)
	if !ok {
		next = c
	}
	return page, next, nil
}

// plan validates req and turns it into a store query.
func (e *Engine[T]) plan(req Request) (store.PageQuery, error) {
	if req.PageSize <= 0 {
		return store.PageQuery{}, fmt.Errorf("%w: page size %d", ErrInvalidRequest, req.PageSize)
	}
	q := store.PageQuery{
		MandapID: e.tenant.MandapID(),
		Limit:    req.PageSize,
	}
	if q.MandapID == "" {
		return store.PageQuery{}, fmt.Errorf("%w: %w", ErrInvalidRequest, tenant.ErrNoTenant)
	}

	switch req.Mode {
	case Chronological:
		switch c := req.Cursor.(type) {
		case nil, NoCursor:
		case ChronoCursor:
			q.After = c.at
		default:
			return store.PageQuery{}, fmt.Errorf("%w: %s cursor in chronological mode", ErrInvalidCursorState, c)
		}
		q.Order = store.NewestFirst

	case PrefixSearch:
		if req.Prefix == "" {
			return store.PageQuery{}, fmt.Errorf("%w: empty search prefix", ErrInvalidRequest)
		}
		switch c := req.Cursor.(type) {
		case nil, NoCursor:
		case PrefixCursor:
			if c.prefix != req.Prefix {
				return store.PageQuery{}, fmt.Errorf("%w: cursor for prefix %q used with %q", ErrInvalidCursorState, c.prefix, req.Prefix)
			}
			q.After = c.at
		default:
			return store.PageQuery{}, fmt.Errorf("%w: %s cursor in prefix mode", ErrInvalidCursorState, c)
		}
		q.Order = store.ByName
		q.NameFrom = req.Prefix
		q.NameTo = req.Prefix + Sentinel

	default:
		return store.PageQuery{}, fmt.Errorf("%w: unknown mode %s", ErrInvalidRequest, req.Mode)
	}
	return q, nil
}

func cursorOrNone(c Cursor) Cursor {
	if c == nil {
		return NoCursor{}
	}
	return c
}
