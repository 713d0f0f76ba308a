package paging

import (
	"fmt"

	"github.com/matheus3301/mandap/internal/store"
)

// Mode selects how a listing walks its collection.
type Mode int

const (
	// Chronological lists newest records first.
	Chronological Mode = iota + 1
	// PrefixSearch lists records whose name starts with a prefix, in name order.
	PrefixSearch
)

func (m Mode) String() string {
	switch m {
	case Chronological:
		return "chronological"
	case PrefixSearch:
		return "prefix"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Sentinel is appended to a search prefix to form the exclusive upper bound
// of the name window. Names containing code points above it sort outside
// the window.
const Sentinel = "\uf8ff"

// Cursor is an opaque position in a listing. It is one of NoCursor,
// ChronoCursor or PrefixCursor; a cursor produced under one mode is never
// valid under another.
type Cursor interface {
	fmt.Stringer
	after() *store.Handle
	sealed()
}

// NoCursor is the start of any listing.
type NoCursor struct{}

func (NoCursor) after() *store.Handle { return nil }
func (NoCursor) sealed()              {}
func (NoCursor) String() string       { return "none" }

// ChronoCursor is a position in a chronological listing. The zero value is
// the start of the listing.
type ChronoCursor struct {
	at *store.Handle
}

func (c ChronoCursor) after() *store.Handle { return c.at }
func (ChronoCursor) sealed()                {}

func (c ChronoCursor) String() string {
	if c.at == nil {
		return "chrono:start"
	}
	return "chrono:" + c.at.ID
}

// PrefixCursor is a position in a prefix search. It is bound to the prefix
// it was started with.
type PrefixCursor struct {
	prefix string
	at     *store.Handle
}

// NewPrefixCursor starts a search for names beginning with prefix.
func NewPrefixCursor(prefix string) PrefixCursor {
	return PrefixCursor{prefix: prefix}
}

// Prefix returns the search prefix the cursor belongs to.
func (c PrefixCursor) Prefix() string { return c.prefix }

func (c PrefixCursor) after() *store.Handle { return c.at }
func (PrefixCursor) sealed()                {}

func (c PrefixCursor) String() string {
	if c.at == nil {
		return fmt.Sprintf("prefix(%q):start", c.prefix)
	}
	return fmt.Sprintf("prefix(%q):%s", c.prefix, c.at.ID)
}

// IsStart reports whether c is the beginning of a listing.
func IsStart(c Cursor) bool {
	return c == nil || c.after() == nil
}
