package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/matheus3301/mandap/internal/paging"
	"github.com/matheus3301/mandap/internal/store"
)

// MinPhoneLength is the shortest phone field treated as reachable.
const MinPhoneLength = 10

// ErrRecipientCollectionFailed means the contribution scan stopped early.
// The recipients gathered before the failure are still returned.
var ErrRecipientCollectionFailed = errors.New("recipient collection failed")

// RecipientSet is an insertion-ordered set of phone numbers. Numbers are
// compared as exact strings.
type RecipientSet struct {
	phones []string
	seen   map[string]struct{}
}

// NewRecipientSet builds a set from phones, dropping repeats.
func NewRecipientSet(phones ...string) *RecipientSet {
	s := &RecipientSet{seen: make(map[string]struct{})}
	for _, p := range phones {
		s.Add(p)
	}
	return s
}

// Add inserts phone and reports whether it was new.
func (s *RecipientSet) Add(phone string) bool {
	if _, ok := s.seen[phone]; ok {
		return false
	}
	s.seen[phone] = struct{}{}
	s.phones = append(s.phones, phone)
	return true
}

// Contains reports whether phone is in the set.
func (s *RecipientSet) Contains(phone string) bool {
	_, ok := s.seen[phone]
	return ok
}

// Len returns the number of recipients.
func (s *RecipientSet) Len() int { return len(s.phones) }

// Phones returns the recipients in insertion order.
func (s *RecipientSet) Phones() []string {
	out := make([]string, len(s.phones))
	copy(out, s.phones)
	return out
}

// CollectRecipients scans every contribution of the engine's mandap, newest
// first, and gathers the distinct phone numbers long enough to reach.
func CollectRecipients(ctx context.Context, e *paging.Engine[store.Contribution], pageSize int) (*RecipientSet, error) {
	set := NewRecipientSet()
	cursor := paging.ChronoCursor{}
	for {
		page, next, err := e.Chronological(ctx, cursor, pageSize)
		if err != nil {
			return set, fmt.Errorf("%w after %d recipients: %w", ErrRecipientCollectionFailed, set.Len(), err)
		}
		if page.Skipped {
			return set, fmt.Errorf("%w: another scan is in progress", ErrRecipientCollectionFailed)
		}
		for _, c := range page.Records {
			if len(c.Phone) >= MinPhoneLength {
				set.Add(c.Phone)
			}
		}
		if page.IsLastPage {
			return set, nil
		}
		cursor = next
	}
}
