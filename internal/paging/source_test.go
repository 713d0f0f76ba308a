package paging

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/matheus3301/mandap/internal/store"
)

type rec struct {
	ID        string
	CreatedAt int64
	Name      string
	MandapID  string
}

// memSource is an in-memory collection with the store's keyset semantics.
type memSource struct {
	mu    sync.Mutex
	recs  []rec
	calls []store.PageQuery
	err   error
	// gate, when set, blocks every query until it is closed.
	gate    chan struct{}
	started chan struct{}
}

func (m *memSource) QueryPage(ctx context.Context, q store.PageQuery) (store.Page[rec], error) {
	m.mu.Lock()
	m.calls = append(m.calls, q)
	gate, started, err := m.gate, m.started, m.err
	m.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return store.Page[rec]{}, ctx.Err()
		}
	}
	if err != nil {
		return store.Page[rec]{}, err
	}

	var out []rec
	for _, r := range m.recs {
		if r.MandapID != q.MandapID {
			continue
		}
		if q.NameTo != "" && (r.Name < q.NameFrom || r.Name >= q.NameTo) {
			continue
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b rec) int {
		if q.Order == store.ByName {
			if c := strings.Compare(a.Name, b.Name); c != 0 {
				return c
			}
			return strings.Compare(a.ID, b.ID)
		}
		if a.CreatedAt != b.CreatedAt {
			if a.CreatedAt > b.CreatedAt {
				return -1
			}
			return 1
		}
		return strings.Compare(b.ID, a.ID)
	})
	if q.After != nil {
		idx := slices.IndexFunc(out, func(r rec) bool { return r.ID == q.After.ID })
		out = out[idx+1:]
	}
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}

	page := store.Page[rec]{Records: out}
	if n := len(out); n > 0 {
		last := out[n-1]
		page.Last = &store.Handle{ID: last.ID, CreatedAt: last.CreatedAt, Name: last.Name}
	}
	return page, nil
}

func (m *memSource) lastCall() store.PageQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

func (m *memSource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func ids(recs []rec) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

// seq builds n records for mandap m1, oldest first, named after their index.
func seq(n int) []rec {
	out := make([]rec, n)
	for i := range out {
		id := string(rune('a' + i))
		out[i] = rec{ID: id, CreatedAt: int64(1000 + i), Name: "Name-" + id, MandapID: "m1"}
	}
	return out
}
