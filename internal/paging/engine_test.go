package paging

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tenant"
)

func testTenant(t *testing.T) tenant.Context {
	t.Helper()
	tc, err := tenant.New("m1", "Sri Ganesh Mandap", "ravi", tenant.Admin)
	if err != nil {
		t.Fatal(err)
	}
	return tc
}

func TestChronologicalWalk(t *testing.T) {
	src := &memSource{recs: seq(7)}
	e := NewEngine[rec](testTenant(t), src, nil)
	ctx := context.Background()

	var (
		got    []string
		lasts  []bool
		cursor = ChronoCursor{}
	)
	for {
		page, next, err := e.Chronological(ctx, cursor, 3)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, ids(page.Records)...)
		lasts = append(lasts, page.IsLastPage)
		cursor = next
		if page.IsLastPage {
			break
		}
	}

	want := []string{"g", "f", "e", "d", "c", "b", "a"}
	if !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	if !slices.Equal(lasts, []bool{false, false, true}) {
		t.Errorf("last flags = %v", lasts)
	}
}

// TestFullFinalPageNeedsOneMoreFetch pins the rule that a page is last iff
// it holds fewer records than requested. When the total is an exact
// multiple of the page size the final full page is not marked last, and
// the reader pays one extra fetch that comes back empty. Counting ahead
// to mark it last early would change this test on purpose.
func TestFullFinalPageNeedsOneMoreFetch(t *testing.T) {
	src := &memSource{recs: seq(20)}
	e := NewEngine[rec](testTenant(t), src, nil)
	ctx := context.Background()

	page, err := e.FetchPage(ctx, Request{Mode: Chronological, Cursor: NoCursor{}, PageSize: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Records) != 20 {
		t.Fatalf("records = %d, want 20", len(page.Records))
	}
	if page.IsLastPage {
		t.Error("a full page must not be reported as the last one")
	}

	page, err = e.FetchPage(ctx, Request{Mode: Chronological, Cursor: page.Next, PageSize: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Records) != 0 || !page.IsLastPage {
		t.Errorf("trailing page = %d records, last=%v", len(page.Records), page.IsLastPage)
	}
}

func TestEmptyPageKeepsCursor(t *testing.T) {
	src := &memSource{}
	e := NewEngine[rec](testTenant(t), src, nil)

	page, err := e.FetchPage(context.Background(), Request{Mode: Chronological, PageSize: 5})
	if err != nil {
		t.Fatal(err)
	}
	if !page.IsLastPage {
		t.Error("empty collection should be the last page")
	}
	if _, ok := page.Next.(NoCursor); !ok {
		t.Errorf("next = %v, want none", page.Next)
	}
}

func TestPrefixWindow(t *testing.T) {
	src := &memSource{recs: []rec{
		{ID: "1", CreatedAt: 1, Name: "Ravi", MandapID: "m1"},
		{ID: "2", CreatedAt: 2, Name: "ravi", MandapID: "m1"},
		{ID: "3", CreatedAt: 3, Name: "Raju", MandapID: "m1"},
		{ID: "4", CreatedAt: 4, Name: "Suresh", MandapID: "m1"},
		{ID: "5", CreatedAt: 5, Name: "Ramesh", MandapID: "m1"},
		{ID: "6", CreatedAt: 6, Name: "Ra" + "\U0001F600", MandapID: "m1"},
	}}
	e := NewEngine[rec](testTenant(t), src, nil)

	page, next, err := e.Prefix(context.Background(), NewPrefixCursor("Ra"), 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(page.Records); !slices.Equal(got, []string{"3", "5"}) {
		t.Errorf("first page = %v, want [3 5]", got)
	}
	q := src.lastCall()
	if q.Order != store.ByName || q.NameFrom != "Ra" || q.NameTo != "Ra"+Sentinel {
		t.Errorf("query = %+v", q)
	}
	if next.Prefix() != "Ra" {
		t.Errorf("next prefix = %q", next.Prefix())
	}

	page, _, err = e.Prefix(context.Background(), next, 2)
	if err != nil {
		t.Fatal(err)
	}
	// Lower-case "ravi" and names above the sentinel fall outside the window.
	if got := ids(page.Records); !slices.Equal(got, []string{"1"}) {
		t.Errorf("second page = %v, want [1]", got)
	}
	if !page.IsLastPage {
		t.Error("second page should be last")
	}
}

func TestCursorModeMismatch(t *testing.T) {
	src := &memSource{recs: seq(5)}
	e := NewEngine[rec](testTenant(t), src, nil)
	ctx := context.Background()

	chrono, err := e.FetchPage(ctx, Request{Mode: Chronological, PageSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	search, _, err := e.Prefix(ctx, NewPrefixCursor("Name"), 2)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		req  Request
	}{
		{"chrono cursor in prefix mode", Request{Mode: PrefixSearch, Cursor: chrono.Next, PageSize: 2, Prefix: "Name"}},
		{"prefix cursor in chrono mode", Request{Mode: Chronological, Cursor: search.Next, PageSize: 2}},
		{"prefix cursor for another prefix", Request{Mode: PrefixSearch, Cursor: search.Next, PageSize: 2, Prefix: "Nam"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := src.callCount()
			_, err := e.FetchPage(ctx, tt.req)
			if !errors.Is(err, ErrInvalidCursorState) {
				t.Errorf("err = %v, want ErrInvalidCursorState", err)
			}
			if src.callCount() != calls {
				t.Error("rejected request must not reach the store")
			}
		})
	}
}

func TestInvalidRequests(t *testing.T) {
	e := NewEngine[rec](testTenant(t), &memSource{}, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
	}{
		{"zero page size", Request{Mode: Chronological}},
		{"empty prefix", Request{Mode: PrefixSearch, PageSize: 5}},
		{"unknown mode", Request{Mode: Mode(9), PageSize: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.FetchPage(ctx, tt.req); !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestTenantScoping(t *testing.T) {
	src := &memSource{recs: append(seq(2), rec{ID: "x", CreatedAt: 5000, Name: "Other", MandapID: "m2"})}
	e := NewEngine[rec](testTenant(t), src, nil)

	page, err := e.FetchPage(context.Background(), Request{Mode: Chronological, PageSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(page.Records); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("ids = %v", got)
	}
	if q := src.lastCall(); q.MandapID != "m1" {
		t.Errorf("mandap = %q, want m1", q.MandapID)
	}
}

func TestStoreFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	e := NewEngine[rec](testTenant(t), &memSource{err: boom}, nil)

	_, err := e.FetchPage(context.Background(), Request{Mode: Chronological, PageSize: 5})
	if !errors.Is(err, ErrStoreUnavailable) || !errors.Is(err, boom) {
		t.Errorf("err = %v, want ErrStoreUnavailable wrapping cause", err)
	}
	if e.Busy() {
		t.Error("engine still busy after failure")
	}
}

func TestConcurrentFetchIsSkipped(t *testing.T) {
	src := &memSource{recs: seq(3), gate: make(chan struct{}), started: make(chan struct{}, 1)}
	e := NewEngine[rec](testTenant(t), src, nil)
	ctx := context.Background()

	done := make(chan Page[rec], 1)
	go func() {
		page, err := e.FetchPage(ctx, Request{Mode: Chronological, PageSize: 5})
		if err != nil {
			t.Error(err)
		}
		done <- page
	}()

	select {
	case <-src.started:
	case <-time.After(time.Second):
		t.Fatal("first fetch never reached the store")
	}

	second, err := e.FetchPage(ctx, Request{Mode: Chronological, PageSize: 5})
	if err != nil {
		t.Fatal(err)
	}
	if !second.Skipped || len(second.Records) != 0 {
		t.Errorf("second call = %+v, want skipped", second)
	}
	if src.callCount() != 1 {
		t.Errorf("store calls = %d, want 1", src.callCount())
	}

	close(src.gate)
	first := <-done
	if len(first.Records) != 3 || first.Skipped {
		t.Errorf("first call = %d records, skipped=%v", len(first.Records), first.Skipped)
	}
}

func TestIsStart(t *testing.T) {
	if !IsStart(nil) || !IsStart(NoCursor{}) || !IsStart(ChronoCursor{}) || !IsStart(NewPrefixCursor("a")) {
		t.Error("fresh cursors should be at the start")
	}
	h := &store.Handle{ID: "x"}
	if IsStart(ChronoCursor{at: h}) {
		t.Error("positioned cursor reported as start")
	}
}
