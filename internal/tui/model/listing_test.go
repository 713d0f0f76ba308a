package model

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/mandap/internal/paging"
	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tenant"
)

func seeded(t *testing.T, names ...string) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "mandap.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	for i, name := range names {
		c := store.Contribution{
			Name:        name,
			Phone:       fmt.Sprintf("90000000%02d", i),
			Rupees:      51,
			SubmittedBy: "ravi",
			MandapID:    "m1",
			CreatedAt:   int64(1000 + i),
		}
		if _, err := db.InsertOffering(&c); err != nil {
			t.Fatal(err)
		}
	}
	return db
}

func listing(t *testing.T, src paging.Source[store.Contribution], size int) (*Listing[store.Contribution], chan Snapshot[store.Contribution]) {
	t.Helper()
	tc, err := tenant.New("m1", "Sri Ganesh Mandap", "ravi", tenant.Admin)
	if err != nil {
		t.Fatal(err)
	}
	e := paging.NewEngine[store.Contribution](tc, src, nil)
	l := NewListing(context.Background(), paging.NewPager("offerings", e, size, nil), 20*time.Millisecond)
	t.Cleanup(l.Stop)
	changes := make(chan Snapshot[store.Contribution], 16)
	l.SetOnChange(func(s Snapshot[store.Contribution]) { changes <- s })
	return l, changes
}

func next(t *testing.T, ch chan Snapshot[store.Contribution]) Snapshot[store.Contribution] {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
		return Snapshot[store.Contribution]{}
	}
}

// settled drains changes until one with n items arrives.
func settled(t *testing.T, ch chan Snapshot[store.Contribution], n int) Snapshot[store.Contribution] {
	t.Helper()
	for {
		if s := next(t, ch); len(s.Items) == n {
			return s
		}
	}
}

func TestListingLoadMore(t *testing.T) {
	db := seeded(t, "Anil", "Ravi", "Suresh")
	l, changes := listing(t, paging.SourceFunc[store.Contribution](db.QueryOfferings), 2)

	l.Refresh()
	s := settled(t, changes, 2)
	if s.Done {
		t.Error("Done after first of two pages")
	}
	if s.Items[0].Name != "Suresh" {
		t.Errorf("first = %q, want newest Suresh", s.Items[0].Name)
	}

	l.LoadMore()
	s = settled(t, changes, 3)
	if !s.Done {
		t.Error("not Done after short page")
	}
}

func TestListingDebouncedSearch(t *testing.T) {
	db := seeded(t, "Anil", "Ravi", "Raju", "Suresh", "Rama")
	l, changes := listing(t, paging.SourceFunc[store.Contribution](db.QueryOfferings), 10)

	l.Search("R")
	l.Search("Ra")
	l.Search("Raj")
	s := settled(t, changes, 1)
	if s.Query != "Raj" || s.Items[0].Name != "Raju" {
		t.Errorf("snapshot = %+v, want the Raj search only", s)
	}
	if got := l.Query(); got != "Raj" {
		t.Errorf("Query = %q", got)
	}

	l.Search("  ")
	s = settled(t, changes, 5)
	if s.Query != "" {
		t.Errorf("Query = %q after clearing search", s.Query)
	}
}

func TestListingReportsErrors(t *testing.T) {
	boom := errors.New("disk gone")
	src := paging.SourceFunc[store.Contribution](func(context.Context, store.PageQuery) (store.Page[store.Contribution], error) {
		return store.Page[store.Contribution]{}, boom
	})
	l, _ := listing(t, src, 5)
	errs := make(chan error, 1)
	l.SetOnError(func(err error) { errs <- err })

	l.LoadMore()
	select {
	case err := <-errs:
		if !errors.Is(err, paging.ErrStoreUnavailable) {
			t.Errorf("err = %v, want ErrStoreUnavailable", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no error reported")
	}
}
