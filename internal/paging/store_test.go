package paging

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matheus3301/mandap/internal/store"
)

func TestEngineOverSQLite(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "mandap.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}

	names := []string{"Ravi", "Suresh", "Ramesh", "ravi", "Raju", "Anil", "Rama"}
	for i, name := range names {
		c := store.Contribution{
			ID:        fmt.Sprintf("o%02d", i),
			Name:      name,
			Phone:     fmt.Sprintf("90000000%02d", i),
			Rupees:    101,
			MandapID:  "m1",
			CreatedAt: int64(1000 + i),
		}
		if _, err := db.InsertOffering(&c); err != nil {
			t.Fatal(err)
		}
	}

	e := NewEngine[store.Contribution](testTenant(t), SourceFunc[store.Contribution](db.QueryOfferings), nil)
	p := NewPager("offerings", e, 2, nil)
	ctx := context.Background()

	for !p.Done() {
		if _, err := p.LoadMore(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(p.Items()); n != len(names) {
		t.Errorf("chronological items = %d, want %d", n, len(names))
	}
	if first := p.Items()[0].Name; first != "Rama" {
		t.Errorf("newest = %q, want Rama", first)
	}

	p.Search("Ra")
	for !p.Done() {
		if _, err := p.LoadMore(ctx); err != nil {
			t.Fatal(err)
		}
	}
	var got []string
	for _, c := range p.Items() {
		got = append(got, c.Name)
	}
	want := []string{"Raju", "Rama", "Ramesh", "Ravi"}
	if !slices.Equal(got, want) {
		t.Errorf("search = %v, want %v", got, want)
	}
}
