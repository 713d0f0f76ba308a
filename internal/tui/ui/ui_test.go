package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/rivo/tview"
)

type page struct {
	*tview.Box
	name string
}

func (p *page) Name() string       { return p.name }
func (p *page) Hints() []MenuHint { return nil }

func newPage(name string) *page { return &page{Box: tview.NewBox(), name: name} }

func TestPagesStack(t *testing.T) {
	p := NewPages()
	var tops []string
	p.SetOnChange(func(top Component, stack []Component) {
		tops = append(tops, top.Name())
	})

	offerings, receipt, events := newPage("Offerings"), newPage("Receipt"), newPage("Events")
	p.Push(offerings)
	p.Push(receipt)
	if p.Top() != Component(receipt) {
		t.Fatalf("Top = %s, want Receipt", p.Top().Name())
	}
	if !p.Pop() {
		t.Fatal("Pop returned false with two pages")
	}
	if p.Pop() {
		t.Error("Pop removed the root page")
	}
	p.Push(receipt)
	p.Reset(events)
	if p.Contains(offerings) || p.Contains(receipt) || !p.Contains(events) {
		t.Error("Reset did not replace the stack")
	}

	want := []string{"Offerings", "Receipt", "Offerings", "Receipt", "Events"}
	if len(tops) != len(want) {
		t.Fatalf("tops = %v, want %v", tops, want)
	}
	for i := range want {
		if tops[i] != want[i] {
			t.Errorf("tops = %v, want %v", tops, want)
			break
		}
	}
}

func TestFlashExpires(t *testing.T) {
	now := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	f := NewFlash()
	f.now = func() time.Time { return now }

	if f.Current() != nil {
		t.Fatal("new flash has a message")
	}
	f.Err(errors.New("store unavailable"))
	m := f.Current()
	if m == nil || m.Level != FlashErr || m.Text != "store unavailable" {
		t.Fatalf("Current = %+v", m)
	}

	now = now.Add(11 * time.Second)
	if f.Current() != nil {
		t.Error("error flash still shown after 11s")
	}

	f.Info("saved")
	now = now.Add(4 * time.Second)
	if m := f.Current(); m == nil || m.Level != FlashInfo {
		t.Errorf("info flash gone after 4s: %+v", m)
	}
}
