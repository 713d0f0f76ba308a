package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func labels(actions []*Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Label
	}
	return out
}

func TestActionsOrder(t *testing.T) {
	r := NewRegistry()
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: 'q', Label: "q", Handler: func() {}})
	r.AddView("Offerings", &Action{Key: tcell.KeyEnter, Label: "Enter", Handler: func() {}})
	r.AddView("Offerings", &Action{Key: tcell.KeyRune, Rune: '/', Label: "/", Handler: func() {}})
	r.AddView("Events", &Action{Key: tcell.KeyRune, Rune: 'n', Label: "n", Handler: func() {}})

	tests := []struct {
		view string
		want []string
	}{
		{"Offerings", []string{"Enter", "/", "q"}},
		{"Events", []string{"n", "q"}},
		{"Help", []string{"q"}},
	}
	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			got := labels(r.Actions(tt.view))
			if len(got) != len(tt.want) {
				t.Fatalf("Actions = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("Actions = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestActionsDoesNotAliasRegistry(t *testing.T) {
	r := NewRegistry()
	r.AddView("Offerings", &Action{Label: "Enter"})
	r.AddGlobal(&Action{Label: "q"})

	got := r.Actions("Offerings")
	got[0] = &Action{Label: "changed"}
	if r.Actions("Offerings")[0].Label != "Enter" {
		t.Error("Actions result aliases the registry")
	}
}
