package tui

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"", Command{}},
		{"quit", Command{Name: "quit"}},
		{"  Events ", Command{Name: "events"}},
		{":q", Command{Name: "q"}},
		{"search Lak", Command{Name: "search", Args: "Lak"}},
		{"search   Sri Lakshmi  ", Command{Name: "search", Args: "Sri Lakshmi"}},
	}
	for _, tt := range tests {
		if got := ParseCommand(tt.input); got != tt.want {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}
