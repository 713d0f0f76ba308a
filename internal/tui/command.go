package tui

import "strings"

// Command is a parsed ":" prompt entry.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string without the leading ':'. The name is
// lower-cased; the arguments keep their case so searches match as typed.
func ParseCommand(input string) Command {
	input = strings.TrimPrefix(strings.TrimSpace(input), ":")
	name, args, _ := strings.Cut(input, " ")
	return Command{Name: strings.ToLower(name), Args: strings.TrimSpace(args)}
}
