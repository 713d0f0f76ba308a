// Package channel delivers a rendered text to one or more phone addresses
// over an outbound messaging channel.
package channel

import (
	"context"
	"fmt"
	"strings"
)

// Kind is the messaging channel a notification goes out on.
type Kind string

const (
	Chat Kind = "chat"
	SMS  Kind = "sms"
)

// ParseKind accepts "chat" (alias "whatsapp") or "sms".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chat", "whatsapp":
		return Chat, nil
	case "sms":
		return SMS, nil
	default:
		return "", fmt.Errorf("unknown channel kind %q", s)
	}
}

// Opener hands a message to a channel. addr is a single phone address with
// country code, or several joined by a group separator. Delivery is fire
// and forget: implementations log failures and never report them.
type Opener interface {
	Open(ctx context.Context, kind Kind, addr, text string)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, kind Kind, addr, text string)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, kind Kind, addr, text string) {
	f(ctx, kind, addr, text)
}

// SplitAddresses splits a group address on either separator.
func SplitAddresses(addr string) []string {
	return strings.FieldsFunc(addr, func(r rune) bool {
		return r == ',' || r == ';' || r == ' '
	})
}
