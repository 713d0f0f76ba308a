package channel

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.uber.org/zap"
)

func TestLink(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		addr string
		text string
		want string
	}{
		{"chat", Chat, "919000000001", "Hi there", "https://wa.me/919000000001?text=Hi%20there"},
		{"sms", SMS, "919000000001", "Hi there", "sms:919000000001?&body=Hi%20there"},
		{"sms group", SMS, "919000000001;919000000002", "x", "sms:919000000001;919000000002?&body=x"},
		{"escapes", Chat, "91", "a&b=c+d\n₹", "https://wa.me/91?text=a%26b%3Dc%2Bd%0A%E2%82%B9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Link(tt.kind, tt.addr, tt.text); got != tt.want {
				t.Errorf("Link() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"chat": Chat, "WhatsApp": Chat, " sms ": SMS} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseKind("fax"); err == nil {
		t.Error("ParseKind(fax) should fail")
	}
}

func TestSplitAddresses(t *testing.T) {
	got := SplitAddresses("911,912;913, 914")
	if !slices.Equal(got, []string{"911", "912", "913", "914"}) {
		t.Errorf("SplitAddresses = %v", got)
	}
}

func TestDeepLinkOpen(t *testing.T) {
	var launched []string
	d := NewDeepLink(func(_ context.Context, link string) error {
		launched = append(launched, link)
		return nil
	}, nil)

	d.Open(context.Background(), SMS, "919000000001", "hello")
	if len(launched) != 1 || launched[0] != "sms:919000000001?&body=hello" {
		t.Errorf("launched = %v", launched)
	}
}

func TestDeepLinkLaunchFailureIsLogged(t *testing.T) {
	d := NewDeepLink(func(context.Context, string) error {
		return errors.New("no browser")
	}, zap.NewNop())
	// Must not panic or propagate.
	d.Open(context.Background(), Chat, "91", "x")
}

func TestOpenerFunc(t *testing.T) {
	var got string
	var o Opener = OpenerFunc(func(_ context.Context, _ Kind, addr, _ string) { got = addr })
	o.Open(context.Background(), Chat, "919", "x")
	if got != "919" {
		t.Errorf("addr = %q", got)
	}
}

func TestRenderQR(t *testing.T) {
	out := RenderQR("2@abc,def,ghi")
	if strings.Contains(out, "failed") {
		t.Fatalf("RenderQR failed: %s", out)
	}
	if !strings.ContainsRune(out, '█') {
		t.Error("QR output has no filled blocks")
	}
}

type fakeSender struct {
	to   []types.JID
	text []string
	at   []time.Time
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, to types.JID, msg *waE2E.Message, _ ...whatsmeow.SendRequestExtra) (whatsmeow.SendResponse, error) {
	f.to = append(f.to, to)
	f.at = append(f.at, time.Now())
	f.text = append(f.text, msg.GetConversation())
	if f.err != nil {
		return whatsmeow.SendResponse{}, f.err
	}
	return whatsmeow.SendResponse{ID: "srv-" + to.User}, nil
}

func TestWhatsAppOpenSendsToEachNumber(t *testing.T) {
	fs := &fakeSender{}
	w := &WhatsApp{sender: fs, logger: zap.NewNop()}

	w.Open(context.Background(), Chat, "919000000001;+919000000002", "Puja at 6pm")

	if len(fs.to) != 2 {
		t.Fatalf("sends = %d, want 2", len(fs.to))
	}
	if fs.to[1].User != "919000000002" || fs.to[1].Server != types.DefaultUserServer {
		t.Errorf("second jid = %s", fs.to[1])
	}
	if fs.text[0] != "Puja at 6pm" {
		t.Errorf("text = %q", fs.text[0])
	}
}

func TestWhatsAppOpenIgnoresSMSAndErrors(t *testing.T) {
	fs := &fakeSender{err: errors.New("offline")}
	w := &WhatsApp{sender: fs, logger: zap.NewNop()}

	w.Open(context.Background(), SMS, "919000000001", "x")
	if len(fs.to) != 0 {
		t.Error("sms request reached whatsapp")
	}
	w.Open(context.Background(), Chat, "919000000001,919000000002", "x")
	if len(fs.to) != 2 {
		t.Errorf("a failed send must not stop the rest: sends = %d", len(fs.to))
	}
}

func TestWhatsAppOpenPacesGroupSends(t *testing.T) {
	fs := &fakeSender{}
	w := &WhatsApp{sender: fs, logger: zap.NewNop()}
	w.SetSendInterval(30 * time.Millisecond)

	w.Open(context.Background(), Chat, "919000000001;919000000002;919000000003", "x")

	if len(fs.at) != 3 {
		t.Fatalf("sends = %d, want 3", len(fs.at))
	}
	for i := 1; i < len(fs.at); i++ {
		if gap := fs.at[i].Sub(fs.at[i-1]); gap < 27*time.Millisecond {
			t.Errorf("send %d came %v after send %d", i, gap, i-1)
		}
	}
}

func TestWhatsAppOpenStopsOnCancel(t *testing.T) {
	fs := &fakeSender{}
	w := &WhatsApp{sender: fs, logger: zap.NewNop()}
	w.SetSendInterval(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Open(ctx, Chat, "919000000001;919000000002", "x")
	if len(fs.to) != 1 {
		t.Errorf("sends = %d, want only the first before the wait", len(fs.to))
	}
}
