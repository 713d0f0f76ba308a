package channel

import (
	"context"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// Link builds the deep link that opens kind's app with text prefilled for addr.
func Link(kind Kind, addr, text string) string {
	body := encodeComponent(text)
	if kind == SMS {
		return "sms:" + addr + "?&body=" + body
	}
	return "https://wa.me/" + addr + "?text=" + body
}

// encodeComponent percent-encodes s the way browsers encode a URI component.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Launcher opens a URL with the desktop's handler for it.
type Launcher func(ctx context.Context, link string) error

// SystemLauncher returns the URL launcher for goos. An empty goos means the
// running system.
func SystemLauncher(goos string) Launcher {
	if goos == "" {
		goos = runtime.GOOS
	}
	return func(ctx context.Context, link string) error {
		var cmd *exec.Cmd
		switch goos {
		case "darwin", "ios":
			cmd = exec.CommandContext(ctx, "open", link)
		case "windows":
			cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", link)
		default:
			cmd = exec.CommandContext(ctx, "xdg-open", link)
		}
		return cmd.Run()
	}
}

// DeepLink opens chat and SMS deep links on the local machine.
type DeepLink struct {
	launch Launcher
	logger *zap.Logger
}

// NewDeepLink creates a deep link opener.
func NewDeepLink(launch Launcher, logger *zap.Logger) *DeepLink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeepLink{launch: launch, logger: logger}
}

// Open launches the deep link for addr.
func (d *DeepLink) Open(ctx context.Context, kind Kind, addr, text string) {
	link := Link(kind, addr, text)
	if err := d.launch(ctx, link); err != nil {
		d.logger.Warn("failed to open deep link", zap.String("kind", string(kind)), zap.String("addr", addr), zap.Error(err))
		return
	}
	d.logger.Debug("deep link opened", zap.String("kind", string(kind)), zap.String("addr", addr))
}
