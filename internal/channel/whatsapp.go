package channel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	wastore "go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"

	_ "github.com/mattn/go-sqlite3"
)

// ErrPairingTimeout is returned when no QR code was scanned in time.
var ErrPairingTimeout = errors.New("whatsapp pairing timed out")

// textSender is the part of the whatsmeow client used to deliver messages.
type textSender interface {
	SendMessage(ctx context.Context, to types.JID, message *waE2E.Message, extra ...whatsmeow.SendRequestExtra) (whatsmeow.SendResponse, error)
}

// WhatsApp sends notifications straight from a linked WhatsApp device.
type WhatsApp struct {
	client *whatsmeow.Client
	sender textSender
	logger *zap.Logger
	// interval is the wait between sends of one address list.
	interval time.Duration
}

// NewWhatsApp opens the device store at dbPath.
func NewWhatsApp(ctx context.Context, dbPath string, logger *zap.Logger) (*WhatsApp, error) {
	// Device name shown on the phone's linked devices list.
	wastore.SetOSInfo("Mandap", [3]uint32{0, 1, 0})

	container, err := sqlstore.New(ctx, "sqlite3",
		fmt.Sprintf("file:%s?_foreign_keys=on", dbPath),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create device store: %w", err)
	}
	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("get device store: %w", err)
	}
	client := whatsmeow.NewClient(device, nil)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsApp{client: client, sender: client, logger: logger}, nil
}

// SetSendInterval sets the wait between messages when one Open call
// addresses several numbers.
func (w *WhatsApp) SetSendInterval(d time.Duration) { w.interval = d }

// IsLoggedIn reports whether the device has been paired.
func (w *WhatsApp) IsLoggedIn() bool {
	return w.client.Store.ID != nil
}

// Connect connects a paired device.
func (w *WhatsApp) Connect() error {
	if !w.IsLoggedIn() {
		return errors.New("whatsapp device not paired: run pair first")
	}
	w.logger.Info("connecting to WhatsApp")
	return w.client.Connect()
}

// Disconnect closes the connection.
func (w *WhatsApp) Disconnect() {
	w.logger.Info("disconnecting from WhatsApp")
	w.client.Disconnect()
}

// Pair links this device by QR code, writing each code to out until the
// phone scans one.
func (w *WhatsApp) Pair(ctx context.Context, out io.Writer) error {
	if w.IsLoggedIn() {
		return errors.New("already paired")
	}
	// The QR channel must exist before Connect.
	qrChan, err := w.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("get QR channel: %w", err)
	}
	if err := w.client.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	for item := range qrChan {
		switch item.Event {
		case "code":
			_, _ = fmt.Fprintf(out, "\nScan this QR code with WhatsApp:\n\n%s\n", RenderQR(item.Code))
		case "success":
			w.logger.Info("whatsapp device paired")
			return nil
		case "timeout":
			return ErrPairingTimeout
		default:
			if item.Error != nil {
				return fmt.Errorf("pairing failed: %w", item.Error)
			}
		}
	}
	return ctx.Err()
}

// Open sends text to every number in addr, waiting the send interval
// between numbers. Only chat is supported; SMS requests are logged and
// dropped.
func (w *WhatsApp) Open(ctx context.Context, kind Kind, addr, text string) {
	if kind != Chat {
		w.logger.Warn("whatsapp channel cannot send sms", zap.String("addr", addr))
		return
	}
	for i, number := range SplitAddresses(addr) {
		if i > 0 && w.interval > 0 {
			select {
			case <-ctx.Done():
				w.logger.Warn("group send interrupted", zap.Int("sent", i), zap.Error(ctx.Err()))
				return
			case <-time.After(w.interval):
			}
		}
		to := types.NewJID(strings.TrimPrefix(number, "+"), types.DefaultUserServer)
		resp, err := w.sender.SendMessage(ctx, to, &waE2E.Message{
			Conversation: proto.String(text),
		})
		if err != nil {
			w.logger.Error("failed to send message", zap.String("to", to.String()), zap.Error(err))
			continue
		}
		w.logger.Info("message sent", zap.String("to", to.String()), zap.String("server_msg_id", resp.ID))
	}
}
