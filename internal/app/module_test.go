package app

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.uber.org/fx"

	"github.com/matheus3301/mandap/internal/channel"
	"github.com/matheus3301/mandap/internal/config"
	"github.com/matheus3301/mandap/internal/ledger"
	"github.com/matheus3301/mandap/internal/lock"
	"github.com/matheus3301/mandap/internal/profile"
	"github.com/matheus3301/mandap/internal/status"
	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tenant"
)

type deps struct {
	ws       *Workspace
	accounts *ledger.Accounts
	ledger   *ledger.Ledger
}

func start(t *testing.T, p Params) deps {
	t.Helper()
	var d deps
	a := fx.New(
		Module(p),
		fx.NopLogger,
		fx.Populate(&d.ws, &d.accounts, &d.ledger),
	)
	if err := a.Err(); err != nil {
		t.Fatalf("fx.New: %v", err)
	}
	ctx := context.Background()
	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = a.Stop(ctx) })
	return d
}

func TestWorkspaceLifecycle(t *testing.T) {
	t.Setenv(profile.HomeEnv, t.TempDir())
	cfg := config.Default()
	cfg.Paging.Offerings = 2
	d := start(t, Params{Profile: "test", Config: cfg})

	if _, err := d.ws.Tenant(); !errors.Is(err, tenant.ErrNoTenant) {
		t.Fatalf("Tenant before sign in = %v, want ErrNoTenant", err)
	}
	tc, err := d.accounts.Register(ledger.RegisterForm{
		MandapName: "Sri Ganesh Mandap", Username: "ravi", Password: "secret", ConfirmPassword: "secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.ws.SignIn(tc); err != nil {
		t.Fatal(err)
	}
	got, err := d.ws.Tenant()
	if err != nil {
		t.Fatal(err)
	}
	if got != tc {
		t.Errorf("Tenant = %+v, want %+v", got, tc)
	}

	for _, name := range []string{"Lakshmi", "Ganesh", "Lalitha"} {
		if _, err := d.ledger.RecordOffering(tc, ledger.OfferingForm{
			Name: name, Gothram: "Kashyapa", Phone: "9000000001", Address: "12 Temple Road", Rupees: 101,
		}); err != nil {
			t.Fatal(err)
		}
	}

	pager := d.ws.Offerings(tc)
	ctx := context.Background()
	for !pager.Done() {
		if _, err := pager.LoadMore(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(pager.Items()); n != 3 {
		t.Errorf("offerings = %d, want 3", n)
	}

	pager.Search("La")
	if _, err := pager.LoadMore(ctx); err != nil {
		t.Fatal(err)
	}
	for _, c := range pager.Items() {
		if c.Name != "Lakshmi" && c.Name != "Lalitha" {
			t.Errorf("search returned %q", c.Name)
		}
	}

	ev, err := d.ledger.AddEvent(tc, ledger.EventForm{Title: "Ganesh Puja", Date: "2026-09-07"})
	if err != nil {
		t.Fatal(err)
	}
	job, err := d.ws.Dispatcher(tc).Prepare(ctx, *ev)
	if err != nil {
		t.Fatal(err)
	}
	if job.Total() != 1 {
		t.Errorf("recipients = %v, want one deduplicated phone", job.Recipients())
	}
	if job.State() != status.Ready {
		t.Errorf("job state = %s, want READY", job.State())
	}

	if err := d.ws.SignOut(); err != nil {
		t.Fatal(err)
	}
	if _, err := d.ws.Tenant(); !errors.Is(err, tenant.ErrNoTenant) {
		t.Errorf("Tenant after sign out = %v, want ErrNoTenant", err)
	}
}

func TestDeepLinkMessenger(t *testing.T) {
	t.Setenv(profile.HomeEnv, t.TempDir())
	d := start(t, Params{Profile: "test", Config: config.Default()})

	m := d.ws.Messenger()
	if m.WhatsApp != nil {
		t.Error("whatsapp opened for deeplink channel")
	}
	if m.Kind != channel.SMS {
		t.Errorf("kind = %s, want sms", m.Kind)
	}
	if _, err := os.Stat(profile.LockPath("test")); !os.IsNotExist(err) {
		t.Errorf("lock taken without whatsapp: %v", err)
	}
}

func TestWhatsAppMessengerHoldsLock(t *testing.T) {
	t.Setenv(profile.HomeEnv, t.TempDir())
	cfg := config.Default()
	cfg.Notify.Channel = config.ChannelWhatsApp
	d := start(t, Params{Profile: "test", Config: cfg})

	m := d.ws.Messenger()
	if m.WhatsApp == nil {
		t.Fatal("whatsapp not opened")
	}
	if m.Kind != channel.Chat {
		t.Errorf("kind = %s, want chat", m.Kind)
	}

	_, err := lock.Acquire(profile.LockPath("test"), "test")
	var held *lock.LockHeldError
	if !errors.As(err, &held) {
		t.Errorf("second Acquire = %v, want LockHeldError", err)
	}
}

func TestStoreIsMigrated(t *testing.T) {
	t.Setenv(profile.HomeEnv, t.TempDir())
	var db *store.DB
	a := fx.New(Module(Params{Profile: "test"}), fx.NopLogger, fx.Populate(&db))
	if err := a.Err(); err != nil {
		t.Fatal(err)
	}
	if _, err := db.GetEvent("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetEvent = %v, want ErrNotFound", err)
	}
	_ = db.Close()
}
