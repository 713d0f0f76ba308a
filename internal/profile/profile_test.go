package profile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matheus3301/mandap/internal/config"
	"github.com/matheus3301/mandap/internal/tenant"
)

func TestDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	if got, want := Dir("temple"), filepath.Join(home, "profiles", "temple"); got != want {
		t.Errorf("Dir(temple) = %q, want %q", got, want)
	}
	if got := ConfigPath(); got != filepath.Join(home, "config.toml") {
		t.Errorf("ConfigPath() = %q", got)
	}
}

func TestDefaultBaseDir(t *testing.T) {
	t.Setenv(HomeEnv, "")
	if got := BaseDir(); !strings.HasSuffix(got, ".mandap") {
		t.Errorf("BaseDir() = %q, want suffix .mandap", got)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	tests := []struct {
		got    string
		suffix string
	}{
		{LockPath("p"), filepath.Join("profiles", "p", "LOCK")},
		{DBPath("p"), filepath.Join("profiles", "p", "mandap.db")},
		{DeviceDBPath("p"), filepath.Join("profiles", "p", "whatsapp.db")},
		{LoginPath("p"), filepath.Join("profiles", "p", "login.toml")},
		{LogPath("p"), filepath.Join("profiles", "p", "logs", "mandap.log")},
	}
	for _, tt := range tests {
		if !strings.HasSuffix(tt.got, tt.suffix) {
			t.Errorf("%q does not end with %q", tt.got, tt.suffix)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	if err := EnsureDir("temple"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(LogDir("temple"))
	if err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
	if !info.IsDir() || info.Mode().Perm() != 0700 {
		t.Errorf("log dir mode = %v", info.Mode())
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "main", false},
		{"valid with numbers", "mandap2026", false},
		{"valid with hyphen", "ganesh-utsav", false},
		{"valid with underscore", "ganesh_utsav", false},
		{"valid max length", strings.Repeat("a", 64), false},
		{"empty", "", true},
		{"uppercase", "Main", true},
		{"space", "my profile", true},
		{"dot", "my.profile", true},
		{"too long", strings.Repeat("a", 65), true},
		{"slash", "my/profile", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultProfile = "temple"

	tests := []struct {
		name string
		flag string
		cfg  *config.Config
		want string
	}{
		{"flag wins", "other", cfg, "other"},
		{"config default", "", cfg, "temple"},
		{"no config", "", nil, DefaultName},
		{"empty config value", "", &config.Config{}, DefaultName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.flag, tt.cfg); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginRoundTrip(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	if _, err := LoadLogin("temple"); !errors.Is(err, tenant.ErrNoTenant) {
		t.Fatalf("LoadLogin before save err = %v, want ErrNoTenant", err)
	}

	tc, err := tenant.New("m1", "Sri Ganesh Mandap", "ravi", tenant.Admin)
	if err != nil {
		t.Fatal(err)
	}
	if err := SaveLogin("temple", tc); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(LoginPath("temple"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("login file permission = %o, want 0600", perm)
	}

	got, err := LoadLogin("temple")
	if err != nil {
		t.Fatal(err)
	}
	if got != tc {
		t.Errorf("LoadLogin() = %+v, want %+v", got, tc)
	}

	if err := ClearLogin("temple"); err != nil {
		t.Fatal(err)
	}
	if err := ClearLogin("temple"); err != nil {
		t.Errorf("second ClearLogin() error = %v", err)
	}
	if _, err := LoadLogin("temple"); !errors.Is(err, tenant.ErrNoTenant) {
		t.Errorf("LoadLogin after clear err = %v", err)
	}
}
