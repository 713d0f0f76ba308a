package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matheus3301/mandap/internal/channel"
)

// Channel backends a notification can go out through.
const (
	ChannelDeepLink = "deeplink"
	ChannelWhatsApp = "whatsapp"
)

// Config represents the global ~/.mandap/config.toml.
type Config struct {
	DefaultProfile string `toml:"default_profile"`
	CountryCode    string `toml:"country_code"`
	// Platform overrides the GOOS used to pick the group address separator.
	Platform string `toml:"platform,omitempty"`
	LogLevel string `toml:"log_level"`
	Paging   Paging `toml:"paging"`
	Notify   Notify `toml:"notify"`
	Search   Search `toml:"search"`
}

// Paging holds the page size of each listing.
type Paging struct {
	Events     int `toml:"events"`
	Offerings  int `toml:"offerings"`
	Recipients int `toml:"recipients"`
}

// Notify configures bulk notifications.
type Notify struct {
	Interval Duration `toml:"interval"`
	Kind     string   `toml:"kind"`
	Channel  string   `toml:"channel"`
}

// Search configures free-text search.
type Search struct {
	Debounce Duration `toml:"debounce"`
}

// Duration is a time.Duration written as a string such as "500ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultProfile: "default",
		CountryCode:    "91",
		LogLevel:       "info",
		Paging:         Paging{Events: 5, Offerings: 20, Recipients: 50},
		Notify: Notify{
			Interval: Duration{500 * time.Millisecond},
			Kind:     string(channel.SMS),
			Channel:  ChannelDeepLink,
		},
		Search: Search{Debounce: Duration{500 * time.Millisecond}},
	}
}

// Load reads config from the given path over the defaults. Returns error if
// the file is missing, malformed or has unknown keys.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Paging.Events <= 0 || c.Paging.Offerings <= 0 || c.Paging.Recipients <= 0 {
		errs = append(errs, errors.New("paging sizes must be positive"))
	}
	if c.Notify.Interval.Duration < 0 {
		errs = append(errs, errors.New("notify.interval must not be negative"))
	}
	if _, err := channel.ParseKind(c.Notify.Kind); err != nil {
		errs = append(errs, fmt.Errorf("notify.kind: %w", err))
	}
	switch c.Notify.Channel {
	case ChannelDeepLink, ChannelWhatsApp:
	default:
		errs = append(errs, fmt.Errorf("notify.channel %q: want %s or %s", c.Notify.Channel, ChannelDeepLink, ChannelWhatsApp))
	}
	for _, r := range c.CountryCode {
		if r < '0' || r > '9' {
			errs = append(errs, fmt.Errorf("country_code %q must be digits", c.CountryCode))
			break
		}
	}
	return errors.Join(errs...)
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
