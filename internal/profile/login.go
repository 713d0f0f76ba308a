package profile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matheus3301/mandap/internal/tenant"
)

type savedLogin struct {
	MandapID   string `toml:"mandap_id"`
	MandapName string `toml:"mandap_name"`
	Username   string `toml:"username"`
	Role       string `toml:"role"`
}

// SaveLogin remembers t as the profile's logged-in user.
func SaveLogin(name string, t tenant.Context) error {
	path := LoginPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(savedLogin{
		MandapID:   t.MandapID(),
		MandapName: t.DisplayName(),
		Username:   t.Username(),
		Role:       string(t.Role()),
	})
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// LoadLogin returns the profile's logged-in user, or tenant.ErrNoTenant if
// nobody is logged in.
func LoadLogin(name string) (tenant.Context, error) {
	var s savedLogin
	if _, err := toml.DecodeFile(LoginPath(name), &s); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tenant.Context{}, tenant.ErrNoTenant
		}
		return tenant.Context{}, err
	}
	return tenant.New(s.MandapID, s.MandapName, s.Username, tenant.Role(s.Role))
}

// ClearLogin logs the profile out.
func ClearLogin(name string) error {
	err := os.Remove(LoginPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
