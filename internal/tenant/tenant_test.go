package tenant

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		mandapID string
		role     Role
		wantRole Role
		wantErr  bool
	}{
		{"admin", "m1", Admin, Admin, false},
		{"staff", "m1", Staff, Staff, false},
		{"empty role defaults to staff", "m1", "", Staff, false},
		{"unknown role", "m1", "owner", "", true},
		{"missing mandap", "", Admin, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.mandapID, "Ganesh Mandap", "ravi", tt.role)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.Role() != tt.wantRole {
				t.Errorf("Role() = %q, want %q", c.Role(), tt.wantRole)
			}
		})
	}
}

func TestNewMissingMandapIsErrNoTenant(t *testing.T) {
	_, err := New("", "", "", Admin)
	if !errors.Is(err, ErrNoTenant) {
		t.Errorf("error = %v, want ErrNoTenant", err)
	}
}

func TestZeroContextInvalid(t *testing.T) {
	var c Context
	if c.Valid() {
		t.Error("zero Context should not be valid")
	}
	if c.IsAdmin() {
		t.Error("zero Context should not be admin")
	}
}
