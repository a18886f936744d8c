package domain

import (
	"strings"
	"time"
)

// AccountStatus marks whether a service account is in use.
type AccountStatus string

const (
	AccountActive   AccountStatus = "Active"
	AccountInactive AccountStatus = "Inactive"
)

// DefaultProfilePIN is used when a profile is submitted without a PIN.
const DefaultProfilePIN = "0000"

// Toggled returns the opposite status.
func (s AccountStatus) Toggled() AccountStatus {
	if s == AccountActive {
		return AccountInactive
	}
	return AccountActive
}

// Profile is a named seat inside a service account.
type Profile struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

// ServiceAccount is a streaming-service login shared through its profiles.
// Password always holds ciphertext produced by the credential vault.
type ServiceAccount struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Password  string        `json:"-"`
	Profiles  []Profile     `json:"profiles"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// FindProfile returns the first profile with the given name.
func (a *ServiceAccount) FindProfile(name string) (*Profile, bool) {
	for i := range a.Profiles {
		if a.Profiles[i].Name == name {
			return &a.Profiles[i], true
		}
	}
	return nil, false
}

// SetProfilePIN changes the PIN of the first profile named name.
func (a *ServiceAccount) SetProfilePIN(name, pin string) error {
	p, ok := a.FindProfile(name)
	if !ok {
		return ErrProfileNotFound
	}
	p.PIN = pin
	return nil
}

// ParseProfiles reads the "Name:PIN" one-per-line format used by the admin
// edit form. Blank lines are skipped and a missing PIN becomes "0000".
func ParseProfiles(text string) []Profile {
	var out []Profile
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, pin, _ := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		pin = strings.TrimSpace(pin)
		if name == "" {
			continue
		}
		if pin == "" {
			pin = DefaultProfilePIN
		}
		out = append(out, Profile{Name: name, PIN: pin})
	}
	return out
}

// ValidPIN reports whether pin is exactly four ASCII digits.
func ValidPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
