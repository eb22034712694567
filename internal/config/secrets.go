package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService namespaces profile passwords in the OS keyring.
const KeyringService = "snowclient"

// StorePassword saves the password for a profile in the OS keyring.
func StorePassword(profile, password string) error {
	if err := keyring.Set(KeyringService, profile, password); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

// LookupPassword returns the stored password for a profile, or "" if none.
func LookupPassword(profile string) (string, error) {
	pw, err := keyring.Get(KeyringService, profile)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup password: %w", err)
	}
	return pw, nil
}

// DeletePassword removes the stored password for a profile.
// A missing entry is not an error.
func DeletePassword(profile string) error {
	err := keyring.Delete(KeyringService, profile)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete password: %w", err)
	}
	return nil
}

// Resolve returns the profile's client settings, filling the password from
// the keyring when the file does not carry one.
func (p Profile) Resolve() (Profile, error) {
	if p.Password != "" {
		return p, nil
	}
	pw, err := LookupPassword(p.Name)
	if err != nil {
		return p, err
	}
	p.Password = pw
	return p, nil
}
