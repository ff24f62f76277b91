// Package keyring keeps stridelog secrets in the OS keyring: the intervals.icu
// API key and the PostgreSQL connection string.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/stridelog/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Secret names an entry stored under the stridelog service
type Secret struct {
	User  string
	Label string
}

var (
	ConnectionString = Secret{User: constants.DefaultKeyringUser, Label: "connection string"}
	APIKey           = Secret{User: constants.APIKeyKeyringUser, Label: "intervals API key"}
)

// Get retrieves a secret. Returns ErrNotFound if nothing is stored.
func Get(s Secret) (string, error) {
	v, err := keyring.Get(constants.AppName, s.User)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

// Set stores a secret
func Set(s Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", s.Label)
	}
	if err := keyring.Set(constants.AppName, s.User, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", s.Label, err)
	}
	return nil
}

// Delete removes a secret
func Delete(s Secret) error {
	if err := keyring.Delete(constants.AppName, s.User); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", s.Label, err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string
func GetConnectionString() (string, error) { return Get(ConnectionString) }

// SetConnectionString stores the database connection string
func SetConnectionString(connStr string) error { return Set(ConnectionString, connStr) }

// DeleteConnectionString removes the database connection string
func DeleteConnectionString() error { return Delete(ConnectionString) }

// GetAPIKey retrieves the intervals.icu API key
func GetAPIKey() (string, error) { return Get(APIKey) }

// SetAPIKey stores the intervals.icu API key
func SetAPIKey(key string) error { return Set(APIKey, key) }

// DeleteAPIKey removes the intervals.icu API key
func DeleteAPIKey() error { return Delete(APIKey) }

// ResolveAPIKey prefers the configured key and falls back to the keyring.
// An empty result with a nil error means no key is available anywhere.
func ResolveAPIKey(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	key, err := GetAPIKey()
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return key, err
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
