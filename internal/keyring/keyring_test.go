package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGet(t *testing.T) {
	tests := []struct {
		name   string
		secret Secret
		value  string
	}{
		{"connection string", ConnectionString, "postgres://testuser@localhost:5432/testdb?sslmode=disable"},
		{"api key", APIKey, "7f3c2a9e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gokeyring.MockInit()

			if err := Set(tt.secret, tt.value); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			got, err := Get(tt.secret)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if got != tt.value {
				t.Errorf("Get() = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestSecretsAreSeparate(t *testing.T) {
	gokeyring.MockInit()

	if err := SetAPIKey("key"); err != nil {
		t.Fatalf("SetAPIKey() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want ErrNotFound", err)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
	if err := SetAPIKey(""); err == nil {
		t.Error("SetAPIKey(\"\") should return an error")
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := SetAPIKey("key"); err != nil {
		t.Fatalf("SetAPIKey() failed: %v", err)
	}
	if err := DeleteAPIKey(); err != nil {
		t.Fatalf("DeleteAPIKey() failed: %v", err)
	}
	if _, err := GetAPIKey(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAPIKey() after delete error = %v, want ErrNotFound", err)
	}
	if err := DeleteAPIKey(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteAPIKey() error = %v, want ErrNotFound", err)
	}
}

func TestResolveAPIKey(t *testing.T) {
	gokeyring.MockInit()

	key, err := ResolveAPIKey("")
	if err != nil || key != "" {
		t.Errorf("ResolveAPIKey() with nothing stored = %q, %v", key, err)
	}

	if err := SetAPIKey("from-keyring"); err != nil {
		t.Fatalf("SetAPIKey() failed: %v", err)
	}
	if key, _ := ResolveAPIKey(""); key != "from-keyring" {
		t.Errorf("ResolveAPIKey(\"\") = %q, want from-keyring", key)
	}
	if key, _ := ResolveAPIKey("from-env"); key != "from-env" {
		t.Errorf("ResolveAPIKey(from-env) = %q, want from-env", key)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring")
	}
}

func TestUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus not running"))
	defer gokeyring.MockInit()

	if IsAvailable() {
		t.Error("IsAvailable() = true with failing keyring")
	}
	if _, err := GetAPIKey(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetAPIKey() error = %v, want ErrKeyringUnavailable", err)
	}
}
