package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/keyring"
	"github.com/julianstephens/stridelog/internal/storage/postgres"
)

// KeyringSetCmd stores the database connection string, or with --api-key
// the intervals.icu API key, in the OS keyring
type KeyringSetCmd struct {
	Value  string `arg:"" help:"PostgreSQL connection string, or the API key with --api-key."`
	APIKey bool   `help:"Store the intervals.icu API key instead." name:"api-key"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if cmd.APIKey {
		if strings.TrimSpace(cmd.Value) == "" {
			return errors.New("API key cannot be empty")
		}
		if err := keyring.SetAPIKey(strings.TrimSpace(cmd.Value)); err != nil {
			return err
		}
		fmt.Println("✓ API key stored successfully in OS keyring")
		return nil
	}

	if !postgres.IsConnString(cmd.Value) && !strings.Contains(cmd.Value, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if err := postgres.ValidateConnString(cmd.Value); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// the keyring is encrypted, so a password is acceptable here
		fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.Value); err != nil {
		return err
	}

	fmt.Println("✓ Connection string stored successfully in OS keyring")
	fmt.Printf("  You can now use %s without the --config flag\n", constants.AppName)
	return nil
}

type KeyringGetCmd struct {
	APIKey bool `help:"Show the intervals.icu API key (masked) instead." name:"api-key"`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	secret := keyring.ConnectionString
	if cmd.APIKey {
		secret = keyring.APIKey
	}
	value, err := keyring.Get(secret)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use '%s keyring set' to store one", secret.Label, constants.AppName)
		}
		return fmt.Errorf("failed to retrieve %s from keyring: %w", secret.Label, err)
	}

	fmt.Printf("%s retrieved from keyring:\n", strings.ToUpper(secret.Label[:1])+secret.Label[1:])
	if cmd.APIKey {
		fmt.Println(maskKey(value))
	} else {
		fmt.Println(maskPassword(value))
	}
	return nil
}

type KeyringDeleteCmd struct {
	APIKey bool `help:"Delete the intervals.icu API key instead." name:"api-key"`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	secret := keyring.ConnectionString
	if cmd.APIKey {
		secret = keyring.APIKey
	}
	if err := keyring.Delete(secret); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", secret.Label)
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", secret.Label, err)
	}

	fmt.Printf("✓ Deleted %s from OS keyring\n", secret.Label)
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println("✓ OS keyring is available")

	for _, s := range []keyring.Secret{keyring.ConnectionString, keyring.APIKey} {
		if _, err := keyring.Get(s); err == nil {
			fmt.Printf("✓ %s is stored in keyring\n", s.Label)
		} else if errors.Is(err, keyring.ErrNotFound) {
			fmt.Printf("ℹ No %s stored in keyring\n", s.Label)
		}
	}
	return nil
}

// maskKey keeps only the last four characters of an API key
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// maskPassword hides the password of a connection string
func maskPassword(connStr string) string {
	if postgres.IsConnString(connStr) {
		idx := strings.Index(connStr, "://")
		rest := connStr[idx+3:]
		if at := strings.LastIndex(rest, "@"); at != -1 {
			userInfo := rest[:at]
			if colon := strings.Index(userInfo, ":"); colon != -1 {
				return connStr[:idx+3] + userInfo[:colon] + ":****" + rest[at:]
			}
		}
		return connStr
	}

	parts := strings.Fields(connStr)
	for i, part := range parts {
		if strings.HasPrefix(strings.ToLower(part), "password=") {
			parts[i] = "password=****"
		}
	}
	return strings.Join(parts, " ")
}
