package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "jira-reports"

// Keys understood by the toolkit. Tokens stored under these keys are
// used when config.ini leaves the corresponding value blank.
const (
	KeyJiraAPIToken  = "jira_api_token"
	KeyTempoAPIToken = "tempo_api_token"
)

// ringConfig is swapped out by tests to point at a temporary file store.
var ringConfig = keyring.Config{
	ServiceName: serviceName,
	AllowedBackends: []keyring.BackendType{
		keyring.KeychainBackend,
		keyring.SecretServiceBackend,
		keyring.WinCredBackend,
		keyring.PassBackend,
		keyring.FileBackend,
	},
	FileDir:                  "~/.config/jira-reports/credentials",
	FilePasswordFunc:         keyring.FixedStringPrompt("jira-reports-file-key"),
	KeychainTrustApplication: true,
}

// KnownKey reports whether key is one of the credential keys the
// toolkit manages.
func KnownKey(key string) bool {
	return key == KeyJiraAPIToken || key == KeyTempoAPIToken
}

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(ringConfig)
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}
