package secret

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// SecretStore holds credentials referenced by name from the configuration,
// such as the password of a network storage backend.
type SecretStore interface {
	// Set stores a secret value under the given key.
	Set(key string, value []byte) error

	// Get retrieves the secret value for the given key.
	// Returns empty slice and nil error if key does not exist.
	Get(key string) ([]byte, error)

	// Delete removes the secret for the given key.
	Delete(key string) error
}

// Default returns the Keychain on macOS and the environment elsewhere.
func Default() SecretStore {
	if runtime.GOOS == "darwin" {
		return NewKeychainStore()
	}
	return EnvStore{}
}

// Resolve looks up key in store and fails when it is absent.
func Resolve(store SecretStore, key string) (string, error) {
	v, err := store.Get(key)
	if err != nil {
		return "", fmt.Errorf("read secret %q: %w", key, err)
	}
	if len(v) == 0 {
		return "", fmt.Errorf("secret %q not found", key)
	}
	return string(v), nil
}

// EnvStore reads secrets from PAGEBUILDER_SECRET_<KEY> variables.
type EnvStore struct{}

// EnvName maps key to its environment variable name.
func EnvName(key string) string {
	up := strings.ToUpper(key)
	up = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, up)
	return "PAGEBUILDER_SECRET_" + up
}

func (EnvStore) Set(key string, value []byte) error {
	return os.Setenv(EnvName(key), string(value))
}

func (EnvStore) Get(key string) ([]byte, error) {
	v, ok := os.LookupEnv(EnvName(key))
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

func (EnvStore) Delete(key string) error {
	return os.Unsetenv(EnvName(key))
}
