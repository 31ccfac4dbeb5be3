package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName = "volunteerhub"
	tokenKey    = "session_token"
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/volunteerhub/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("volunteerhub-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// TokenCache persists the session token in the system keyring. It
// implements session.TokenCache.
type TokenCache struct{}

// NewTokenCache returns a keyring-backed token cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

// Get retrieves the cached session token. A missing entry returns an
// empty token without error.
func (c *TokenCache) Get() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting session token: %w", err)
	}

	return string(item.Data), nil
}

// Set stores the session token.
func (c *TokenCache) Set(token string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  tokenKey,
		Data: []byte(token),
	})
	if err != nil {
		return fmt.Errorf("setting session token: %w", err)
	}

	return nil
}

// Delete removes the cached session token.
func (c *TokenCache) Delete() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(tokenKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting session token: %w", err)
	}

	return nil
}
