package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyAPIKey is returned when the credential file holds only whitespace.
var ErrEmptyAPIKey = errors.New("API key file is empty")

// CredentialPath returns the per-user API key file for provider, for
// example ~/.tvdb_api_key.
func CredentialPath(provider string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, "."+provider+"_api_key"), nil
}

// ReadAPIKey reads and trims the API key for provider.
func ReadAPIKey(provider string) (string, error) {
	path, err := CredentialPath(provider)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s API key: %w", provider, err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmptyAPIKey)
	}
	return key, nil
}
