package config

import (
	"os"
	"path/filepath"
)

const defaultAPIURL = "http://localhost:8080"

const tokenFileName = ".taller_token"

// APIURL returns the base URL for the workshop API.
// It can be overridden with the TALLER_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("TALLER_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// SaveToken stores the session token in the user's home directory.
func SaveToken(token string) error {
	return os.WriteFile(tokenPath(), []byte(token), 0600)
}

// LoadToken reads the stored session token. Returns "" when none is stored.
func LoadToken() string {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return ""
	}
	return string(data)
}

// ClearToken removes the stored token. Missing file is not an error.
func ClearToken() error {
	err := os.Remove(tokenPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func tokenPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, tokenFileName)
}
