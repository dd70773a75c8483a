// Package testutil provides shared helpers for the CI test suites.
package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RandomString generates a random string of n characters
func RandomString(n int) string {
	bytes := make([]byte, n/2+1)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)[:n]
}

// TempDir creates a temporary directory
type TempDir struct {
	Path string
}

// NewTempDir creates a temp directory
func NewTempDir() (*TempDir, error) {
	path, err := os.MkdirTemp("", "lumedb-test-*")
	if err != nil {
		return nil, err
	}
	return &TempDir{Path: path}, nil
}

// Folder returns a database folder path inside the temp directory.
func (d *TempDir) Folder(name string) string {
	return filepath.Join(d.Path, name)
}

// Cleanup removes the temp directory and all contents
func (d *TempDir) Cleanup() {
	os.RemoveAll(d.Path)
}

// MainPath returns the main file path for a database folder and file name.
func MainPath(folder, file string) string {
	return filepath.Join(folder, file+".json")
}

// BackupPath returns the backup file path for a database folder and file name.
func BackupPath(folder, file string) string {
	return filepath.Join(folder, file+".backup.json")
}

// SeedMain writes raw content to the main file, creating the folder first.
func SeedMain(folder, file, content string) error {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return err
	}
	return os.WriteFile(MainPath(folder, file), []byte(content), 0644)
}

// SeedBackup writes raw content to the backup file, creating the folder first.
func SeedBackup(folder, file, content string) error {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return err
	}
	return os.WriteFile(BackupPath(folder, file), []byte(content), 0644)
}

// CanonicalJSON re-encodes a JSON document with sorted keys so two documents
// can be compared as strings regardless of field order or formatting.
func CanonicalJSON(data []byte) (string, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return "", err
	}
	out, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CanonicalValue encodes any value the same way CanonicalJSON does, for
// comparing in-memory documents against expected structures.
func CanonicalValue(value any) (string, error) {
	out, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return CanonicalJSON(out)
}

// RequireEnv checks if required env vars are set
func RequireEnv(vars ...string) error {
	var missing []string
	for _, v := range vars {
		if os.Getenv(v) == "" {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	return nil
}

// SkipIfMissingEnv returns true if any env var is missing
func SkipIfMissingEnv(vars ...string) bool {
	return RequireEnv(vars...) != nil
}
