// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Known key files: sskey.txt (Semantic Scholar), nasakey.txt (NASA).
package secrets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Credential names a key file and the environment variable consulted when
// the file is absent.
type Credential struct {
	File string
	Env  string
}

var (
	SemanticScholar = Credential{File: "sskey.txt", Env: "SEMANTIC_SCHOLAR_API_KEY"}
	NASA            = Credential{File: "nasakey.txt", Env: "NASA_API_KEY"}
)

// ConfigError reports a required credential that could not be resolved
// from either its key file or its environment variable.
type ConfigError struct {
	Credential Credential
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing credential: no %s key file and %s is not set", e.Credential.File, e.Credential.Env)
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on w but do not abort.
func Load(dir string, w io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadDotenv populates the process environment from the given dotenv files.
// Variables already set are left alone. Missing files are ignored.
func LoadDotenv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Resolve returns the value for c: the key file from loaded wins, then the
// environment variable. When neither yields a value it returns a *ConfigError.
func Resolve(loaded map[string]string, c Credential) (string, error) {
	if v := loaded[c.File]; v != "" {
		return v, nil
	}
	if c.Env != "" {
		if v := strings.TrimSpace(os.Getenv(c.Env)); v != "" {
			return v, nil
		}
	}
	return "", &ConfigError{Credential: c}
}
