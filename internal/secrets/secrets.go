// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads NCBI credentials from a directory of plain-text files.
// Each regular file is one secret: the filename is the key name and the
// trimmed contents are the value.
//
// Recognised key files: ncbi-api-key, ncbi-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultDir is the credentials directory, relative to the working directory.
const DefaultDir = ".secrets"

const (
	// APIKeyFile holds the E-utilities API key.
	APIKeyFile = "ncbi-api-key"

	// EmailFile holds the contact email sent with every request.
	EmailFile = "ncbi-email"
)

// Set maps secret names to their values.
type Set map[string]string

// APIKey returns the NCBI API key, or "".
func (s Set) APIKey() string { return s[APIKeyFile] }

// Email returns the NCBI contact email, or "".
func (s Set) Email() string { return s[EmailFile] }

// Names returns the loaded secret names in sorted order. Values are never
// listed so callers can log the result.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Load reads every file in dir. A missing directory is not an error and
// yields an empty Set. Dotfiles, subdirectories and empty files are skipped.
// Unreadable files are logged as warnings on log (when non-nil) and skipped.
func Load(dir string, log logrus.FieldLogger) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := make(Set)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if log != nil {
				log.WithField("secret", name).WithError(err).Warn("could not read secret")
			}
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			set[name] = value
		}
	}
	return set, nil
}
