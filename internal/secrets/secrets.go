// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads the API keys scholarbot keeps under .secrets/, one
// key per file. The file name is the key name (semantic-scholar-api-key,
// openrouter-api-key, huggingface-api-key); the trimmed contents are the value.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// maxSecretSize bounds a key file; anything larger is not an API key.
const maxSecretSize = 8 << 10

// Set maps key names to values.
type Set map[string]string

// Names returns the key names in sorted order, for logging without values.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Load reads every regular, non-hidden file in dir. A missing dir yields an
// empty Set. Empty, oversized or unreadable files are skipped with a warning
// and key files readable by group or others are loaded but flagged.
func Load(dir string, logger zerolog.Logger) (Set, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return Set{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := Set{}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		log := logger.With().Str("secret", name).Logger()

		info, err := entry.Info()
		if err != nil {
			log.Warn().Err(err).Msg("could not stat secret")
			continue
		}
		if info.Size() > maxSecretSize {
			log.Warn().Int64("size", info.Size()).Msg("secret file too large, skipping")
			continue
		}
		if info.Mode().Perm()&0o077 != 0 {
			log.Warn().Str("mode", info.Mode().Perm().String()).Msg("secret file is readable by other users")
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Msg("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			set[name] = value
		}
	}
	return set, nil
}
