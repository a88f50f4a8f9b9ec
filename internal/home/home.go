// Package home manages the roboql home directory layout.
//
// The home directory owns the client's persistent state: the profile
// config file and the stable client identity.
//
// Layout:
//
//	<root>/
//	  config.yaml   (named profiles, see the config package)
//	  client_id     (stable per-installation identity)
package home

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Dir represents a roboql home directory.
type Dir struct {
	root string
}

// New creates a Dir with an explicit root path.
func New(root string) Dir {
	return Dir{root: root}
}

// Default returns a Dir rooted at ~/.roboql.
func Default() (Dir, error) {
	base, err := os.UserHomeDir()
	if err != nil {
		return Dir{}, fmt.Errorf("determine home directory: %w", err)
	}
	return Dir{root: filepath.Join(base, ".roboql")}, nil
}

// Root returns the home directory path.
func (d Dir) Root() string {
	return d.root
}

// ConfigPath returns the path to the profile config file.
func (d Dir) ConfigPath() string {
	return filepath.Join(d.root, "config.yaml")
}

// EnsureExists creates the home directory (and parents) if it doesn't exist.
func (d Dir) EnsureExists() error {
	if err := os.MkdirAll(d.root, 0o750); err != nil {
		return fmt.Errorf("create home directory %s: %w", d.root, err)
	}
	return nil
}

// ClientID reads the persistent client identity from <root>/client_id.
// If the file doesn't exist, a new UUIDv7 is generated and written.
func (d Dir) ClientID() (string, error) {
	if err := d.EnsureExists(); err != nil {
		return "", err
	}
	return d.readOrCreate("client_id", func() string {
		return uuid.Must(uuid.NewV7()).String()
	})
}

// readOrCreate reads a single-line value from <root>/<filename>.
// If the file doesn't exist, generate() provides the default which is persisted.
func (d Dir) readOrCreate(filename string, generate func() string) (string, error) {
	p := filepath.Join(d.root, filename)
	data, err := os.ReadFile(p)
	if err == nil {
		if v := strings.TrimSpace(string(data)); v != "" {
			return v, nil
		}
	}
	v := generate()
	if err := os.WriteFile(p, []byte(v+"\n"), 0o640); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return v, nil
}
