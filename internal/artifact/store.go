// Package artifact persists compiled contract code on disk.
//
// One artifact per contract, named <Contract>.compiled.json, holding the
// serialized code container (BOC) as a hex string. The file is replaced
// atomically so a reader never observes a partially written artifact.
package artifact

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const fileSuffix = ".compiled.json"

// ErrNotFound is returned when no artifact exists for the requested contract.
var ErrNotFound = errors.New("artifact not found")

type compiledFile struct {
	Hex string `json:"hex"`
}

// Store reads and writes compiled-code artifacts keyed by contract name.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the location of the artifact for the given contract.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+fileSuffix)
}

// Exists reports whether an artifact is present for the given contract.
func (s *Store) Exists(name string) (bool, error) {
	if _, err := os.Stat(s.Path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Write persists the code BOC for the given contract, replacing any previous
// artifact atomically.
func (s *Store) Write(name string, code []byte) error {
	if len(code) == 0 {
		return fmt.Errorf("refusing to write empty artifact for %q", name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	data, err := json.Marshal(compiledFile{Hex: hex.EncodeToString(code)})
	if err != nil {
		return fmt.Errorf("failed to encode artifact for %q: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary artifact: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write artifact for %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close artifact for %q: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace artifact for %q: %w", name, err)
	}
	return nil
}

// Read loads the code BOC persisted for the given contract.
func (s *Store) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read artifact for %q: %w", name, err)
	}

	var file compiledFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode artifact for %q: %w", name, err)
	}
	code, err := hex.DecodeString(file.Hex)
	if err != nil {
		return nil, fmt.Errorf("artifact for %q holds invalid hex: %w", name, err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("artifact for %q is empty", name)
	}
	return code, nil
}

// Remove deletes the artifact for the given contract if one exists.
func (s *Store) Remove(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove stale artifact for %q: %w", name, err)
	}
	return nil
}
