package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"launchscanner/internal/domain"
	"launchscanner/internal/ports"
)

var (
	// ErrNotFound reports an absent backing file.
	ErrNotFound = errors.New("store file not found")
	// ErrParse reports a backing file that is not a valid JSON array.
	ErrParse = errors.New("store file is not valid JSON")
)

// JSONStore keeps the full launch sequence in one pretty-printed JSON file,
// the single persisted source of truth. Saves rewrite the document wholesale
// via a temp file and rename so a reader never observes a half-written array.
type JSONStore struct {
	loadPath string
	savePath string
}

var _ ports.LaunchStore = (*JSONStore)(nil)

// NewJSONStore binds the store to a file path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{loadPath: path, savePath: path}
}

// NewSplitJSONStore reads from one file and writes to another; used by test
// mode so fixture inputs stay pristine.
func NewSplitJSONStore(in, out string) *JSONStore {
	return &JSONStore{loadPath: in, savePath: out}
}

// Path returns the location saves are written to.
func (s *JSONStore) Path() string {
	return s.savePath
}

// Load reads and decodes the whole record sequence.
func (s *JSONStore) Load() ([]domain.Launch, error) {
	raw, err := os.ReadFile(s.loadPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.loadPath)
		}
		return nil, fmt.Errorf("read %s: %w", s.loadPath, err)
	}

	var launches []domain.Launch
	if err := json.Unmarshal(raw, &launches); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, s.loadPath, err)
	}

	return launches, nil
}

// Save serializes the entire sequence and atomically replaces the file.
func (s *JSONStore) Save(launches []domain.Launch) error {
	raw, err := json.MarshalIndent(launches, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal launches: %w", err)
	}

	dir := filepath.Dir(s.savePath)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.savePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.savePath); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", s.savePath, err)
	}

	return nil
}
