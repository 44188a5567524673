package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/scenarioflow/pkg/errors"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

// File stores each scenario as a YAML document at <baseDir>/<userID>/<filename>.
// The documents stay hand-editable; timestamps come from file modification
// times and the ID is "<userID>/<filename>".
type File struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFile creates a file-backed store.
// If baseDir is empty, defaults to ~/.config/scenarioflow/scenarios/
func NewFile(baseDir string) (*File, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "scenarioflow", "scenarios")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &File{baseDir: baseDir}, nil
}

// Path returns the store's base directory.
func (f *File) Path() string { return f.baseDir }

func (f *File) userDir(userID string) string { return filepath.Join(f.baseDir, userID) }

func (f *File) docPath(userID, filename string) string {
	return filepath.Join(f.baseDir, userID, filename)
}

func (f *File) checkKey(userID, filename string) error {
	if err := checkKey(userID, filename); err != nil {
		return err
	}
	return checkUserDir(userID)
}

// checkUserDir rejects user ids that would resolve outside the store root.
func checkUserDir(userID string) error {
	if err := errors.ValidateFilename(userID); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "user id %q cannot be used as a directory name", userID)
	}
	return nil
}

func (f *File) List(ctx context.Context, userID string) ([]scenario.Summary, error) {
	if err := checkUserDir(userID); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.userDir(userID))
	if os.IsNotExist(err) {
		return []scenario.Summary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	out := make([]scenario.Summary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		s, err := f.read(userID, e.Name())
		if err != nil {
			// Skip documents that no longer parse; Get reports them.
			continue
		}
		out = append(out, s.Summarize())
	}
	sortSummaries(out)
	return out, nil
}

func (f *File) Get(ctx context.Context, userID, filename string) (*scenario.Scenario, error) {
	if err := f.checkKey(userID, filename); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.read(userID, filename)
}

func (f *File) read(userID, filename string) (*scenario.Scenario, error) {
	path := f.docPath(userID, filename)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, notFound(filename)
	}
	if err != nil {
		return nil, fmt.Errorf("stat scenario: %w", err)
	}

	s, err := scenario.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s.ID = userID + "/" + filename
	s.UserID = userID
	s.Filename = filename
	s.CreatedAt = info.ModTime().UTC()
	s.UpdatedAt = s.CreatedAt
	return s, nil
}

func (f *File) Create(ctx context.Context, s *scenario.Scenario) error {
	if err := f.checkKey(s.UserID, s.Filename); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.userDir(s.UserID), 0o755); err != nil {
		return fmt.Errorf("create user dir: %w", err)
	}
	path := f.docPath(s.UserID, s.Filename)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if os.IsExist(err) {
		return conflict(s.Filename)
	}
	if err != nil {
		return fmt.Errorf("create scenario file: %w", err)
	}
	file.Close()

	if err := f.write(s); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func (f *File) Update(ctx context.Context, s *scenario.Scenario) error {
	if err := f.checkKey(s.UserID, s.Filename); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := os.Stat(f.docPath(s.UserID, s.Filename)); os.IsNotExist(err) {
		return notFound(s.Filename)
	}
	return f.write(s)
}

// write replaces the document atomically and refreshes s's storage fields.
func (f *File) write(s *scenario.Scenario) error {
	data, err := scenario.Marshal(s)
	if err != nil {
		return err
	}

	path := f.docPath(s.UserID, s.Filename)
	tmp, err := os.CreateTemp(filepath.Dir(path), ".scenario-*")
	if err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write scenario: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write scenario: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}

	s.ID = s.UserID + "/" + s.Filename
	if info, err := os.Stat(path); err == nil {
		s.CreatedAt = info.ModTime().UTC()
		s.UpdatedAt = s.CreatedAt
	}
	return nil
}

func (f *File) Delete(ctx context.Context, userID, filename string) error {
	if err := f.checkKey(userID, filename); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.docPath(userID, filename))
	if os.IsNotExist(err) {
		return notFound(filename)
	}
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	return nil
}

func (f *File) Close() error { return nil }

var _ Store = (*File)(nil)
