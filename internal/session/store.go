package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"hrhub/internal/model"
)

// Key is the fixed name the session is stored under.
const Key = "hrhub.session"

// ErrCorrupt is returned by Load when the stored document cannot be decoded.
var ErrCorrupt = errors.New("session: stored session is corrupt")

// Store persists one session. Load returns Anonymous when nothing is stored.
type Store interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

type record struct {
	Token string        `json:"token"`
	User  model.Profile `json:"user"`
}

// FileStore keeps the session in a JSON document on disk, readable only by
// the owner. Writes replace the file atomically; concurrent processes
// follow last-writer-wins.
type FileStore struct {
	path string
}

// NewFileStore stores the session in dir/session.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, "session.json")}
}

// DefaultFileStore uses the per-user config directory, e.g. $XDG_CONFIG_HOME/hrhub.
func DefaultFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("session: locate config dir: %w", err)
	}
	return NewFileStore(filepath.Join(dir, "hrhub")), nil
}

// Path returns the session file location.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(ctx context.Context) (Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Anonymous, nil
	}
	if err != nil {
		return Anonymous, fmt.Errorf("session: read %s: %w", f.path, err)
	}

	var doc map[string]record
	if err := json.Unmarshal(data, &doc); err != nil {
		return Anonymous, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	rec, ok := doc[Key]
	if !ok {
		return Anonymous, nil
	}
	if rec.Token != "" && !rec.User.Role.Valid() {
		return Anonymous, fmt.Errorf("%w: unknown role %q", ErrCorrupt, rec.User.Role)
	}
	return New(rec.Token, rec.User), nil
}

func (f *FileStore) Save(ctx context.Context, s Session) error {
	if !s.IsAuthenticated() {
		return f.Clear(ctx)
	}
	profile, _ := s.Profile()
	data, err := json.MarshalIndent(map[string]record{Key: {Token: s.Token(), User: profile}}, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("session: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session: chmod: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("session: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("session: replace %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: remove %s: %w", f.path, err)
	}
	return nil
}

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu sync.Mutex
	s  Session
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(ctx context.Context) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, nil
}

func (m *MemoryStore) Save(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	return m.Save(ctx, Anonymous)
}
