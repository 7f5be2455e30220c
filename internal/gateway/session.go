package gateway

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/lysokunvoath/grex/internal/models"
	"github.com/pkg/errors"
)

// Session is a signed-in user's tokens.
type Session struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	ExpiresAt    time.Time           `json:"expires_at"`
	User         models.UserResponse `json:"user"`
}

// SessionStore persists the session between runs.
type SessionStore interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

// FileStore keeps the session as JSON in a single file.
type FileStore struct {
	Path string
}

// DefaultSessionPath is grex/session.json under the user config dir.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locate config dir")
	}
	return filepath.Join(dir, "grex", "session.json"), nil
}

// Load returns nil, nil when no session has been saved.
func (f FileStore) Load() (*Session, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read session")
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	return &s, nil
}

func (f FileStore) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return errors.Wrap(err, "create session dir")
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return errors.Wrap(os.WriteFile(f.Path, b, 0o600), "write session")
}

func (f FileStore) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove session")
	}
	return nil
}

// MemoryStore keeps the session in memory only.
type MemoryStore struct {
	session *Session
}

func (m *MemoryStore) Load() (*Session, error) { return m.session, nil }

func (m *MemoryStore) Save(s *Session) error {
	m.session = s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.session = nil
	return nil
}
