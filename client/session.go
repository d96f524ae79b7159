package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"report2resolve-be/models"
)

// SessionKey names the persisted session record.
const SessionKey = "user"

// SessionStore holds the signed-in principal between runs.
type SessionStore interface {
	Load() (*models.Principal, error)
	Save(p *models.Principal) error
	Clear() error
}

// MemorySession keeps the principal for the life of the process.
type MemorySession struct {
	mu sync.Mutex
	p  *models.Principal
}

func (s *MemorySession) Load() (*models.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.p == nil {
		return nil, nil
	}
	cp := *s.p
	return &cp, nil
}

func (s *MemorySession) Save(p *models.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.p = nil
		return nil
	}
	cp := *p
	s.p = &cp
	return nil
}

func (s *MemorySession) Clear() error {
	return s.Save(nil)
}

type storedUser struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Role         models.Role `json:"role"`
	DepartmentID string      `json:"department_id,omitempty"`
	Token        string      `json:"token,omitempty"`
}

// FileSession persists the principal as JSON in dir/user.json. The token
// issued at login is kept alongside it so a later run can resume.
type FileSession struct {
	dir string
	mu  sync.Mutex
}

func NewFileSession(dir string) *FileSession {
	return &FileSession{dir: dir}
}

func (s *FileSession) path() string {
	return filepath.Join(s.dir, SessionKey+".json")
}

func (s *FileSession) read() (*storedUser, error) {
	raw, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read session")
	}
	var u storedUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	return &u, nil
}

func (s *FileSession) write(u *storedUser) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return errors.Wrap(err, "create session dir")
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.Wrap(err, "write session")
	}
	return errors.Wrap(os.Rename(tmp, s.path()), "write session")
}

// Load returns nil when nothing is stored. A record that cannot be decoded
// is reported as an error and never yields a principal.
func (s *FileSession) Load() (*models.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.read()
	if err != nil || u == nil {
		return nil, err
	}
	return &models.Principal{ID: u.ID, Name: u.Name, Role: u.Role, DepartmentID: u.DepartmentID}, nil
}

func (s *FileSession) Save(p *models.Principal) error {
	if p == nil {
		return s.Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Keep a token saved by an earlier SaveToken for the same principal.
	prev, _ := s.read()
	u := &storedUser{ID: p.ID, Name: p.Name, Role: p.Role, DepartmentID: p.DepartmentID}
	if prev != nil && prev.ID == p.ID {
		u.Token = prev.Token
	}
	return s.write(u)
}

// Token returns the stored bearer token, if any.
func (s *FileSession) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.read()
	if err != nil || u == nil {
		return "", err
	}
	return u.Token, nil
}

// SaveToken attaches token to the stored principal.
func (s *FileSession) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.read()
	if err != nil {
		return err
	}
	if u == nil {
		return errors.New("no session to attach token to")
	}
	u.Token = token
	return s.write(u)
}

func (s *FileSession) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "clear session")
	}
	return nil
}

// tokenKeeper is implemented by stores that can persist the bearer token.
type tokenKeeper interface {
	Token() (string, error)
	SaveToken(token string) error
}
