// Package session guarda la sesión activa bajo la clave fija vendor_app_session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/visitas-api/internal/application/ports"
	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

var (
	_ ports.SessionStore = (*FileStore)(nil)
	_ ports.SessionStore = (*MemoryStore)(nil)
)

// FileStore persiste la sesión en <dir>/vendor_app_session.json. Sobrevive reinicios del proceso.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore construye el store en el directorio indicado.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, entity.SessionKey+".json")}
}

// Path ruta del archivo de sesión.
func (s *FileStore) Path() string { return s.path }

// Load devuelve (nil, nil) si no hay sesión o el registro no se puede leer como sesión.
func (s *FileStore) Load(_ context.Context) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Unavailable("session.Load", err)
	}
	var sess entity.Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.Identifier == "" {
		return nil, nil
	}
	return &sess, nil
}

// Save escribe la sesión con permisos 0600.
func (s *FileStore) Save(_ context.Context, sess *entity.Session) error {
	if sess == nil {
		return fmt.Errorf("%w: sesión vacía", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return domain.Unavailable("session.Save", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return domain.Unavailable("session.Save", err)
	}
	return nil
}

// Clear borra el registro; no falla si no existe.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.Unavailable("session.Clear", err)
	}
	return nil
}

// MemoryStore sesión en memoria (tests y procesos efímeros).
type MemoryStore struct {
	mu      sync.Mutex
	session *entity.Session
	// LoadErr y ClearErr, si no son nil, los devuelven Load y Clear.
	LoadErr  error
	ClearErr error
}

// NewMemoryStore construye un store vacío.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load(_ context.Context) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.session == nil {
		return nil, nil
	}
	cp := *s.session
	return &cp, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *entity.Session) error {
	if sess == nil {
		return fmt.Errorf("%w: sesión vacía", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.session = &cp
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.session = nil
	return nil
}
