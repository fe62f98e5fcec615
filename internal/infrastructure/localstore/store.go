// Package localstore implementa el Record Store sobre un documento JSON único
// (usuarios, clientes y reportes) que se lee y reescribe completo en cada operación.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/domain/repository"
)

// Store serializa el acceso al blob: cada operación es lectura-modificación-escritura del documento.
type Store struct {
	mu      sync.Mutex
	blob    Blob
	initial InitialLoader
}

// InitialLoader produce los datos iniciales; solo se invoca cuando el blob está vacío.
type InitialLoader func() ([]*entity.User, []*entity.Client, error)

// Option configura el Store.
type Option func(*Store)

// WithInitialData define el documento que se escribe la primera vez que el blob está vacío.
func WithInitialData(users []*entity.User, clients []*entity.Client) Option {
	return WithInitialLoader(func() ([]*entity.User, []*entity.Client, error) {
		return users, clients, nil
	})
}

// WithInitialLoader como WithInitialData, pero difiere la preparación de los datos
// (p. ej. el hash de contraseñas) hasta que el blob resulte vacío.
func WithInitialLoader(load InitialLoader) Option {
	return func(s *Store) { s.initial = load }
}

// New construye el Store sobre el blob indicado.
func New(blob Blob, opts ...Option) *Store {
	s := &Store{blob: blob}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend expone los tres repositorios del documento.
func (s *Store) Backend() *repository.Backend {
	return &repository.Backend{
		Name:    "local",
		Users:   &UserRepo{s: s},
		Clients: &ClientRepo{s: s},
		Reports: &ReportRepo{s: s},
	}
}

// view ejecuta fn sobre una instantánea del documento.
func (s *Store) view(ctx context.Context, op string, fn func(doc *document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(ctx, op)
	if err != nil {
		return err
	}
	fn(doc)
	return nil
}

// update carga el documento, aplica fn y lo guarda completo si fn no devolvió error.
func (s *Store) update(ctx context.Context, op string, fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(ctx, op)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(ctx, op, doc)
}

func (s *Store) load(ctx context.Context, op string) (*document, error) {
	data, err := s.blob.Load(ctx)
	if err != nil {
		return nil, domain.Unavailable(op, err)
	}
	if len(data) == 0 {
		doc, err := s.seedDocument()
		if err != nil {
			return nil, fmt.Errorf("%s: datos iniciales: %w", op, err)
		}
		if err := s.save(ctx, op, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: documento local corrupto: %w", op, err)
	}
	return &doc, nil
}

func (s *Store) save(ctx context.Context, op string, doc *document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: serializar documento: %w", op, err)
	}
	if err := s.blob.Save(ctx, data); err != nil {
		return domain.Unavailable(op, err)
	}
	return nil
}

func (s *Store) seedDocument() (*document, error) {
	doc := &document{Users: []userDoc{}, Clients: []clientDoc{}, Reports: []reportDoc{}}
	if s.initial == nil {
		return doc, nil
	}
	users, clients, err := s.initial()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		doc.Users = append(doc.Users, toUserDoc(u))
	}
	for _, c := range clients {
		doc.Clients = append(doc.Clients, toClientDoc(c))
	}
	return doc, nil
}
