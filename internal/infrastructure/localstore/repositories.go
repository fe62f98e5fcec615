package localstore

import (
	"context"

	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/domain/repository"
)

var (
	_ repository.UserRepository   = (*UserRepo)(nil)
	_ repository.ClientRepository = (*ClientRepo)(nil)
	_ repository.ReportRepository = (*ReportRepo)(nil)
)

// UserRepo colección de usuarios dentro del documento local.
type UserRepo struct{ s *Store }

// List devuelve todos los usuarios.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	var out []*entity.User
	err := r.s.view(ctx, "list users", func(doc *document) {
		out = make([]*entity.User, 0, len(doc.Users))
		for _, u := range doc.Users {
			out = append(out, u.entity())
		}
	})
	return out, err
}

// GetByIdentifier busca por identificador exacto.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	var found *entity.User
	err := r.s.view(ctx, "get user", func(doc *document) {
		for _, u := range doc.Users {
			if u.Username == identifier {
				found = u.entity()
				return
			}
		}
	})
	return found, err
}

// Create agrega el usuario; rechaza identificadores repetidos.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.s.update(ctx, "insert user", func(doc *document) error {
		for _, u := range doc.Users {
			if u.Username == user.Identifier {
				return domain.ErrDuplicateIdentifier
			}
		}
		doc.Users = append(doc.Users, toUserDoc(user))
		return nil
	})
}

// UpdateSecret reemplaza la contraseña almacenada.
func (r *UserRepo) UpdateSecret(ctx context.Context, identifier, secret string) error {
	return r.s.update(ctx, "update secret", func(doc *document) error {
		for i := range doc.Users {
			if doc.Users[i].Username == identifier {
				doc.Users[i].Password = secret
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// ClientRepo colección de clientes dentro del documento local.
type ClientRepo struct{ s *Store }

// List devuelve todos los clientes.
func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	var out []*entity.Client
	err := r.s.view(ctx, "list clients", func(doc *document) {
		out = make([]*entity.Client, 0, len(doc.Clients))
		for _, c := range doc.Clients {
			out = append(out, c.entity())
		}
	})
	return out, err
}

// GetByName busca por nombre de empresa exacto.
func (r *ClientRepo) GetByName(ctx context.Context, name string) (*entity.Client, error) {
	return r.find(ctx, "get client by name", func(c clientDoc) bool { return c.Name == name })
}

// GetByPhone busca por teléfono exacto.
func (r *ClientRepo) GetByPhone(ctx context.Context, phone string) (*entity.Client, error) {
	return r.find(ctx, "get client by phone", func(c clientDoc) bool { return c.Phone == phone })
}

func (r *ClientRepo) find(ctx context.Context, op string, match func(clientDoc) bool) (*entity.Client, error) {
	var found *entity.Client
	err := r.s.view(ctx, op, func(doc *document) {
		for _, c := range doc.Clients {
			if match(c) {
				found = c.entity()
				return
			}
		}
	})
	return found, err
}

// Create agrega el cliente sin validaciones de unicidad (las aplica el servicio).
func (r *ClientRepo) Create(ctx context.Context, client *entity.Client) error {
	return r.s.update(ctx, "insert client", func(doc *document) error {
		doc.Clients = append(doc.Clients, toClientDoc(client))
		return nil
	})
}

// ReportRepo colección de reportes dentro del documento local.
type ReportRepo struct{ s *Store }

// List devuelve los reportes en orden de inserción.
func (r *ReportRepo) List(ctx context.Context) ([]*entity.Report, error) {
	var out []*entity.Report
	err := r.s.view(ctx, "list reports", func(doc *document) {
		out = make([]*entity.Report, 0, len(doc.Reports))
		for _, rep := range doc.Reports {
			out = append(out, rep.entity())
		}
	})
	return out, err
}

// Create agrega el reporte.
func (r *ReportRepo) Create(ctx context.Context, report *entity.Report) error {
	return r.s.update(ctx, "insert report", func(doc *document) error {
		doc.Reports = append(doc.Reports, toReportDoc(report))
		return nil
	})
}
