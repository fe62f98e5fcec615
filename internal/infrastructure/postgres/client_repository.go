package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación del puerto ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	db Querier
}

// NewClientRepository construye el adaptador de persistencia para clientes.
func NewClientRepository(db Querier) *ClientRepo {
	return &ClientRepo{db: db}
}

const clientColumns = `id, name, contact, phone, type, created_at`

// List devuelve todos los clientes.
func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	rows, err := r.db.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, wrap("clients.List", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Contact, &c.Phone, &c.Type, &c.CreatedAt); err != nil {
			return nil, wrap("clients.List", err)
		}
		list = append(list, &c)
	}
	return list, wrap("clients.List", rows.Err())
}

// GetByName busca por nombre de empresa exacto.
func (r *ClientRepo) GetByName(ctx context.Context, name string) (*entity.Client, error) {
	return r.findOne(ctx, "clients.GetByName", `SELECT `+clientColumns+` FROM clients WHERE name = $1 LIMIT 1`, name)
}

// GetByPhone busca por teléfono exacto.
func (r *ClientRepo) GetByPhone(ctx context.Context, phone string) (*entity.Client, error) {
	return r.findOne(ctx, "clients.GetByPhone", `SELECT `+clientColumns+` FROM clients WHERE phone = $1 LIMIT 1`, phone)
}

func (r *ClientRepo) findOne(ctx context.Context, op, query string, arg string) (*entity.Client, error) {
	var c entity.Client
	err := r.db.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Contact, &c.Phone, &c.Type, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO clients (id, name, contact, phone, type, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Contact, c.Phone, c.Type, c.CreatedAt,
	)
	return wrap("clients.Create", err)
}
