package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, password, name, role, created_at`

// List devuelve todos los usuarios.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, wrap("users.List", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Identifier, &u.Secret, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, wrap("users.List", err)
		}
		list = append(list, &u)
	}
	return list, wrap("users.List", rows.Err())
}

// GetByIdentifier obtiene un usuario por username; (nil, nil) si no existe.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	var u entity.User
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, identifier).Scan(
		&u.ID, &u.Identifier, &u.Secret, &u.Name, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("users.GetByIdentifier", err)
	}
	return &u, nil
}

// Create persiste un nuevo usuario. La restricción UNIQUE resuelve la carrera entre altas.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, username, password, name, role, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Identifier, user.Secret, user.Name, user.Role, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateIdentifier
		}
		return wrap("users.Create", err)
	}
	return nil
}

// UpdateSecret reemplaza la contraseña almacenada.
func (r *UserRepo) UpdateSecret(ctx context.Context, identifier, secret string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password = $2 WHERE username = $1`, identifier, secret)
	if err != nil {
		return wrap("users.UpdateSecret", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
