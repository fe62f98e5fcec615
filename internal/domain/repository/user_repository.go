package repository

import (
	"context"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// GetByIdentifier devuelve (nil, nil) cuando no existe.
type UserRepository interface {
	List(ctx context.Context) ([]*entity.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	// UpdateSecret devuelve domain.ErrNotFound si ningún usuario tiene ese identificador.
	UpdateSecret(ctx context.Context, identifier, secret string) error
}
