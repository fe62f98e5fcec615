package ports

import (
	"context"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// SessionStore almacenamiento local duradero de la sesión activa (clave entity.SessionKey).
// Load devuelve (nil, nil) cuando no hay sesión.
type SessionStore interface {
	Load(ctx context.Context) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	Clear(ctx context.Context) error
}
