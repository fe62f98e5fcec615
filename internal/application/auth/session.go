package auth

import (
	"context"

	"github.com/jhoicas/visitas-api/internal/application/ports"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// SessionManager mantiene la sesión activa en el almacenamiento local duradero.
// Es el único que escribe el registro de sesión.
type SessionManager struct {
	verifier *Verifier
	store    ports.SessionStore
}

// NewSessionManager construye el gestor de sesión.
func NewSessionManager(verifier *Verifier, store ports.SessionStore) *SessionManager {
	return &SessionManager{verifier: verifier, store: store}
}

// Login autentica y persiste la sesión. Si la autenticación falla no se toca la sesión previa.
func (m *SessionManager) Login(ctx context.Context, identifier, secret string) (*entity.Session, error) {
	u, err := m.verifier.Authenticate(ctx, identifier, secret)
	if err != nil {
		return nil, err
	}
	session := entity.NewSession(u)
	if err := m.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CurrentSession lee la sesión persistida sin consultar la red. (nil, nil) si no hay sesión.
func (m *SessionManager) CurrentSession(ctx context.Context) (*entity.Session, error) {
	return m.store.Load(ctx)
}

// Logout borra la sesión local y cierra la del proveedor. Se intentan ambas;
// solo el fallo local se devuelve.
func (m *SessionManager) Logout(ctx context.Context) error {
	current, err := m.store.Load(ctx)
	if err != nil {
		m.verifier.log.Warn().Err(err).Msg("no se pudo leer la sesión; se omite el cierre en el proveedor")
	}
	clearErr := m.store.Clear(ctx)
	if current != nil {
		m.verifier.SignOut(ctx, current.Identifier)
	}
	return clearErr
}
