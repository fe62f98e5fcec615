package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/visitas-api/internal/application/ports"
	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// UserStore subconjunto del Record Store que usa la autenticación.
type UserStore interface {
	ListUsers(ctx context.Context) ([]*entity.User, error)
	GetUser(ctx context.Context, identifier string) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	UpdateSecret(ctx context.Context, identifier, secret string) error
}

// Options configuración del verificador.
type Options struct {
	Mode             Mode
	AllowInviteClaim bool // una invitación (usuario sin contraseña) se reclama en el primer login
}

// Verifier valida credenciales contra el Record Store o el proveedor de identidad.
type Verifier struct {
	users    UserStore
	provider ports.IdentityProvider
	hasher   Hasher
	opts     Options
	log      zerolog.Logger
}

// NewVerifier construye el verificador. provider solo es obligatorio en ModeProvider.
func NewVerifier(users UserStore, provider ports.IdentityProvider, opts Options, log zerolog.Logger) (*Verifier, error) {
	hasher, err := NewHasher(opts.Mode)
	if err != nil {
		return nil, err
	}
	if opts.Mode == ModeProvider && provider == nil {
		return nil, fmt.Errorf("modo provider requiere un proveedor de identidad")
	}
	return &Verifier{users: users, provider: provider, hasher: hasher, opts: opts, log: log}, nil
}

// Mode devuelve el modo configurado.
func (v *Verifier) Mode() Mode { return v.opts.Mode }

// Authenticate verifica identificador y secreto. Devuelve el perfil del usuario.
// Identificador desconocido y secreto incorrecto producen el mismo ErrInvalidCredentials.
func (v *Verifier) Authenticate(ctx context.Context, identifier, secret string) (*entity.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if v.opts.Mode == ModeProvider {
		return v.authenticateWithProvider(ctx, identifier, secret)
	}

	u, err := v.lookup(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if u.IsInvite() {
		if !v.opts.AllowInviteClaim {
			return nil, domain.ErrInvalidCredentials
		}
		return v.claim(ctx, u, secret)
	}
	if !v.hasher.Matches(u.Secret, secret) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (v *Verifier) authenticateWithProvider(ctx context.Context, identifier, secret string) (*entity.User, error) {
	err := v.provider.SignIn(ctx, identifier, secret)
	switch {
	case err == nil:
		u, err := v.users.GetUser(ctx, identifier)
		if err != nil {
			return nil, err
		}
		return u, nil
	case errors.Is(err, ports.ErrUnknownIdentity), errors.Is(err, domain.ErrInvalidCredentials):
		// Algunos proveedores no distinguen identidad desconocida de contraseña incorrecta:
		// se intenta el alta solo si existe una invitación pendiente.
		invite, lookupErr := v.lookup(ctx, identifier)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if invite == nil || !invite.IsInvite() || !v.opts.AllowInviteClaim {
			return nil, domain.ErrInvalidCredentials
		}
		hash, err := v.hasher.Hash(secret)
		if err != nil {
			return nil, err
		}
		if err := v.provider.SignUp(ctx, identifier, secret); err != nil {
			if errors.Is(err, domain.ErrDuplicateIdentifier) {
				return nil, domain.ErrInvalidCredentials
			}
			return nil, err
		}
		return v.markClaimed(ctx, invite, hash)
	default:
		return nil, err
	}
}

// claim guarda el secreto de una invitación y la convierte en cuenta activa.
func (v *Verifier) claim(ctx context.Context, u *entity.User, secret string) (*entity.User, error) {
	hash, err := v.hasher.Hash(secret)
	if err != nil {
		return nil, err
	}
	return v.markClaimed(ctx, u, hash)
}

func (v *Verifier) markClaimed(ctx context.Context, u *entity.User, hash string) (*entity.User, error) {
	if err := v.users.UpdateSecret(ctx, u.Identifier, hash); err != nil {
		return nil, err
	}
	v.log.Info().Str("usuario", u.Identifier).Msg("invitación reclamada")
	claimed := *u
	claimed.Secret = hash
	return &claimed, nil
}

// lookup devuelve (nil, nil) si el usuario no existe.
func (v *Verifier) lookup(ctx context.Context, identifier string) (*entity.User, error) {
	u, err := v.users.GetUser(ctx, identifier)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

// Provision crea una cuenta. Con secret vacío crea una invitación (sin contraseña).
// En modo provider el perfil se inserta primero como invitación, luego se registra la
// identidad en el proveedor y al final se marca como reclamada: si un paso posterior
// falla queda una invitación que el primer login puede reclamar.
func (v *Verifier) Provision(ctx context.Context, user *entity.User, secret string) (*entity.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidInput
	}
	candidate := *user
	candidate.Secret = ""
	if secret == "" {
		return v.users.CreateUser(ctx, &candidate)
	}
	hash, err := v.hasher.Hash(secret)
	if err != nil {
		return nil, err
	}

	if v.opts.Mode != ModeProvider {
		candidate.Secret = hash
		return v.users.CreateUser(ctx, &candidate)
	}

	invite, err := v.users.CreateUser(ctx, &candidate)
	if err != nil {
		return nil, err
	}
	if err := v.provider.SignUp(ctx, invite.Identifier, secret); err != nil {
		return nil, fmt.Errorf("registrar %s en el proveedor (queda como invitación): %w", invite.Identifier, err)
	}
	if err := v.users.UpdateSecret(ctx, invite.Identifier, hash); err != nil {
		return nil, fmt.Errorf("marcar %s como activo (queda como invitación): %w", invite.Identifier, err)
	}
	created := *invite
	created.Secret = hash
	return &created, nil
}

// ChangeSecret reemplaza la contraseña de una cuenta (acción de administrador).
func (v *Verifier) ChangeSecret(ctx context.Context, identifier, secret string) error {
	if secret == "" {
		return fmt.Errorf("%w: la contraseña es requerida", domain.ErrInvalidInput)
	}
	if v.opts.Mode == ModeProvider {
		return fmt.Errorf("%w: la contraseña se gestiona en el proveedor de identidad", domain.ErrInvalidInput)
	}
	hash, err := v.hasher.Hash(secret)
	if err != nil {
		return err
	}
	return v.users.UpdateSecret(ctx, identifier, hash)
}

// SignOut cierra la sesión en el proveedor, si hay uno. Un fallo solo se registra.
func (v *Verifier) SignOut(ctx context.Context, identifier string) {
	if v.provider == nil || identifier == "" {
		return
	}
	if err := v.provider.SignOut(ctx, identifier); err != nil {
		v.log.Warn().Err(err).Str("usuario", identifier).Msg("no se pudo cerrar la sesión en el proveedor")
	}
}
