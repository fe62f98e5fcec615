package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

const (
	generatedSecretLength = 12
	secretAlphabet        = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Announcer comunica una sola vez las credenciales del administrador inicial.
type Announcer interface {
	Announce(identifier, secret string)
}

// AnnouncerFunc adapta una función a Announcer.
type AnnouncerFunc func(identifier, secret string)

// Announce implementa Announcer.
func (f AnnouncerFunc) Announce(identifier, secret string) { f(identifier, secret) }

// BootstrapConfig datos del administrador inicial. Secret vacío genera uno aleatorio.
type BootstrapConfig struct {
	Identifier string
	Name       string
	Secret     string
}

// Bootstrap crea el administrador inicial cuando no existe ningún usuario.
// Se ejecuta una sola vez por proceso.
type Bootstrap struct {
	once      sync.Once
	err       error
	created   *entity.User
	users     UserStore
	verifier  *Verifier
	announcer Announcer
	cfg       BootstrapConfig
	log       zerolog.Logger
}

// NewBootstrap construye el hook de arranque.
func NewBootstrap(users UserStore, verifier *Verifier, announcer Announcer, cfg BootstrapConfig, log zerolog.Logger) *Bootstrap {
	if cfg.Identifier == "" {
		cfg.Identifier = "admin"
	}
	if cfg.Name == "" {
		cfg.Name = "Administrador Inicial"
	}
	return &Bootstrap{users: users, verifier: verifier, announcer: announcer, cfg: cfg, log: log}
}

// Run ejecuta el arranque una sola vez; llamadas posteriores devuelven el mismo resultado.
// Devuelve el administrador creado, o nil si ya había usuarios.
func (b *Bootstrap) Run(ctx context.Context) (*entity.User, error) {
	b.once.Do(func() {
		b.created, b.err = b.run(ctx)
	})
	return b.created, b.err
}

func (b *Bootstrap) run(ctx context.Context) (*entity.User, error) {
	existing, err := b.users.ListUsers(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("no se pudo verificar si existen usuarios; se omite el administrador inicial")
		return nil, nil
	}
	if len(existing) > 0 {
		return nil, nil
	}

	secret := b.cfg.Secret
	if secret == "" {
		secret, err = generateSecret(generatedSecretLength)
		if err != nil {
			return nil, err
		}
	}
	admin, err := b.verifier.Provision(ctx, &entity.User{
		Identifier: b.cfg.Identifier,
		Name:       b.cfg.Name,
		Role:       entity.RoleAdmin,
	}, secret)
	if errors.Is(err, domain.ErrDuplicateIdentifier) {
		// Otra instancia lo creó primero.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b.log.Info().Str("usuario", admin.Identifier).Msg("administrador inicial creado")
	if b.announcer != nil {
		b.announcer.Announce(admin.Identifier, secret)
	}
	return admin, nil
}

func generateSecret(n int) (string, error) {
	max := big.NewInt(int64(len(secretAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = secretAlphabet[idx.Int64()]
	}
	return string(out), nil
}
