// Package backend selecciona el adaptador del Record Store según STORAGE_BACKEND.
package backend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/domain/repository"
	"github.com/jhoicas/visitas-api/internal/infrastructure/gormstore"
	"github.com/jhoicas/visitas-api/internal/infrastructure/localstore"
	"github.com/jhoicas/visitas-api/internal/infrastructure/mongostore"
	"github.com/jhoicas/visitas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/visitas-api/internal/infrastructure/seed"
	"github.com/jhoicas/visitas-api/pkg/config"
)

// Open abre el backend configurado. hasher se usa para las contraseñas del documento
// inicial del backend local (nil = las cuentas quedan como invitaciones).
func Open(ctx context.Context, cfg *config.Config, hasher seed.Hasher, log zerolog.Logger) (*repository.Backend, error) {
	var (
		b   *repository.Backend
		err error
	)
	switch cfg.Storage.Backend {
	case config.BackendLocal:
		b, err = openLocal(cfg, hasher)
	case config.BackendPostgres:
		b, err = postgres.Open(ctx, cfg.DB)
	case config.BackendMongo:
		b, err = mongostore.Open(ctx, cfg.Mongo)
	case config.BackendSQLite:
		b, err = gormstore.Open(cfg.Storage.SQLitePath)
	default:
		return nil, fmt.Errorf("backend: STORAGE_BACKEND desconocido %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("backend", b.Name).Msg("almacenamiento listo")
	return b, nil
}

// openLocal usa el documento de SEED_PATH como datos iniciales; en development, sin
// SEED_PATH, carga los datos de demostración. Las contraseñas se procesan solo si el
// documento local todavía no existe.
func openLocal(cfg *config.Config, hasher seed.Hasher) (*repository.Backend, error) {
	var opts []localstore.Option
	doc, err := initialDocument(cfg)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		opts = append(opts, localstore.WithInitialLoader(func() ([]*entity.User, []*entity.Client, error) {
			users, clients, err := doc.Entities(hasher)
			if err != nil {
				return nil, nil, fmt.Errorf("backend: preparar datos iniciales: %w", err)
			}
			return users, clients, nil
		}))
	}
	return localstore.New(localstore.NewFileBlob(cfg.Storage.LocalPath), opts...).Backend(), nil
}

func initialDocument(cfg *config.Config) (*seed.Document, error) {
	if cfg.Storage.SeedPath != "" {
		return seed.Load(cfg.Storage.SeedPath)
	}
	if cfg.App.Env == "development" {
		return seed.Demo(), nil
	}
	return nil, nil
}
