package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/visitas-api/internal/domain/repository"
	"github.com/jhoicas/visitas-api/pkg/config"
)

// Open conecta, crea el esquema si falta y devuelve el backend.
func Open(ctx context.Context, cfg config.DBConfig) (*repository.Backend, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, NewTxRunner(pool)); err != nil {
		pool.Close()
		return nil, err
	}
	return NewBackend(pool), nil
}

// NewBackend arma los repositorios sobre un pool existente.
func NewBackend(pool *pgxpool.Pool) *repository.Backend {
	return &repository.Backend{
		Name:    "postgres",
		Users:   NewUserRepository(pool),
		Clients: NewClientRepository(pool),
		Reports: NewReportRepository(pool),
		Close: func() error {
			pool.Close()
			return nil
		},
	}
}
