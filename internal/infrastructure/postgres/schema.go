package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          TEXT PRIMARY KEY,
		username    TEXT NOT NULL UNIQUE,
		password    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		role        TEXT NOT NULL CHECK (role IN ('admin', 'vendor')),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		contact     TEXT NOT NULL DEFAULT '',
		phone       TEXT NOT NULL DEFAULT '',
		type        TEXT NOT NULL DEFAULT 'Nuevo',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_clients_name ON clients (name)`,
	`CREATE INDEX IF NOT EXISTS idx_clients_phone ON clients (phone)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id              TEXT PRIMARY KEY,
		asesor          TEXT NOT NULL,
		asesor_id       TEXT NOT NULL DEFAULT '',
		fecha           DATE NOT NULL,
		hora_inicio     TEXT NOT NULL DEFAULT '',
		hora_fin        TEXT NOT NULL DEFAULT '',
		empresa         TEXT NOT NULL,
		nombre_cliente  TEXT NOT NULL,
		contacto        TEXT NOT NULL,
		tipo_cliente    TEXT NOT NULL DEFAULT '',
		tipo_actividad  TEXT NOT NULL DEFAULT 'visita',
		descripcion     TEXT NOT NULL DEFAULT '',
		observaciones   TEXT NOT NULL DEFAULT '',
		monto           NUMERIC(14,2),
		factura         TEXT NOT NULL DEFAULT '',
		cobranza        BOOLEAN NOT NULL DEFAULT false,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at DESC)`,
}

// EnsureSchema crea las tablas si no existen, en una sola transacción.
func EnsureSchema(ctx context.Context, runner *TxRunner) error {
	return runner.Run(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("crear esquema: %w", err)
			}
		}
		return nil
	})
}
