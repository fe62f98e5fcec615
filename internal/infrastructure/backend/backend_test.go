package backend_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/visitas-api/internal/application/auth"
	"github.com/jhoicas/visitas-api/internal/infrastructure/backend"
	"github.com/jhoicas/visitas-api/pkg/config"
)

func localConfig(t *testing.T, env string) *config.Config {
	t.Helper()
	return &config.Config{
		App:     config.AppConfig{Env: env},
		Storage: config.StorageConfig{Backend: config.BackendLocal, LocalPath: filepath.Join(t.TempDir(), "datos.json")},
	}
}

func TestOpen_LocalDevelopmentCargaDemo(t *testing.T) {
	ctx := context.Background()
	cfg := localConfig(t, "development")
	h, err := auth.NewHasher(auth.ModeBcrypt)
	require.NoError(t, err)

	b, err := backend.Open(ctx, cfg, h, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "local", b.Name)

	users, err := b.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.True(t, h.Matches(users[0].Secret, "123"))

	clients, err := b.Clients.List(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 2)
	assert.FileExists(t, cfg.Storage.LocalPath)
}

// countingHasher cuenta cuántas contraseñas se procesan.
type countingHasher struct{ calls int }

func (h *countingHasher) Hash(secret string) (string, error) {
	h.calls++
	return "h:" + secret, nil
}

func TestOpen_LocalHashSoloConDocumentoVacio(t *testing.T) {
	ctx := context.Background()
	cfg := localConfig(t, "development")
	h := &countingHasher{}

	b, err := backend.Open(ctx, cfg, h, zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, h.calls, "abrir no debe procesar contraseñas")

	_, err = b.Users.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, h.calls)

	// El documento ya existe: un nuevo proceso no vuelve a procesar la semilla.
	again, err := backend.Open(ctx, cfg, h, zerolog.Nop())
	require.NoError(t, err)
	users, err := again.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 2, h.calls)
}

func TestOpen_LocalProduccionVacio(t *testing.T) {
	ctx := context.Background()
	b, err := backend.Open(ctx, localConfig(t, "production"), nil, zerolog.Nop())
	require.NoError(t, err)

	users, err := b.Users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestOpen_SeedPath(t *testing.T) {
	ctx := context.Background()
	cfg := localConfig(t, "production")
	cfg.Storage.SeedPath = filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(cfg.Storage.SeedPath, []byte("clients:\n  - name: Acme\n"), 0o600))

	b, err := backend.Open(ctx, cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	clients, err := b.Clients.List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Nuevo", clients[0].Type)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: config.BackendSQLite, SQLitePath: "file:factory?mode=memory&cache=shared"}}
	b, err := backend.Open(context.Background(), cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	defer b.Shutdown()
	assert.NotNil(t, b.Reports)
}

func TestOpen_Desconocido(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: "redis"}}
	_, err := backend.Open(context.Background(), cfg, nil, zerolog.Nop())
	assert.Error(t, err)
}
