package app_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/visitas-api/internal/app"
	"github.com/jhoicas/visitas-api/internal/application/auth"
	"github.com/jhoicas/visitas-api/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		App:     config.AppConfig{Env: "production"},
		Storage: config.StorageConfig{Backend: config.BackendLocal, LocalPath: filepath.Join(dir, "datos.json")},
		Auth: config.AuthConfig{
			Mode:                config.AuthModeSHA256,
			AllowInviteClaim:    true,
			BootstrapIdentifier: "admin",
			BootstrapName:       "Administrador Inicial",
		},
		Export: config.ExportConfig{Encoding: "utf-8", Archive: "local", ArchiveDir: filepath.Join(dir, "exports")},
	}
}

func TestBuild_BootstrapAnunciaUnaVez(t *testing.T) {
	ctx := context.Background()
	var announced []string
	announcer := auth.AnnouncerFunc(func(identifier, secret string) {
		announced = append(announced, identifier, secret)
	})

	c, err := app.Build(ctx, testConfig(t), announcer, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	admin, err := c.Bootstrap.Run(ctx)
	require.NoError(t, err)
	require.NotNil(t, admin)
	require.Len(t, announced, 2)
	assert.Equal(t, "admin", announced[0])
	assert.Len(t, announced[1], 12)

	_, err = c.Bootstrap.Run(ctx)
	require.NoError(t, err)
	assert.Len(t, announced, 2)

	u, err := c.Verifier.Authenticate(ctx, "admin", announced[1])
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)
}

func TestBuild_ModoDesconocido(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Mode = "ldap"
	_, err := app.Build(context.Background(), cfg, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestConsoleAnnouncer_Imprime(t *testing.T) {
	var buf bytes.Buffer
	app.ConsoleAnnouncer(&buf).Announce("admin", "s3cr3t")
	assert.Contains(t, buf.String(), "usuario:    admin")
	assert.Contains(t, buf.String(), "contraseña: s3cr3t")
}
