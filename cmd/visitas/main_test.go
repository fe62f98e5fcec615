package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/visitas-api/internal/domain"
)

// setupEnv apunta la CLI a un backend local temporal con los datos de demostración.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE_BACKEND", "local")
	t.Setenv("LOCAL_DATA_PATH", filepath.Join(dir, "datos.json"))
	t.Setenv("SESSION_DIR", filepath.Join(dir, "sesion"))
	t.Setenv("AUTH_MODE", "plain")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_SesionDuraderaYReportes(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Sin sesión")

	_, err = run(t, "", "login", "-u", "juan", "-p", "mala")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// La contraseña se pide por consola cuando no viene en flags.
	out, err = run(t, "123\n", "login", "-u", "juan")
	require.NoError(t, err)
	assert.Contains(t, out, "Juan Pérez")

	out, err = run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "juan\tJuan Pérez\tvendor")

	out, err = run(t, "", "reports", "create", "--fecha", "2024-05-10", "--empresa", "Tech Solutions", "--monto", "1500,50")
	require.NoError(t, err)
	assert.Contains(t, out, "guardado")

	out, err = run(t, "", "reports", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Carlos Gomez", "el contacto se completa desde el directorio")
	assert.Contains(t, out, "1500.50")
	assert.Contains(t, out, "Total: 1")

	_, err = run(t, "", "users", "list")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err = run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Sesión cerrada")

	_, err = run(t, "", "reports", "list")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCLI_AdminExportaEInvita(t *testing.T) {
	dir := setupEnv(t)

	_, err := run(t, "", "login", "-u", "juan", "-p", "123")
	require.NoError(t, err)
	_, err = run(t, "", "reports", "create", "--fecha", "2024-05-10", "--empresa", "Acme", "--cliente", "Ana", "--telefono", "555")
	require.NoError(t, err)

	_, err = run(t, "", "login", "-u", "admin", "-p", "123")
	require.NoError(t, err)

	out, err := run(t, "", "clients", "search", "ac")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")

	target := filepath.Join(dir, "salida.csv")
	out, err = run(t, "", "reports", "export", "--asesor", "Juan Pérez", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "1 reportes exportados")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Asesor,Fecha,"))

	_, err = run(t, "", "reports", "export", "--empresa", "no-existe", "-o", target)
	assert.ErrorIs(t, err, domain.ErrNoData)

	_, err = run(t, "", "users", "invite", "pedro", "-n", "Pedro")
	require.NoError(t, err)
	out, err = run(t, "", "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "invitado")

	// Primer login de la invitación: elige su contraseña.
	_, err = run(t, "", "login", "-u", "pedro", "-p", "propia")
	require.NoError(t, err)
	out, err = run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "pedro")
}

func TestDescribe_MensajesPorTipoDeFalla(t *testing.T) {
	assert.Equal(t, "Usuario o contraseña incorrectos", describe(domain.ErrInvalidCredentials))
	assert.Equal(t, "El almacenamiento no está disponible. Intente más tarde.", describe(domain.Unavailable("op", os.ErrClosed)))
}
