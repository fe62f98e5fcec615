package seed_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/visitas-api/internal/application/auth"
	"github.com/jhoicas/visitas-api/internal/application/records"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/infrastructure/localstore"
	"github.com/jhoicas/visitas-api/internal/infrastructure/seed"
)

func TestDemo_DatosIniciales(t *testing.T) {
	doc := seed.Demo()
	require.Len(t, doc.Users, 2)
	assert.Equal(t, "admin", doc.Users[0].Username)
	assert.Equal(t, entity.RoleAdmin, doc.Users[0].Role)
	assert.Equal(t, "Juan Pérez", doc.Users[1].Name)
	require.Len(t, doc.Clients, 2)
	assert.Equal(t, "Tech Solutions", doc.Clients[0].Name)
	assert.Equal(t, "3109876543", doc.Clients[1].Phone)
}

func TestParse_Validaciones(t *testing.T) {
	_, err := seed.Parse([]byte("users:\n  - name: Sin usuario\n"))
	assert.Error(t, err)

	_, err = seed.Parse([]byte("users:\n  - username: ana\n    role: jefe\n"))
	assert.Error(t, err)

	doc, err := seed.Parse([]byte("users:\n  - username: ana\n"))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendor, doc.Users[0].Role)
}

func TestEntities_ConYSinHasher(t *testing.T) {
	doc := seed.Demo()
	h, err := auth.NewHasher(auth.ModeSHA256)
	require.NoError(t, err)

	users, clients, err := doc.Entities(h)
	require.NoError(t, err)
	assert.True(t, h.Matches(users[0].Secret, "123"))
	assert.NotEqual(t, "123", users[0].Secret)
	assert.Len(t, clients, 2)

	invites, _, err := doc.Entities(nil)
	require.NoError(t, err)
	assert.True(t, invites[0].IsInvite())
}

func TestImporter_OmiteDuplicados(t *testing.T) {
	ctx := context.Background()
	svc := records.NewService(localstore.New(localstore.NewMemoryBlob()).Backend(), records.Options{}, zerolog.Nop())
	verifier, err := auth.NewVerifier(svc, nil, auth.Options{Mode: auth.ModePlain}, zerolog.Nop())
	require.NoError(t, err)
	im := seed.NewImporter(verifier, svc)

	res, err := im.Apply(ctx, seed.Demo())
	require.NoError(t, err)
	assert.Equal(t, seed.Result{Users: 2, Clients: 2}, res)

	res, err = im.Apply(ctx, seed.Demo())
	require.NoError(t, err)
	assert.Equal(t, seed.Result{Skipped: 4}, res)

	u, err := verifier.Authenticate(ctx, "juan", "123")
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", u.Name)
}

func TestReadClientsCSV_Windows1252(t *testing.T) {
	src := "Empresa;Contacto;Teléfono;Tipo\nPanadería Ñandú;José Núñez;3001112233;Recurrente\n;sin empresa;;\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(src)
	require.NoError(t, err)

	list, err := seed.ReadClientsCSV(bytes.NewBufferString(encoded), seed.EncodingWindows1252)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, seed.Client{Name: "Panadería Ñandú", Contact: "José Núñez", Phone: "3001112233", Type: "Recurrente"}, list[0])
}

func TestReadClientsCSV_UTF8ConComas(t *testing.T) {
	src := "name,contact,phone\n\"Acme, S.A.\",Ana,300\n"
	list, err := seed.ReadClientsCSV(strings.NewReader(src), "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme, S.A.", list[0].Name)
	assert.Empty(t, list[0].Type)
}

func TestReadClientsCSV_SinColumnaEmpresa(t *testing.T) {
	_, err := seed.ReadClientsCSV(strings.NewReader("contacto,telefono\nAna,300\n"), "")
	assert.Error(t, err)

	_, err = seed.ReadClientsCSV(strings.NewReader("x"), "ebcdic")
	assert.Error(t, err)
}
