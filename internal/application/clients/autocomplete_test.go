package clients_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/visitas-api/internal/application/clients"
	"github.com/jhoicas/visitas-api/internal/application/records"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/infrastructure/localstore"
)

// countingDirectory cuenta las consultas al almacenamiento.
type countingDirectory struct {
	clients.Directory
	calls int
}

func (d *countingDirectory) FindClients(ctx context.Context, s string) ([]*entity.Client, error) {
	d.calls++
	return d.Directory.FindClients(ctx, s)
}

func newDirectory(t *testing.T) *countingDirectory {
	t.Helper()
	seed := []*entity.Client{
		{ID: "c1", Name: "Tech Solutions", Contact: "Carlos Gomez", Phone: "3001234567", Type: "Recurrente"},
		{ID: "c2", Name: "Restaurante El Sabor", Contact: "Maria Rodriguez", Phone: "3109876543", Type: entity.DefaultClientType},
	}
	backend := localstore.New(localstore.NewMemoryBlob(), localstore.WithInitialData(nil, seed)).Backend()
	return &countingDirectory{Directory: records.NewService(backend, records.Options{}, zerolog.Nop())}
}

func TestSuggest_MenosDeDosCaracteres(t *testing.T) {
	dir := newDirectory(t)
	a := clients.NewAutocomplete(dir)

	for _, q := range []string{"", "t", " é "} {
		got, err := a.Suggest(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Zero(t, dir.calls)
}

func TestSuggest_CoincideEmpresaOContacto(t *testing.T) {
	a := clients.NewAutocomplete(newDirectory(t))

	got, err := a.Suggest(context.Background(), "te")
	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Tech Solutions", "Restaurante El Sabor"}, names)

	got, err = a.Suggest(context.Background(), "CARLOS")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tech Solutions", got[0].Name)
}

func TestSelect_CopiaCuatroCampos(t *testing.T) {
	draft := &clients.ReportDraft{}
	clients.Select(draft, &entity.Client{Name: "Tech Solutions", Contact: "Carlos Gomez", Phone: "3001234567", Type: "Recurrente"})
	assert.Equal(t, clients.ReportDraft{Company: "Tech Solutions", ContactName: "Carlos Gomez", ContactPhone: "3001234567", ClientType: "Recurrente"}, *draft)

	var r entity.Report
	draft.Apply(&r)
	assert.Equal(t, "Carlos Gomez", r.ContactName)
	assert.Equal(t, "Recurrente", r.ClientType)
}

func TestDuplicatePhone_SoloAdvierte(t *testing.T) {
	a := clients.NewAutocomplete(newDirectory(t))

	c, dup, err := a.DuplicatePhone(context.Background(), "3001234567")
	require.NoError(t, err)
	assert.True(t, dup)
	assert.Equal(t, "Tech Solutions", c.Name)

	_, dup, err = a.DuplicatePhone(context.Background(), "999")
	require.NoError(t, err)
	assert.False(t, dup)
}
