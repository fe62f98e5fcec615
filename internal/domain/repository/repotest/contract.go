// Package repotest contiene el contrato común que todo adaptador del Record Store debe cumplir.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/domain/repository"
)

// Factory devuelve un backend vacío y aislado para cada subtest.
type Factory func(t *testing.T) *repository.Backend

// Run ejecuta el contrato completo contra el adaptador.
func Run(t *testing.T, newBackend Factory) {
	t.Run("Usuarios", func(t *testing.T) { users(t, newBackend(t)) })
	t.Run("Clientes", func(t *testing.T) { clients(t, newBackend(t)) })
	t.Run("Reportes", func(t *testing.T) { reports(t, newBackend(t)) })
}

func users(t *testing.T, b *repository.Backend) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	got, err := b.Users.GetByIdentifier(ctx, "juan")
	require.NoError(t, err)
	assert.Nil(t, got)

	juan := &entity.User{ID: uuid.NewString(), Identifier: "juan", Secret: "123", Name: "Juan Pérez", Role: entity.RoleVendor, CreatedAt: now}
	require.NoError(t, b.Users.Create(ctx, juan))

	dup := &entity.User{ID: uuid.NewString(), Identifier: "juan", Secret: "x", Name: "Otro", Role: entity.RoleAdmin, CreatedAt: now}
	assert.ErrorIs(t, b.Users.Create(ctx, dup), domain.ErrDuplicateIdentifier)

	invite := &entity.User{ID: uuid.NewString(), Identifier: "ana@empresa.com", Name: "Ana", Role: entity.RoleVendor, CreatedAt: now.Add(time.Second)}
	require.NoError(t, b.Users.Create(ctx, invite))

	list, err := b.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	got, err = b.Users.GetByIdentifier(ctx, "juan")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Juan Pérez", got.Name)
	assert.Equal(t, "123", got.Secret)
	assert.Equal(t, entity.RoleVendor, got.Role)

	got, err = b.Users.GetByIdentifier(ctx, "ana@empresa.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsInvite())

	require.NoError(t, b.Users.UpdateSecret(ctx, "ana@empresa.com", "nueva"))
	got, err = b.Users.GetByIdentifier(ctx, "ana@empresa.com")
	require.NoError(t, err)
	assert.Equal(t, "nueva", got.Secret)

	assert.ErrorIs(t, b.Users.UpdateSecret(ctx, "nadie", "x"), domain.ErrNotFound)
}

func clients(t *testing.T, b *repository.Backend) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, b.Clients.Create(ctx, &entity.Client{ID: uuid.NewString(), Name: "Tech Solutions", Contact: "Carlos Gomez", Phone: "3001234567", Type: "Recurrente", CreatedAt: now}))
	require.NoError(t, b.Clients.Create(ctx, &entity.Client{ID: uuid.NewString(), Name: "Acme", Contact: "Ana", Phone: "555", Type: entity.DefaultClientType, CreatedAt: now}))

	list, err := b.Clients.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	c, err := b.Clients.GetByName(ctx, "Acme")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "555", c.Phone)

	c, err = b.Clients.GetByName(ctx, "acme")
	require.NoError(t, err)
	assert.Nil(t, c, "la búsqueda por nombre es exacta")

	c, err = b.Clients.GetByPhone(ctx, "3001234567")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Tech Solutions", c.Name)

	c, err = b.Clients.GetByPhone(ctx, "000")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func reports(t *testing.T, b *repository.Backend) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	in := &entity.Report{
		ID: uuid.NewString(), Advisor: "Juan Pérez", AdvisorID: "juan", Date: "2024-03-10",
		StartTime: "09:00", EndTime: "10:30", Company: "Acme", ContactName: "Ana", ContactPhone: "555",
		ClientType: entity.DefaultClientType, Activity: entity.ActivityVisit, Description: "Demo",
		Observations: "Volver en abril", Amount: decimal.NewNullDecimal(decimal.RequireFromString("1500.50")),
		Invoice: "F-001", Collected: true, CreatedAt: now,
	}
	require.NoError(t, b.Reports.Create(ctx, in))
	require.NoError(t, b.Reports.Create(ctx, &entity.Report{
		ID: uuid.NewString(), Advisor: "Juan Pérez", Date: "2024-03-11", Company: "Tech Solutions",
		ContactName: "Carlos", ContactPhone: "3001234567", Activity: entity.ActivityTraining, CreatedAt: now.Add(time.Minute),
	}))

	list, err := b.Reports.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	var got *entity.Report
	for _, r := range list {
		if r.ID == in.ID {
			got = r
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, "2024-03-10", got.Date)
	assert.Equal(t, "09:00", got.StartTime)
	assert.Equal(t, "Volver en abril", got.Observations)
	assert.Equal(t, "F-001", got.Invoice)
	assert.True(t, got.Collected)
	require.True(t, got.Amount.Valid)
	assert.True(t, got.Amount.Decimal.Equal(decimal.RequireFromString("1500.5")))
	assert.True(t, got.CreatedAt.Equal(now))

	for _, r := range list {
		if r.ID != in.ID {
			assert.False(t, r.Amount.Valid, "monto ausente se conserva como nulo")
		}
	}
}
