package pdf

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "0,00",
		"999.9":    "999,90",
		"1500.5":   "1.500,50",
		"1000000":  "1.000.000,00",
		"-25000.1": "-25.000,10",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestCriteriaSummary(t *testing.T) {
	assert.Equal(t, "Sin filtros", criteriaSummary(entity.Criteria{}))
	assert.Equal(t, "Fechas: 2024-03-01 a hoy   |   Asesor: Juan Pérez",
		criteriaSummary(entity.Criteria{DateFrom: "2024-03-01", Advisor: "Juan Pérez"}))
}

func TestRender_GeneraPDF(t *testing.T) {
	list := []*entity.Report{
		{Advisor: "Juan Pérez", Date: "2024-03-10", Company: "Acme", ContactName: "Ana", ContactPhone: "555",
			Activity: entity.ActivityVisit, Amount: decimal.NewNullDecimal(decimal.NewFromInt(1500)), Collected: true},
		{Advisor: "Laura Gómez", Date: "2024-03-11", Company: "Tech Solutions", ContactName: "Carlos", ContactPhone: "300",
			Activity: entity.ActivityTraining},
	}
	data, err := NewReportRenderer("visitas-api").Render(list, entity.Criteria{Company: "a"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
