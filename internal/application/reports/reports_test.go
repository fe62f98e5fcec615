package reports_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/visitas-api/internal/application/reports"
	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

func sample() []*entity.Report {
	return []*entity.Report{
		{ID: "r1", Advisor: "Juan Pérez", Date: "2024-03-10", StartTime: "09:00", EndTime: "10:00", Company: "Acme", ContactName: "Ana", ContactPhone: "555", Activity: entity.ActivityVisit, Description: "Demo", Amount: decimal.NewNullDecimal(decimal.RequireFromString("1500.5")), Invoice: "F-1", Collected: true},
		{ID: "r2", Advisor: "Laura Gómez", Date: "2024-03-15", Company: "Tech Solutions", ContactName: "Carlos Gomez", ContactPhone: "3001234567", Activity: entity.ActivityTraining},
		{ID: "r3", Advisor: "Juan Pérez", Date: "2024-04-01", Company: "ACME Norte", ContactName: "Luis", ContactPhone: "777", Activity: entity.ActivityVisit},
	}
}

func ids(list []*entity.Report) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter_SinCriteriosDevuelveTodo(t *testing.T) {
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids(reports.Filter(sample(), entity.Criteria{})))
}

func TestFilter_LimitesInclusivos(t *testing.T) {
	got := reports.Filter(sample(), entity.Criteria{DateFrom: "2024-03-10", DateTo: "2024-03-15"})
	assert.Equal(t, []string{"r1", "r2"}, ids(got))

	got = reports.Filter(sample(), entity.Criteria{DateFrom: "2024-03-11"})
	assert.Equal(t, []string{"r2", "r3"}, ids(got))

	got = reports.Filter(sample(), entity.Criteria{DateTo: "2024-03-09"})
	assert.Empty(t, got)
}

func TestFilter_AsesorIgualdadExacta(t *testing.T) {
	assert.Equal(t, []string{"r1", "r3"}, ids(reports.Filter(sample(), entity.Criteria{Advisor: "Juan Pérez"})))
	assert.Empty(t, reports.Filter(sample(), entity.Criteria{Advisor: "juan pérez"}))
}

func TestFilter_EmpresaSubcadenaSinMayusculas(t *testing.T) {
	assert.Equal(t, []string{"r1", "r3"}, ids(reports.Filter(sample(), entity.Criteria{Company: "acme"})))
}

func TestFilter_Conjuncion(t *testing.T) {
	got := reports.Filter(sample(), entity.Criteria{Advisor: "Juan Pérez", Company: "acme", DateTo: "2024-03-31"})
	assert.Equal(t, []string{"r1"}, ids(got))
}

func TestOwned_IdentificadorAntesQueNombre(t *testing.T) {
	list := []*entity.Report{
		{ID: "a", Advisor: "Juan Pérez", AdvisorID: "juan"},
		{ID: "b", Advisor: "Juan Pérez", AdvisorID: "juanp"}, // homónimo
		{ID: "c", Advisor: "Juan Pérez"},                     // dato heredado sin identificador
		{ID: "d", Advisor: "Laura Gómez"},
	}
	assert.Equal(t, []string{"a", "c"}, ids(reports.Owned(list, "juan", "Juan Pérez")))
	assert.Equal(t, []string{"b", "c"}, ids(reports.Owned(list, "juanp", "Juan Pérez")))
	assert.Empty(t, reports.Owned(list, "nadie", ""))
}

func TestExportCSV_Formato(t *testing.T) {
	out := reports.ExportCSV(sample()[:2])
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Asesor,Fecha,Hora Inicio,Hora Fin,Empresa,Cliente,Contacto,Actividad,Descripcion,Observaciones,Monto,Factura,Cobranza", lines[0])
	assert.Equal(t, `Juan Pérez,2024-03-10,09:00,10:00,"Acme","Ana",555,visita,"Demo","",1500.50,F-1,Si`, lines[1])
	assert.Equal(t, `Laura Gómez,2024-03-15,,,"Tech Solutions","Carlos Gomez",3001234567,capacitacion,"","",,,No`, lines[2])
}

func TestExportCSV_VacioSoloEncabezado(t *testing.T) {
	out := reports.ExportCSV(nil)
	assert.Equal(t, strings.Join(reports.CSVHeader, ","), out)
}

func TestExportCSV_ComillasInternasNoSeEscapan(t *testing.T) {
	r := &entity.Report{Company: `La "Gran" Tienda`}
	lines := strings.Split(reports.ExportCSV([]*entity.Report{r}), "\n")
	assert.Contains(t, lines[1], `"La "Gran" Tienda"`)
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 3, 10, 23, 0, 0, 0, time.FixedZone("COT", -5*3600))
	assert.Equal(t, "reporte_ventas_2024-03-11.csv", reports.ExportFilename(now, "csv"))
}

func TestAdvisors_ExcluyeAdministradores(t *testing.T) {
	users := []*entity.User{
		{Identifier: "admin", Name: "Administrador", Role: entity.RoleAdmin},
		{Identifier: "juan", Name: "Juan Pérez", Role: entity.RoleVendor},
		{Identifier: "laura", Name: "Laura Gómez", Role: entity.RoleVendor},
	}
	assert.Equal(t, []string{"Juan Pérez", "Laura Gómez"}, reports.Advisors(users))
}

type sliceSource struct {
	list []*entity.Report
	err  error
}

func (s sliceSource) ListReports(context.Context) ([]*entity.Report, error) { return s.list, s.err }

type stubRenderer struct{ got []*entity.Report }

func (r *stubRenderer) Render(list []*entity.Report, _ entity.Criteria) ([]byte, error) {
	r.got = list
	return []byte("%PDF-1.4"), nil
}

type stubArchiver struct {
	names []string
	err   error
}

func (a *stubArchiver) Archive(_ context.Context, filename, _ string, _ []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.names = append(a.names, filename)
	return "mem://" + filename, nil
}

func fixedClock() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) }

func TestExporter_SinDatos(t *testing.T) {
	e := reports.NewExporter(sliceSource{list: sample()}, nil, nil, reports.ExporterOptions{}, zerolog.Nop())
	_, err := e.Export(context.Background(), entity.Criteria{Company: "inexistente"}, reports.FormatCSV)
	require.ErrorIs(t, err, domain.ErrNoData)
	assert.Contains(t, err.Error(), reports.NoDataMessage)
}

func TestExporter_CSVArchivado(t *testing.T) {
	archiver := &stubArchiver{}
	e := reports.NewExporter(sliceSource{list: sample()}, nil, archiver, reports.ExporterOptions{}, zerolog.Nop())
	e.SetClock(fixedClock)

	out, err := e.Export(context.Background(), entity.Criteria{Advisor: "Juan Pérez"}, reports.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "reporte_ventas_2024-03-20.csv", out.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", out.ContentType)
	assert.Equal(t, 2, out.Count)
	assert.Len(t, strings.Split(string(out.Data), "\n"), 3)
	assert.Equal(t, "mem://reporte_ventas_2024-03-20.csv", out.Location)
	assert.Equal(t, []string{"reporte_ventas_2024-03-20.csv"}, archiver.names)
}

func TestExporter_FalloAlArchivarNoInvalida(t *testing.T) {
	archiver := &stubArchiver{err: errors.New("bucket inexistente")}
	e := reports.NewExporter(sliceSource{list: sample()}, nil, archiver, reports.ExporterOptions{}, zerolog.Nop())

	out, err := e.Export(context.Background(), entity.Criteria{}, reports.FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, out.Location)
}

func TestExporter_CSVWindows1252(t *testing.T) {
	e := reports.NewExporter(sliceSource{list: sample()[:1]}, nil, nil, reports.ExporterOptions{Encoding: reports.EncodingWindows1252}, zerolog.Nop())

	out, err := e.Export(context.Background(), entity.Criteria{}, reports.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=windows-1252", out.ContentType)
	assert.NotContains(t, string(out.Data), "Pérez")

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(out.Data)
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "Juan Pérez")
}

func TestExporter_PDF(t *testing.T) {
	renderer := &stubRenderer{}
	e := reports.NewExporter(sliceSource{list: sample()}, renderer, nil, reports.ExporterOptions{}, zerolog.Nop())
	e.SetClock(fixedClock)

	out, err := e.Export(context.Background(), entity.Criteria{Company: "tech"}, reports.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "reporte_ventas_2024-03-20.pdf", out.Filename)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, []string{"r2"}, ids(renderer.got))
}

func TestExporter_FormatoNoSoportado(t *testing.T) {
	e := reports.NewExporter(sliceSource{list: sample()}, nil, nil, reports.ExporterOptions{}, zerolog.Nop())
	_, err := e.Export(context.Background(), entity.Criteria{}, reports.FormatPDF)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.Export(context.Background(), entity.Criteria{}, "xlsx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExporter_BackendCaido(t *testing.T) {
	e := reports.NewExporter(sliceSource{err: domain.Unavailable("reports.List", errors.New("x"))}, nil, nil, reports.ExporterOptions{}, zerolog.Nop())
	_, err := e.Export(context.Background(), entity.Criteria{}, reports.FormatCSV)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}
