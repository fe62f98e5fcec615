// Package pdf genera el listado de reportes en PDF para el administrador.
//
// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  TÍTULO + fecha de generación  │  Filtros aplicados              │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Asesor | Empresa | Cliente | Contacto | ...      │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TOTALES: reportes / monto facturado / con cobranza              │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/visitas-api/internal/application/ports"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

var _ ports.ReportRenderer = (*ReportRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// ReportRenderer implementa ports.ReportRenderer usando Maroto v2.
type ReportRenderer struct {
	title string
	now   func() time.Time
}

// NewReportRenderer construye el generador. title aparece como autor del documento.
func NewReportRenderer(title string) *ReportRenderer {
	return &ReportRenderer{title: title, now: time.Now}
}

// Render genera el PDF y devuelve sus bytes.
func (g *ReportRenderer) Render(list []*entity.Report, c entity.Criteria) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Reporte de Visitas y Ventas", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.now(), c))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(list)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(list))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(now time.Time, c entity.Criteria) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("REPORTE DE VISITAS Y VENTAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(criteriaSummary(c), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// criteriaSummary describe los filtros aplicados.
func criteriaSummary(c entity.Criteria) string {
	if c.IsEmpty() {
		return "Sin filtros"
	}
	var parts []string
	if c.DateFrom != "" || c.DateTo != "" {
		parts = append(parts, fmt.Sprintf("Fechas: %s a %s", nonEmpty(c.DateFrom, "inicio"), nonEmpty(c.DateTo, "hoy")))
	}
	if c.Advisor != "" {
		parts = append(parts, "Asesor: "+c.Advisor)
	}
	if c.Company != "" {
		parts = append(parts, "Empresa: "+c.Company)
	}
	return strings.Join(parts, "   |   ")
}

var columns = []struct {
	label string
	size  int
	align align.Type
}{
	{"Fecha", 1, align.Center},
	{"Asesor", 2, align.Left},
	{"Empresa", 2, align.Left},
	{"Cliente", 2, align.Left},
	{"Contacto", 1, align.Left},
	{"Actividad", 1, align.Center},
	{"Monto", 1, align.Right},
	{"Factura", 1, align.Left},
	{"Cobranza", 1, align.Center},
}

func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func tableRows(list []*entity.Report) []core.Row {
	result := make([]core.Row, 0, len(list))
	for _, r := range list {
		amount := ""
		if r.Amount.Valid {
			amount = "$" + formatMoney(r.Amount.Decimal)
		}
		collected := "No"
		if r.Collected {
			collected = "Si"
		}
		values := []string{r.Date, r.Advisor, r.Company, r.ContactName, r.ContactPhone, r.Activity, amount, r.Invoice, collected}
		cols := make([]core.Col, 0, len(columns))
		for i, c := range columns {
			cols = append(cols, col.New(c.size).Add(text.New(values[i], props.Text{
				Size: 7.5, Align: c.align, Top: 1, Left: 1, Right: 1,
			})))
		}
		result = append(result, row.New(7).Add(cols...))
	}
	return result
}

func totalsRow(list []*entity.Report) core.Row {
	total := decimal.Zero
	collected := 0
	for _, r := range list {
		if r.Amount.Valid {
			total = total.Add(r.Amount.Decimal)
		}
		if r.Collected {
			collected++
		}
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Color: colorPrimary})
	}
	return row.New(10).Add(
		col.New(4).Add(label(fmt.Sprintf("Reportes: %d", len(list)))),
		col.New(4).Add(label("Monto facturado: $"+formatMoney(total))),
		col.New(4).Add(label(fmt.Sprintf("Con cobranza: %d", collected))),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formato local: puntos de miles y coma decimal.
// Ej: 1500.5 → "1.500,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
