// Package reports implementa el motor de consulta de reportes: filtro, exportación
// CSV/PDF y opciones de filtro por asesor.
package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/domain/search"
)

// CSVHeader encabezado fijo de la exportación.
var CSVHeader = []string{
	"Asesor", "Fecha", "Hora Inicio", "Hora Fin", "Empresa", "Cliente", "Contacto",
	"Actividad", "Descripcion", "Observaciones", "Monto", "Factura", "Cobranza",
}

// NoDataMessage mensaje cuando el filtro no deja reportes para exportar.
const NoDataMessage = "No hay datos para exportar con los filtros actuales."

// Filter devuelve los reportes que cumplen todos los criterios presentes, conservando el orden.
// Las fechas se comparan como texto YYYY-MM-DD con límites inclusivos.
func Filter(list []*entity.Report, c entity.Criteria) []*entity.Report {
	out := make([]*entity.Report, 0, len(list))
	for _, r := range list {
		if Matches(r, c) {
			out = append(out, r)
		}
	}
	return out
}

// Matches indica si un reporte cumple los criterios.
func Matches(r *entity.Report, c entity.Criteria) bool {
	if c.DateFrom != "" && r.Date < c.DateFrom {
		return false
	}
	if c.DateTo != "" && r.Date > c.DateTo {
		return false
	}
	if c.Advisor != "" && r.Advisor != c.Advisor {
		return false
	}
	if c.Company != "" && !search.ContainsFold(r.Company, c.Company) {
		return false
	}
	return true
}

// ExportCSV serializa los reportes. Empresa, cliente, descripción y observaciones van
// entre comillas; las comillas internas no se escapan.
// N reportes producen N+1 líneas separadas por '\n'.
func ExportCSV(list []*entity.Report) string {
	lines := make([]string, 0, len(list)+1)
	lines = append(lines, strings.Join(CSVHeader, ","))
	for _, r := range list {
		lines = append(lines, strings.Join([]string{
			r.Advisor,
			r.Date,
			r.StartTime,
			r.EndTime,
			quote(r.Company),
			quote(r.ContactName),
			r.ContactPhone,
			r.Activity,
			quote(r.Description),
			quote(r.Observations),
			FormatAmount(r),
			r.Invoice,
			FormatCollected(r.Collected),
		}, ","))
	}
	return strings.Join(lines, "\n")
}

// quote envuelve el valor en comillas; las comillas internas se copian tal cual.
func quote(s string) string {
	return `"` + s + `"`
}

// OwnedBy indica si el reporte pertenece al asesor de la sesión: por identificador y,
// en reportes sin identificador (datos heredados), por nombre visible.
func OwnedBy(r *entity.Report, identifier, name string) bool {
	if r.AdvisorID != "" {
		return r.AdvisorID == identifier
	}
	return name != "" && r.Advisor == name
}

// Owned filtra los reportes de un asesor con OwnedBy.
func Owned(list []*entity.Report, identifier, name string) []*entity.Report {
	out := make([]*entity.Report, 0, len(list))
	for _, r := range list {
		if OwnedBy(r, identifier, name) {
			out = append(out, r)
		}
	}
	return out
}

// FormatAmount monto con dos decimales, o vacío si no se informó.
func FormatAmount(r *entity.Report) string {
	if !r.Amount.Valid {
		return ""
	}
	return r.Amount.Decimal.StringFixed(2)
}

// FormatCollected representa la cobranza como Si/No.
func FormatCollected(collected bool) string {
	if collected {
		return "Si"
	}
	return "No"
}

// ExportFilename nombre del archivo exportado: reporte_ventas_<YYYY-MM-DD>.<ext>.
func ExportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("reporte_ventas_%s.%s", now.UTC().Format(entity.DateLayout), ext)
}

// Advisors nombres de los asesores (usuarios no administradores) para el filtro, en el orden recibido.
func Advisors(users []*entity.User) []string {
	out := make([]string, 0, len(users))
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if u.Role == entity.RoleAdmin {
			continue
		}
		if _, ok := seen[u.Name]; ok {
			continue
		}
		seen[u.Name] = struct{}{}
		out = append(out, u.Name)
	}
	return out
}
