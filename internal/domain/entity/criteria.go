package entity

// Criteria filtros del panel administrativo. Los campos vacíos no excluyen reportes.
type Criteria struct {
	DateFrom string // YYYY-MM-DD, inclusivo
	DateTo   string // YYYY-MM-DD, inclusivo
	Advisor  string // nombre exacto del asesor
	Company  string // subcadena de la empresa, sin distinguir mayúsculas
}

// IsEmpty indica si ningún criterio está presente.
func (c Criteria) IsEmpty() bool {
	return c.DateFrom == "" && c.DateTo == "" && c.Advisor == "" && c.Company == ""
}
