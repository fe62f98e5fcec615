package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// CreateReportRequest body para POST /api/reports. El asesor se toma de la sesión.
type CreateReportRequest struct {
	Date         string              `json:"fecha"`
	StartTime    string              `json:"hora_inicio"`
	EndTime      string              `json:"hora_fin"`
	Company      string              `json:"empresa"`
	ContactName  string              `json:"nombre_cliente"`
	ContactPhone string              `json:"contacto"`
	ClientType   string              `json:"tipo_cliente"`
	Activity     string              `json:"tipo_actividad"`
	Description  string              `json:"descripcion"`
	Observations string              `json:"observaciones"`
	Amount       decimal.NullDecimal `json:"monto"`
	Invoice      string              `json:"factura"`
	Collected    bool                `json:"cobranza"`
}

// ToEntity construye el reporte del asesor indicado.
func (r CreateReportRequest) ToEntity(advisor, advisorID string) *entity.Report {
	return &entity.Report{
		Advisor:      advisor,
		AdvisorID:    advisorID,
		Date:         r.Date,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Company:      r.Company,
		ContactName:  r.ContactName,
		ContactPhone: r.ContactPhone,
		ClientType:   r.ClientType,
		Activity:     r.Activity,
		Description:  r.Description,
		Observations: r.Observations,
		Amount:       r.Amount,
		Invoice:      r.Invoice,
		Collected:    r.Collected,
	}
}

// ReportResponse reporte en respuestas (mismas claves que el formulario).
type ReportResponse struct {
	ID           string              `json:"id"`
	Advisor      string              `json:"asesor"`
	AdvisorID    string              `json:"asesor_id,omitempty"`
	Date         string              `json:"fecha"`
	StartTime    string              `json:"hora_inicio"`
	EndTime      string              `json:"hora_fin"`
	Company      string              `json:"empresa"`
	ContactName  string              `json:"nombre_cliente"`
	ContactPhone string              `json:"contacto"`
	ClientType   string              `json:"tipo_cliente"`
	Activity     string              `json:"tipo_actividad"`
	Description  string              `json:"descripcion"`
	Observations string              `json:"observaciones"`
	Amount       decimal.NullDecimal `json:"monto"`
	Invoice      string              `json:"factura"`
	Collected    bool                `json:"cobranza"`
	CreatedAt    time.Time           `json:"timestamp"`
}

// NewReportResponse convierte la entidad.
func NewReportResponse(r *entity.Report) ReportResponse {
	return ReportResponse{
		ID:           r.ID,
		Advisor:      r.Advisor,
		AdvisorID:    r.AdvisorID,
		Date:         r.Date,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Company:      r.Company,
		ContactName:  r.ContactName,
		ContactPhone: r.ContactPhone,
		ClientType:   r.ClientType,
		Activity:     r.Activity,
		Description:  r.Description,
		Observations: r.Observations,
		Amount:       r.Amount,
		Invoice:      r.Invoice,
		Collected:    r.Collected,
		CreatedAt:    r.CreatedAt,
	}
}

// NewReportList convierte una lista de reportes.
func NewReportList(list []*entity.Report) ListResponse[ReportResponse] {
	items := make([]ReportResponse, 0, len(list))
	for _, r := range list {
		items = append(items, NewReportResponse(r))
	}
	return NewList(items)
}

// CreateReportResponse respuesta de alta. Warning informa que el cliente no se pudo registrar.
type CreateReportResponse struct {
	Report  ReportResponse `json:"report"`
	Warning string         `json:"warning,omitempty"`
}

// ReportQuery filtros de GET /api/reports y /api/reports/export.
type ReportQuery struct {
	From    string `query:"from"`
	To      string `query:"to"`
	Advisor string `query:"asesor"`
	Company string `query:"empresa"`
	Format  string `query:"format"`
}

// Criteria convierte la consulta en criterios de filtro.
func (q ReportQuery) Criteria() entity.Criteria {
	return entity.Criteria{DateFrom: q.From, DateTo: q.To, Advisor: q.Advisor, Company: q.Company}
}
