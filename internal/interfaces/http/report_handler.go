package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/visitas-api/internal/application/dto"
	"github.com/jhoicas/visitas-api/internal/application/records"
	"github.com/jhoicas/visitas-api/internal/application/reports"
	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/infrastructure/metrics"
)

// ReportHandler alta de reportes (asesores) y consulta/exportación (admin).
type ReportHandler struct {
	records  *records.Service
	exporter *reports.Exporter
	metrics  *metrics.Metrics
}

// NewReportHandler construye el handler.
func NewReportHandler(rs *records.Service, exp *reports.Exporter, m *metrics.Metrics) *ReportHandler {
	return &ReportHandler{records: rs, exporter: exp, metrics: m}
}

// Create godoc
// @Summary      Registrar reporte de visita
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReportRequest  true  "datos del formulario"
// @Success      201   {object}  dto.CreateReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/reports [post]
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	s := GetSession(c)
	if s == nil {
		return respondError(c, domain.ErrUnauthorized)
	}
	var in dto.CreateReportRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	report, err := h.records.CreateReport(c.UserContext(), in.ToEntity(s.Name, s.Identifier))
	out := dto.CreateReportResponse{}
	switch {
	case errors.Is(err, records.ErrClientUpsert) && report != nil:
		// El reporte quedó guardado: se responde 201 con la advertencia.
		h.metrics.ClientUpsertFailures.Inc()
		out.Warning = err.Error()
	case err != nil:
		return respondError(c, err)
	}
	h.metrics.ReportsCreated.WithLabelValues(report.Activity).Inc()
	out.Report = dto.NewReportResponse(report)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Mine GET /api/reports/mine: reportes de la sesión actual.
func (h *ReportHandler) Mine(c *fiber.Ctx) error {
	s := GetSession(c)
	if s == nil {
		return respondError(c, domain.ErrUnauthorized)
	}
	list, err := h.records.ListReports(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewReportList(reports.Owned(list, s.Identifier, s.Name)))
}

// List GET /api/reports?from=&to=&asesor=&empresa=
func (h *ReportHandler) List(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	list, err := h.exporter.Query(c.UserContext(), q.Criteria())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewReportList(list))
}

// Advisors GET /api/reports/advisors: opciones del filtro de asesor.
func (h *ReportHandler) Advisors(c *fiber.Ctx) error {
	users, err := h.records.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(reports.Advisors(users)))
}

// Export godoc
// @Summary      Exportar reportes filtrados
// @Tags         reports
// @Produce      text/csv
// @Produce      application/pdf
// @Param        format   query  string  false  "csv | pdf"
// @Param        from     query  string  false  "YYYY-MM-DD"
// @Param        to       query  string  false  "YYYY-MM-DD"
// @Param        asesor   query  string  false  "nombre exacto del asesor"
// @Param        empresa  query  string  false  "subcadena de la empresa"
// @Success      200
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reports/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	format := reports.Format(strings.ToLower(q.Format))
	if format == "" {
		format = reports.FormatCSV
	}
	done := h.metrics.ObserveExport()
	exp, err := h.exporter.Export(c.UserContext(), q.Criteria(), format)
	if err != nil {
		status := "error"
		if errors.Is(err, domain.ErrNoData) {
			status = "empty"
		}
		done(string(format), status)
		return respondError(c, err)
	}
	done(string(format), "ok")
	c.Set(fiber.HeaderContentType, exp.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", exp.Filename))
	if exp.Location != "" {
		c.Set("X-Archive-Location", exp.Location)
	}
	return c.Send(exp.Data)
}
