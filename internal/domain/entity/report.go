package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de actividad de un reporte.
const (
	ActivityVisit    = "visita"
	ActivityTraining = "capacitacion"
)

// DateLayout formato ISO de las fechas de reporte (orden lexicográfico = cronológico).
const DateLayout = "2006-01-02"

// Report registra una visita o capacitación de un asesor. Inmutable una vez creado.
type Report struct {
	ID           string
	Advisor      string // nombre visible del asesor
	AdvisorID    string // identificador de la cuenta que lo creó
	Date         string // YYYY-MM-DD
	StartTime    string // HH:MM
	EndTime      string // HH:MM
	Company      string
	ContactName  string
	ContactPhone string
	ClientType   string
	Activity     string // visita, capacitacion
	Description  string
	Observations string
	Amount       decimal.NullDecimal // monto facturado (opcional)
	Invoice      string              // número de factura (opcional)
	Collected    bool                // ¿realizó cobranza?
	CreatedAt    time.Time
}

// ValidActivity indica si kind es un tipo de actividad soportado.
func ValidActivity(kind string) bool {
	return kind == ActivityVisit || kind == ActivityTraining
}

// ClientFromReport construye el cliente que se registra al recibir un reporte de una empresa nueva.
func ClientFromReport(r *Report) *Client {
	kind := r.ClientType
	if kind == "" {
		kind = DefaultClientType
	}
	return &Client{
		Name:    r.Company,
		Contact: r.ContactName,
		Phone:   r.ContactPhone,
		Type:    kind,
	}
}
