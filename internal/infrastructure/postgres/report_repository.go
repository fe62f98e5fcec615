package postgres

import (
	"context"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo implementación del puerto ReportRepository sobre PostgreSQL.
type ReportRepo struct {
	db Querier
}

// NewReportRepository construye el adaptador de persistencia para reportes.
func NewReportRepository(db Querier) *ReportRepo {
	return &ReportRepo{db: db}
}

// List devuelve todos los reportes.
func (r *ReportRepo) List(ctx context.Context) ([]*entity.Report, error) {
	query := `
		SELECT id, asesor, asesor_id, to_char(fecha, 'YYYY-MM-DD'), hora_inicio, hora_fin,
		       empresa, nombre_cliente, contacto, tipo_cliente, tipo_actividad,
		       descripcion, observaciones, monto, factura, cobranza, created_at
		FROM reports ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, wrap("reports.List", err)
	}
	defer rows.Close()
	var list []*entity.Report
	for rows.Next() {
		var rep entity.Report
		if err := rows.Scan(
			&rep.ID, &rep.Advisor, &rep.AdvisorID, &rep.Date, &rep.StartTime, &rep.EndTime,
			&rep.Company, &rep.ContactName, &rep.ContactPhone, &rep.ClientType, &rep.Activity,
			&rep.Description, &rep.Observations, &rep.Amount, &rep.Invoice, &rep.Collected, &rep.CreatedAt,
		); err != nil {
			return nil, wrap("reports.List", err)
		}
		list = append(list, &rep)
	}
	return list, wrap("reports.List", rows.Err())
}

// Create persiste un reporte.
func (r *ReportRepo) Create(ctx context.Context, rep *entity.Report) error {
	query := `
		INSERT INTO reports (id, asesor, asesor_id, fecha, hora_inicio, hora_fin, empresa, nombre_cliente,
		                     contacto, tipo_cliente, tipo_actividad, descripcion, observaciones, monto,
		                     factura, cobranza, created_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.db.Exec(ctx, query,
		rep.ID, rep.Advisor, rep.AdvisorID, rep.Date, rep.StartTime, rep.EndTime, rep.Company, rep.ContactName,
		rep.ContactPhone, rep.ClientType, rep.Activity, rep.Description, rep.Observations, rep.Amount,
		rep.Invoice, rep.Collected, rep.CreatedAt,
	)
	return wrap("reports.Create", err)
}
