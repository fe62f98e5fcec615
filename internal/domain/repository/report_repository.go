package repository

import (
	"context"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// ReportRepository define el puerto de persistencia para Report.
// List no garantiza orden; el servicio ordena después de leer.
type ReportRepository interface {
	List(ctx context.Context) ([]*entity.Report, error)
	Create(ctx context.Context, report *entity.Report) error
}
