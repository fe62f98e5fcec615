package ports

import (
	"context"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// ReportRenderer genera un documento (PDF) con el listado de reportes filtrado.
type ReportRenderer interface {
	Render(reports []*entity.Report, criteria entity.Criteria) ([]byte, error)
}

// Archiver guarda una copia de cada exportación (S3, directorio local).
// Devuelve la ubicación donde quedó el archivo.
type Archiver interface {
	Archive(ctx context.Context, filename, contentType string, data []byte) (string, error)
}
