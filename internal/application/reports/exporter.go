package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/visitas-api/internal/application/ports"
	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// Format formato de exportación.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Codificaciones soportadas para el CSV.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252" // Excel en español abre el CSV sin mojibake
)

// ReportSource lectura de reportes del Record Store.
type ReportSource interface {
	ListReports(ctx context.Context) ([]*entity.Report, error)
}

// ExporterOptions configuración del exportador.
type ExporterOptions struct {
	Encoding string
}

// Export archivo generado.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
	Count       int    // reportes incluidos
	Location    string // ubicación del archivo archivado (vacío si no se archivó)
}

// Exporter filtra los reportes y genera el archivo en el formato pedido.
type Exporter struct {
	source   ReportSource
	renderer ports.ReportRenderer // opcional: sin él no hay PDF
	archiver ports.Archiver       // opcional
	opts     ExporterOptions
	log      zerolog.Logger
	now      func() time.Time
}

// NewExporter construye el exportador. renderer y archiver pueden ser nil.
func NewExporter(source ReportSource, renderer ports.ReportRenderer, archiver ports.Archiver, opts ExporterOptions, log zerolog.Logger) *Exporter {
	if opts.Encoding == "" {
		opts.Encoding = EncodingUTF8
	}
	return &Exporter{source: source, renderer: renderer, archiver: archiver, opts: opts, log: log, now: time.Now}
}

// SetClock reemplaza el reloj usado para el nombre del archivo.
func (e *Exporter) SetClock(now func() time.Time) { e.now = now }

// Query devuelve los reportes que cumplen los criterios, del más reciente al más antiguo.
func (e *Exporter) Query(ctx context.Context, c entity.Criteria) ([]*entity.Report, error) {
	list, err := e.source.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(list, c), nil
}

// Export genera el archivo. domain.ErrNoData si el filtro no deja reportes.
// Un fallo al archivar se registra pero no invalida la exportación.
func (e *Exporter) Export(ctx context.Context, c entity.Criteria, format Format) (*Export, error) {
	list, err := e.Query(ctx, c)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoData, NoDataMessage)
	}

	out := &Export{Count: len(list)}
	switch format {
	case FormatCSV, "":
		data, contentType, err := e.encodeCSV(ExportCSV(list))
		if err != nil {
			return nil, err
		}
		out.Filename = ExportFilename(e.now(), string(FormatCSV))
		out.ContentType = contentType
		out.Data = data
	case FormatPDF:
		if e.renderer == nil {
			return nil, fmt.Errorf("%w: exportación PDF no disponible", domain.ErrInvalidInput)
		}
		data, err := e.renderer.Render(list, c)
		if err != nil {
			return nil, fmt.Errorf("generar PDF: %w", err)
		}
		out.Filename = ExportFilename(e.now(), string(FormatPDF))
		out.ContentType = "application/pdf"
		out.Data = data
	default:
		return nil, fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, format)
	}

	if e.archiver != nil {
		location, err := e.archiver.Archive(ctx, out.Filename, out.ContentType, out.Data)
		if err != nil {
			e.log.Error().Err(err).Str("archivo", out.Filename).Msg("no se pudo archivar la exportación")
		} else {
			out.Location = location
			e.log.Info().Str("archivo", out.Filename).Str("ubicacion", location).Int("reportes", out.Count).Msg("exportación archivada")
		}
	}
	return out, nil
}

func (e *Exporter) encodeCSV(text string) ([]byte, string, error) {
	switch strings.ToLower(e.opts.Encoding) {
	case EncodingUTF8, "utf8":
		return []byte(text), "text/csv; charset=utf-8", nil
	case EncodingWindows1252, "cp1252":
		enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
		s, err := enc.String(text)
		if err != nil {
			return nil, "", fmt.Errorf("codificar CSV: %w", err)
		}
		return []byte(s), "text/csv; charset=windows-1252", nil
	default:
		return nil, "", fmt.Errorf("%w: codificación %q no soportada", domain.ErrInvalidInput, e.opts.Encoding)
	}
}
