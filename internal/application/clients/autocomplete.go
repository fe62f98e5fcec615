// Package clients implementa el autocompletado del directorio de clientes
// usado al llenar un reporte.
package clients

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// MinQueryLength cantidad mínima de caracteres para sugerir.
const MinQueryLength = 2

// DuplicatePhoneWarning advertencia (no bloqueante) de teléfono ya registrado.
const DuplicatePhoneWarning = "Este número ya existe en el sistema"

// Directory búsquedas del Record Store que usa el autocompletado.
type Directory interface {
	FindClients(ctx context.Context, substring string) ([]*entity.Client, error)
	FindByPhone(ctx context.Context, phone string) (*entity.Client, error)
}

// ReportDraft campos del formulario de reporte que completa una sugerencia.
type ReportDraft struct {
	Company      string `json:"empresa"`
	ContactName  string `json:"nombre_cliente"`
	ContactPhone string `json:"contacto"`
	ClientType   string `json:"tipo_cliente"`
}

// Apply copia el borrador sobre un reporte.
func (d ReportDraft) Apply(r *entity.Report) {
	r.Company = d.Company
	r.ContactName = d.ContactName
	r.ContactPhone = d.ContactPhone
	r.ClientType = d.ClientType
}

// Autocomplete sugiere clientes a partir de lo escrito en el campo empresa.
type Autocomplete struct {
	dir Directory
}

// NewAutocomplete construye el autocompletado.
func NewAutocomplete(dir Directory) *Autocomplete {
	return &Autocomplete{dir: dir}
}

// Suggest devuelve los clientes que coinciden. Con menos de MinQueryLength caracteres
// devuelve vacío sin consultar el almacenamiento.
func (a *Autocomplete) Suggest(ctx context.Context, prefix string) ([]*entity.Client, error) {
	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) < MinQueryLength {
		return []*entity.Client{}, nil
	}
	return a.dir.FindClients(ctx, prefix)
}

// Select copia empresa, contacto, teléfono y tipo del cliente elegido al borrador.
func Select(draft *ReportDraft, c *entity.Client) {
	if draft == nil || c == nil {
		return
	}
	draft.Company = c.Name
	draft.ContactName = c.Contact
	draft.ContactPhone = c.Phone
	draft.ClientType = c.Type
}

// DuplicatePhone indica si el teléfono ya pertenece a un cliente. Solo advierte.
func (a *Autocomplete) DuplicatePhone(ctx context.Context, phone string) (*entity.Client, bool, error) {
	c, err := a.dir.FindByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, false, err
	}
	return c, c != nil, nil
}
