// Package records implementa el Record Store: usuarios, clientes y reportes sobre
// cualquier adaptador de almacenamiento, con las mismas reglas para todos.
package records

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/domain/repository"
	"github.com/jhoicas/visitas-api/internal/domain/search"
)

// PhonePolicy define si un teléfono repetido bloquea el alta de un cliente.
type PhonePolicy string

const (
	// PhoneAdvisory solo advierte (FindByPhone); nunca bloquea.
	PhoneAdvisory PhonePolicy = "advisory"
	// PhoneStrict rechaza altas directas con teléfono repetido y omite el alta automática.
	PhoneStrict PhonePolicy = "strict"
)

// ErrClientUpsert indica que el reporte quedó guardado pero el alta del cliente falló.
var ErrClientUpsert = errors.New("reporte guardado, pero no se pudo registrar el cliente")

// Options reglas configurables del directorio de clientes.
type Options struct {
	PhonePolicy PhonePolicy
	MatchPhone  bool // FindClients también compara el teléfono
}

// Service aplica las reglas del Record Store sobre los puertos de persistencia.
type Service struct {
	users   repository.UserRepository
	clients repository.ClientRepository
	reports repository.ReportRepository
	opts    Options
	log     zerolog.Logger
	now     func() time.Time
	newID   func() string
}

// NewService construye el servicio sobre el backend seleccionado.
func NewService(backend *repository.Backend, opts Options, log zerolog.Logger) *Service {
	if opts.PhonePolicy == "" {
		opts.PhonePolicy = PhoneAdvisory
	}
	return &Service{
		users:   backend.Users,
		clients: backend.Clients,
		reports: backend.Reports,
		opts:    opts,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// SetClock reemplaza el reloj usado para CreatedAt.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

// ListUsers devuelve la colección completa de usuarios, sin paginación.
func (s *Service) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return s.users.List(ctx)
}

// GetUser busca el perfil por identificador; ErrNotFound si no existe.
func (s *Service) GetUser(ctx context.Context, identifier string) (*entity.User, error) {
	u, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// CreateUser inserta el usuario tal cual (el secreto ya viene procesado por el verificador).
// Devuelve ErrDuplicateIdentifier si el identificador ya existe; en ese caso no escribe nada.
func (s *Service) CreateUser(ctx context.Context, candidate *entity.User) (*entity.User, error) {
	if candidate == nil {
		return nil, domain.ErrInvalidInput
	}
	u := *candidate
	u.Identifier = strings.TrimSpace(u.Identifier)
	if u.Identifier == "" {
		return nil, fmt.Errorf("%w: el usuario es requerido", domain.ErrInvalidInput)
	}
	if !entity.ValidRole(u.Role) {
		return nil, fmt.Errorf("%w: rol %q no soportado", domain.ErrInvalidInput, u.Role)
	}
	if u.Name == "" {
		u.Name = u.Identifier
	}
	existing, err := s.users.GetByIdentifier(ctx, u.Identifier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateIdentifier
	}
	if u.ID == "" {
		u.ID = s.newID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateInvite registra una invitación (usuario sin contraseña) que se reclama en el primer login.
func (s *Service) CreateInvite(ctx context.Context, identifier, name, role string) (*entity.User, error) {
	return s.CreateUser(ctx, &entity.User{Identifier: identifier, Name: name, Role: role})
}

// UpdateSecret reemplaza el secreto almacenado; ErrNotFound si el identificador no existe.
func (s *Service) UpdateSecret(ctx context.Context, identifier, secret string) error {
	if strings.TrimSpace(identifier) == "" {
		return fmt.Errorf("%w: el usuario es requerido", domain.ErrInvalidInput)
	}
	return s.users.UpdateSecret(ctx, identifier, secret)
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// ListClients devuelve todos los clientes.
func (s *Service) ListClients(ctx context.Context) ([]*entity.Client, error) {
	return s.clients.List(ctx)
}

// FindClients busca la subcadena en empresa o contacto (y teléfono si MatchPhone), sin distinguir mayúsculas.
func (s *Service) FindClients(ctx context.Context, substring string) ([]*entity.Client, error) {
	all, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Client, 0, len(all))
	for _, c := range all {
		fields := []string{c.Name, c.Contact}
		if s.opts.MatchPhone {
			fields = append(fields, c.Phone)
		}
		if search.ContainsAnyFold(substring, fields...) {
			out = append(out, c)
		}
	}
	return out, nil
}

// FindByPhone devuelve el cliente con ese teléfono exacto, o nil. Es solo una advertencia.
func (s *Service) FindByPhone(ctx context.Context, phone string) (*entity.Client, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, nil
	}
	return s.clients.GetByPhone(ctx, phone)
}

// CreateClient alta directa (ruta admin). El nombre de empresa no puede repetirse.
func (s *Service) CreateClient(ctx context.Context, candidate *entity.Client) (*entity.Client, error) {
	if candidate == nil {
		return nil, domain.ErrInvalidInput
	}
	c := *candidate
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("%w: la empresa es requerida", domain.ErrInvalidInput)
	}
	existing, err := s.clients.GetByName(ctx, c.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateIdentifier
	}
	if s.opts.PhonePolicy == PhoneStrict && c.Phone != "" {
		dup, err := s.clients.GetByPhone(ctx, c.Phone)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, fmt.Errorf("%w: el teléfono %s ya pertenece a %s", domain.ErrDuplicateIdentifier, c.Phone, dup.Name)
		}
	}
	return s.insertClient(ctx, &c)
}

func (s *Service) insertClient(ctx context.Context, c *entity.Client) (*entity.Client, error) {
	if c.Type == "" {
		c.Type = entity.DefaultClientType
	}
	if c.ID == "" {
		c.ID = s.newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ── Reportes ──────────────────────────────────────────────────────────────────

// ListReports devuelve todos los reportes, del más reciente al más antiguo.
// El orden se aplica aquí porque no todos los backends lo garantizan.
func (s *Service) ListReports(ctx context.Context) ([]*entity.Report, error) {
	list, err := s.reports.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// CreateReport asigna ID y timestamp, persiste el reporte y DESPUÉS registra la empresa
// como cliente si ningún cliente tiene exactamente ese nombre.
// Si el alta del cliente falla se devuelve el reporte guardado junto con ErrClientUpsert.
func (s *Service) CreateReport(ctx context.Context, candidate *entity.Report) (*entity.Report, error) {
	if candidate == nil {
		return nil, domain.ErrInvalidInput
	}
	r := *candidate
	if err := normalizeReport(&r); err != nil {
		return nil, err
	}
	r.ID = s.newID()
	r.CreatedAt = s.now().UTC()
	if err := s.reports.Create(ctx, &r); err != nil {
		return nil, err
	}

	if err := s.upsertClient(ctx, &r); err != nil {
		return &r, fmt.Errorf("%w: %w", ErrClientUpsert, err)
	}
	return &r, nil
}

func (s *Service) upsertClient(ctx context.Context, r *entity.Report) error {
	existing, err := s.clients.GetByName(ctx, r.Company)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	if s.opts.PhonePolicy == PhoneStrict && r.ContactPhone != "" {
		dup, err := s.clients.GetByPhone(ctx, r.ContactPhone)
		if err != nil {
			return err
		}
		if dup != nil {
			s.log.Warn().
				Str("empresa", r.Company).
				Str("telefono", r.ContactPhone).
				Str("cliente_existente", dup.Name).
				Msg("cliente no registrado: teléfono duplicado")
			return nil
		}
	}
	c, err := s.insertClient(ctx, entity.ClientFromReport(r))
	if err != nil {
		return err
	}
	s.log.Info().Str("cliente", c.Name).Str("reporte", r.ID).Msg("cliente registrado desde reporte")
	return nil
}

func normalizeReport(r *entity.Report) error {
	r.Advisor = strings.TrimSpace(r.Advisor)
	r.Company = strings.TrimSpace(r.Company)
	r.ContactName = strings.TrimSpace(r.ContactName)
	r.ContactPhone = strings.TrimSpace(r.ContactPhone)

	var missing []string
	if r.Advisor == "" {
		missing = append(missing, "asesor")
	}
	if r.Date == "" {
		missing = append(missing, "fecha")
	}
	if r.Company == "" {
		missing = append(missing, "empresa")
	}
	if r.ContactName == "" {
		missing = append(missing, "nombre_cliente")
	}
	if r.ContactPhone == "" {
		missing = append(missing, "contacto")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: campos requeridos: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	if _, err := time.Parse(entity.DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: fecha %q debe tener formato YYYY-MM-DD", domain.ErrInvalidInput, r.Date)
	}
	for _, hm := range []string{r.StartTime, r.EndTime} {
		if hm == "" {
			continue
		}
		if _, err := time.Parse("15:04", hm); err != nil {
			return fmt.Errorf("%w: hora %q debe tener formato HH:MM", domain.ErrInvalidInput, hm)
		}
	}
	if r.Activity == "" {
		r.Activity = entity.ActivityVisit
	}
	if !entity.ValidActivity(r.Activity) {
		return fmt.Errorf("%w: tipo de actividad %q no soportado", domain.ErrInvalidInput, r.Activity)
	}
	if r.Amount.Valid && r.Amount.Decimal.IsNegative() {
		return fmt.Errorf("%w: el monto no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}
