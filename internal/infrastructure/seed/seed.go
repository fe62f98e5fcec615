// Package seed carga datos iniciales (usuarios y clientes) desde YAML o desde el CSV de
// clientes heredado, y los inserta a través del Record Store.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

//go:embed demo.yaml
var demoYAML []byte

// Document forma del archivo de semilla.
type Document struct {
	Users   []User   `yaml:"users"`
	Clients []Client `yaml:"clients"`
}

// User cuenta de la semilla. Password vacío crea una invitación.
type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
}

// Client empresa de la semilla.
type Client struct {
	Name    string `yaml:"name"`
	Contact string `yaml:"contact"`
	Phone   string `yaml:"phone"`
	Type    string `yaml:"type"`
}

// Parse decodifica un documento YAML.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("seed: yaml inválido: %w", err)
	}
	for i, u := range doc.Users {
		if strings.TrimSpace(u.Username) == "" {
			return nil, fmt.Errorf("seed: usuario %d sin username", i+1)
		}
		if u.Role == "" {
			doc.Users[i].Role = entity.RoleVendor
		} else if !entity.ValidRole(u.Role) {
			return nil, fmt.Errorf("seed: rol inválido %q para %s", u.Role, u.Username)
		}
	}
	for i, c := range doc.Clients {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("seed: cliente %d sin nombre", i+1)
		}
	}
	return &doc, nil
}

// Load lee y decodifica el archivo indicado.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: leer %s: %w", path, err)
	}
	return Parse(data)
}

// Demo datos de demostración: admin/123, juan/123 y dos clientes.
func Demo() *Document {
	doc, err := Parse(demoYAML)
	if err != nil {
		panic(err)
	}
	return doc
}

// Hasher transforma la contraseña antes de guardarla.
type Hasher interface {
	Hash(secret string) (string, error)
}

// Entities convierte el documento en entidades listas para escribirse tal cual.
// Con hasher nil las cuentas quedan como invitaciones.
func (d *Document) Entities(h Hasher) ([]*entity.User, []*entity.Client, error) {
	now := time.Now().UTC()
	users := make([]*entity.User, 0, len(d.Users))
	for _, u := range d.Users {
		secret := ""
		if h != nil && u.Password != "" {
			hash, err := h.Hash(u.Password)
			if err != nil {
				return nil, nil, err
			}
			secret = hash
		}
		users = append(users, &entity.User{
			ID:         uuid.NewString(),
			Identifier: strings.TrimSpace(u.Username),
			Secret:     secret,
			Name:       nonEmpty(u.Name, u.Username),
			Role:       u.Role,
			CreatedAt:  now,
		})
	}
	clients := make([]*entity.Client, 0, len(d.Clients))
	for _, c := range d.Clients {
		client := c.entity()
		client.ID = uuid.NewString()
		client.CreatedAt = now
		clients = append(clients, client)
	}
	return users, clients, nil
}

func (c Client) entity() *entity.Client {
	return &entity.Client{
		Name:    strings.TrimSpace(c.Name),
		Contact: strings.TrimSpace(c.Contact),
		Phone:   strings.TrimSpace(c.Phone),
		Type:    nonEmpty(strings.TrimSpace(c.Type), entity.DefaultClientType),
	}
}

// ── Importación a través del Record Store ─────────────────────────────────────

// UserProvisioner crea cuentas aplicando el modo de autenticación.
type UserProvisioner interface {
	Provision(ctx context.Context, user *entity.User, secret string) (*entity.User, error)
}

// ClientCreator registra clientes con las reglas del directorio.
type ClientCreator interface {
	CreateClient(ctx context.Context, c *entity.Client) (*entity.Client, error)
}

// Result conteo de una importación.
type Result struct {
	Users   int
	Clients int
	Skipped int
}

// Importer inserta documentos de semilla; los duplicados se omiten y se cuentan.
type Importer struct {
	users   UserProvisioner
	clients ClientCreator
}

// NewImporter construye el importador.
func NewImporter(users UserProvisioner, clients ClientCreator) *Importer {
	return &Importer{users: users, clients: clients}
}

// Apply inserta usuarios y luego clientes. Se detiene en el primer error que no sea duplicado.
func (im *Importer) Apply(ctx context.Context, doc *Document) (Result, error) {
	var res Result
	for _, u := range doc.Users {
		user := &entity.User{Identifier: u.Username, Name: u.Name, Role: u.Role}
		_, err := im.users.Provision(ctx, user, u.Password)
		switch {
		case errors.Is(err, domain.ErrDuplicateIdentifier):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("seed: usuario %s: %w", u.Username, err)
		default:
			res.Users++
		}
	}
	n, skipped, err := im.ImportClients(ctx, doc.Clients)
	res.Clients += n
	res.Skipped += skipped
	return res, err
}

// ImportClients inserta clientes; devuelve creados y omitidos.
func (im *Importer) ImportClients(ctx context.Context, list []Client) (int, int, error) {
	created, skipped := 0, 0
	for _, c := range list {
		_, err := im.clients.CreateClient(ctx, c.entity())
		switch {
		case errors.Is(err, domain.ErrDuplicateIdentifier):
			skipped++
		case err != nil:
			return created, skipped, fmt.Errorf("seed: cliente %s: %w", c.Name, err)
		default:
			created++
		}
	}
	return created, skipped, nil
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
