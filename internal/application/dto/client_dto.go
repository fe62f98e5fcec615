package dto

import (
	"time"

	"github.com/jhoicas/visitas-api/internal/application/clients"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Type    string `json:"type,omitempty"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Phone     string    `json:"phone"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// NewClientResponse convierte la entidad.
func NewClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{ID: c.ID, Name: c.Name, Contact: c.Contact, Phone: c.Phone, Type: c.Type, CreatedAt: c.CreatedAt}
}

// NewClientList convierte una lista de clientes.
func NewClientList(list []*entity.Client) ListResponse[ClientResponse] {
	items := make([]ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, NewClientResponse(c))
	}
	return NewList(items)
}

// PhoneCheckResponse resultado de GET /api/clients/phone/:phone.
type PhoneCheckResponse struct {
	Exists  bool            `json:"exists"`
	Warning string          `json:"warning,omitempty"`
	Client  *ClientResponse `json:"client,omitempty"`
}

// SuggestionResponse sugerencia del autocompletado: el cliente y los campos que completa.
type SuggestionResponse struct {
	Client ClientResponse      `json:"client"`
	Fill   clients.ReportDraft `json:"fill"`
}

// NewSuggestionList convierte las sugerencias copiando cada cliente a un borrador.
func NewSuggestionList(list []*entity.Client) ListResponse[SuggestionResponse] {
	items := make([]SuggestionResponse, 0, len(list))
	for _, c := range list {
		var draft clients.ReportDraft
		clients.Select(&draft, c)
		items = append(items, SuggestionResponse{Client: NewClientResponse(c), Fill: draft})
	}
	return NewList(items)
}
