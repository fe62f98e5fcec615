package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/visitas-api/internal/application/clients"
	"github.com/jhoicas/visitas-api/internal/application/dto"
	"github.com/jhoicas/visitas-api/internal/application/records"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// ClientHandler directorio de clientes: autocompletado para asesores, alta y listado para admin.
type ClientHandler struct {
	records      *records.Service
	autocomplete *clients.Autocomplete
}

// NewClientHandler construye el handler.
func NewClientHandler(rs *records.Service, ac *clients.Autocomplete) *ClientHandler {
	return &ClientHandler{records: rs, autocomplete: ac}
}

// Suggest GET /api/clients/suggest?q=
func (h *ClientHandler) Suggest(c *fiber.Ctx) error {
	list, err := h.autocomplete.Suggest(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewSuggestionList(list))
}

// Phone GET /api/clients/phone/:phone. Advertencia no bloqueante.
func (h *ClientHandler) Phone(c *fiber.Ctx) error {
	client, exists, err := h.autocomplete.DuplicatePhone(c.UserContext(), c.Params("phone"))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.PhoneCheckResponse{Exists: exists}
	if exists {
		resp := dto.NewClientResponse(client)
		out.Warning = clients.DuplicatePhoneWarning
		out.Client = &resp
	}
	return c.JSON(out)
}

// List GET /api/clients
func (h *ClientHandler) List(c *fiber.Ctx) error {
	list, err := h.records.ListClients(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewClientList(list))
}

// Create godoc
// @Summary      Registrar cliente
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClientRequest  true  "name, contact, phone, type"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	client, err := h.records.CreateClient(c.UserContext(), &entity.Client{
		Name:    in.Name,
		Contact: in.Contact,
		Phone:   in.Phone,
		Type:    in.Type,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewClientResponse(client))
}
