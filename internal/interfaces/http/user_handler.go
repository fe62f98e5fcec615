package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/visitas-api/internal/application/auth"
	"github.com/jhoicas/visitas-api/internal/application/dto"
	"github.com/jhoicas/visitas-api/internal/application/records"
	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// UserHandler administración de cuentas (solo admin).
type UserHandler struct {
	records  *records.Service
	verifier *auth.Verifier
}

// NewUserHandler construye el handler.
func NewUserHandler(rs *records.Service, verifier *auth.Verifier) *UserHandler {
	return &UserHandler{records: rs, verifier: verifier}
}

// List GET /api/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.records.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.NewUserResponse(u))
	}
	return c.JSON(dto.NewList(items))
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "username, password, name, role"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(in.Password) == "" {
		return respondError(c, domain.ErrInvalidInput)
	}
	user, err := h.verifier.Provision(c.UserContext(), &entity.User{
		Identifier: in.Username,
		Name:       in.Name,
		Role:       defaultRole(in.Role),
	}, in.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Invite POST /api/users/invite: cuenta sin contraseña que se reclama en el primer login.
func (h *UserHandler) Invite(c *fiber.Ctx) error {
	var in dto.InviteUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := h.records.CreateInvite(c.UserContext(), in.Username, in.Name, defaultRole(in.Role))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// UpdatePassword PUT /api/users/:identifier/password
func (h *UserHandler) UpdatePassword(c *fiber.Ctx) error {
	var in dto.UpdatePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.verifier.ChangeSecret(c.UserContext(), c.Params("identifier"), in.Password); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func defaultRole(role string) string {
	if role == "" {
		return entity.RoleVendor
	}
	return role
}
