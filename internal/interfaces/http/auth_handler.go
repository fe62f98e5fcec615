package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/visitas-api/internal/application/auth"
	"github.com/jhoicas/visitas-api/internal/application/dto"
	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/infrastructure/metrics"
	"github.com/jhoicas/visitas-api/pkg/config"
	"github.com/jhoicas/visitas-api/pkg/jwt"
)

// AuthHandler maneja login, sesión y logout. El token JWT es la sesión del lado HTTP.
type AuthHandler struct {
	verifier *auth.Verifier
	jwt      config.JWTConfig
	metrics  *metrics.Metrics
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(verifier *auth.Verifier, jwtCfg config.JWTConfig, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{verifier: verifier, jwt: jwtCfg, metrics: m}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := h.verifier.Authenticate(c.UserContext(), in.Username, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBackendUnavailable):
			h.metrics.Logins.WithLabelValues(metrics.LoginUnavailable).Inc()
		default:
			h.metrics.Logins.WithLabelValues(metrics.LoginInvalid).Inc()
		}
		return respondError(c, err)
	}
	session := entity.NewSession(user)
	token, err := jwt.Generate(h.jwt.Secret, session, h.jwt.Issuer, h.jwt.Expiration)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.Logins.WithLabelValues(metrics.LoginOK).Inc()
	return c.JSON(dto.LoginResponse{Token: token, Session: dto.NewSessionResponse(session)})
}

// Session GET /api/auth/session
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	s := GetSession(c)
	if s == nil {
		return respondError(c, domain.ErrUnauthorized)
	}
	return c.JSON(dto.NewSessionResponse(s))
}

// Logout POST /api/auth/logout. El cliente descarta el token; aquí se cierra la sesión
// en el proveedor de identidad, si lo hay.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.verifier.SignOut(c.UserContext(), GetIdentifier(c))
	return c.SendStatus(fiber.StatusNoContent)
}
