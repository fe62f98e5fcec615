package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/visitas-api/internal/application/auth"
	"github.com/jhoicas/visitas-api/internal/application/clients"
	"github.com/jhoicas/visitas-api/internal/application/records"
	"github.com/jhoicas/visitas-api/internal/application/reports"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/infrastructure/metrics"
	"github.com/jhoicas/visitas-api/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Records      *records.Service
	Verifier     *auth.Verifier
	Autocomplete *clients.Autocomplete
	Exporter     *reports.Exporter
	Metrics      *metrics.Metrics
	JWT          config.JWTConfig
	LoginLimiter fiber.Handler // opcional
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Verifier, deps.JWT, deps.Metrics)
	login := []fiber.Handler{authHandler.Login}
	if deps.LoginLimiter != nil {
		login = append([]fiber.Handler{deps.LoginLimiter}, login...)
	}
	api.Post("/auth/login", login...)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWT.Secret))
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleVendor)

	protected.Get("/auth/session", authHandler.Session)
	protected.Post("/auth/logout", authHandler.Logout)

	// Usuarios (admin)
	userHandler := NewUserHandler(deps.Records, deps.Verifier)
	users := protected.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Post("/invite", userHandler.Invite)
	users.Put("/:identifier/password", userHandler.UpdatePassword)

	// Clientes
	clientHandler := NewClientHandler(deps.Records, deps.Autocomplete)
	clientsGroup := protected.Group("/clients")
	clientsGroup.Get("/suggest", anyRole, clientHandler.Suggest)
	clientsGroup.Get("/phone/:phone", anyRole, clientHandler.Phone)
	clientsGroup.Get("/", adminOnly, clientHandler.List)
	clientsGroup.Post("/", adminOnly, clientHandler.Create)

	// Reportes
	reportHandler := NewReportHandler(deps.Records, deps.Exporter, deps.Metrics)
	reportsGroup := protected.Group("/reports")
	reportsGroup.Post("/", anyRole, reportHandler.Create)
	reportsGroup.Get("/mine", anyRole, reportHandler.Mine)
	reportsGroup.Get("/advisors", adminOnly, reportHandler.Advisors)
	reportsGroup.Get("/export", adminOnly, reportHandler.Export)
	reportsGroup.Get("/", adminOnly, reportHandler.List)
}
