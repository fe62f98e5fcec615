package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/visitas-api/internal/app"
	"github.com/jhoicas/visitas-api/internal/application/dto"
	"github.com/jhoicas/visitas-api/internal/infrastructure/metrics"
	httpRouter "github.com/jhoicas/visitas-api/internal/interfaces/http"
	"github.com/jhoicas/visitas-api/pkg/config"
	"github.com/jhoicas/visitas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	if cfg.JWT.Secret == "" {
		panic("JWT_SECRET es requerido")
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Backend).
		Str("auth", cfg.Auth.Mode).
		Msg("iniciando aplicación")

	// Sentry (opcional)
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.App.Env,
		}); err != nil {
			log.Error().Err(err).Msg("sentry init")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()
	container, err := app.Build(ctx, cfg, nil, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar núcleo")
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar almacenamiento")
		}
	}()

	// Administrador inicial: una vez por proceso, antes de aceptar peticiones.
	if _, err := container.Bootstrap.Run(ctx); err != nil {
		log.Error().Err(err).Msg("crear administrador inicial")
	}

	m := metrics.New()

	fiberApp := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	if cfg.Sentry.DSN != "" {
		fiberApp.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}
	fiberApp.Use(recover.New())
	fiberApp.Use(requestid.New())
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Authorization, Accept",
		AllowMethods: "GET, POST, PUT, OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	fiberApp.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Visitas API",
	}))

	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": container.Backend.Name})
	})
	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	httpRouter.Router(fiberApp, httpRouter.RouterDeps{
		Records:      container.Records,
		Verifier:     container.Verifier,
		Autocomplete: container.Autocomplete,
		Exporter:     container.Exporter,
		Metrics:      m,
		JWT:          cfg.JWT,
		LoginLimiter: limiter.New(limiter.Config{
			Max:               cfg.HTTP.LoginPerMin,
			Expiration:        1 * time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "TOO_MANY_ATTEMPTS", Message: "demasiados intentos, espere un minuto"})
			},
		}),
	})

	go func() {
		if err := fiberApp.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
