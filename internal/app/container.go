// Package app arma las dependencias del núcleo a partir de la configuración.
// Lo comparten el servidor HTTP, la CLI y la herramienta de carga inicial.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/visitas-api/internal/application/auth"
	"github.com/jhoicas/visitas-api/internal/application/clients"
	"github.com/jhoicas/visitas-api/internal/application/ports"
	"github.com/jhoicas/visitas-api/internal/application/records"
	"github.com/jhoicas/visitas-api/internal/application/reports"
	"github.com/jhoicas/visitas-api/internal/domain/repository"
	"github.com/jhoicas/visitas-api/internal/infrastructure/archive"
	"github.com/jhoicas/visitas-api/internal/infrastructure/backend"
	"github.com/jhoicas/visitas-api/internal/infrastructure/identity"
	"github.com/jhoicas/visitas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/visitas-api/internal/infrastructure/seed"
	"github.com/jhoicas/visitas-api/pkg/config"
)

// Container dependencias listas para usar.
type Container struct {
	Backend      *repository.Backend
	Records      *records.Service
	Verifier     *auth.Verifier
	Bootstrap    *auth.Bootstrap
	Autocomplete *clients.Autocomplete
	Exporter     *reports.Exporter
}

// Build abre el almacenamiento y construye los servicios. announcer recibe las
// credenciales del administrador inicial; nil usa ConsoleAnnouncer.
func Build(ctx context.Context, cfg *config.Config, announcer auth.Announcer, log zerolog.Logger) (*Container, error) {
	mode := auth.Mode(cfg.Auth.Mode)

	// En modo provider las cuentas del documento inicial quedan como invitaciones.
	var seedHasher seed.Hasher
	if mode != auth.ModeProvider {
		h, err := auth.NewHasher(mode)
		if err != nil {
			return nil, err
		}
		seedHasher = h
	}
	b, err := backend.Open(ctx, cfg, seedHasher, log)
	if err != nil {
		return nil, err
	}

	rs := records.NewService(b, records.Options{
		PhonePolicy: records.PhonePolicy(cfg.Clients.PhonePolicy),
		MatchPhone:  cfg.Clients.MatchPhone,
	}, log.With().Str("component", "records").Logger())

	var provider ports.IdentityProvider
	if mode == auth.ModeProvider {
		provider = identity.NewToolkit(cfg.Identity.BaseURL, cfg.Identity.APIKey, time.Duration(cfg.Identity.TimeoutSeconds)*time.Second)
	}
	authLog := log.With().Str("component", "auth").Logger()
	verifier, err := auth.NewVerifier(rs, provider, auth.Options{
		Mode:             mode,
		AllowInviteClaim: cfg.Auth.AllowInviteClaim,
	}, authLog)
	if err != nil {
		_ = b.Shutdown()
		return nil, err
	}

	if announcer == nil {
		announcer = ConsoleAnnouncer(os.Stderr)
	}
	bootstrap := auth.NewBootstrap(rs, verifier, announcer, auth.BootstrapConfig{
		Identifier: cfg.Auth.BootstrapIdentifier,
		Name:       cfg.Auth.BootstrapName,
		Secret:     cfg.Auth.BootstrapSecret,
	}, authLog)

	archiver, err := archive.New(cfg.Export)
	if err != nil {
		_ = b.Shutdown()
		return nil, err
	}
	exporter := reports.NewExporter(rs, pdf.NewReportRenderer("Reporte de visitas y ventas"), archiver,
		reports.ExporterOptions{Encoding: cfg.Export.Encoding},
		log.With().Str("component", "export").Logger())

	return &Container{
		Backend:      b,
		Records:      rs,
		Verifier:     verifier,
		Bootstrap:    bootstrap,
		Autocomplete: clients.NewAutocomplete(rs),
		Exporter:     exporter,
	}, nil
}

// Close libera el almacenamiento.
func (c *Container) Close() error {
	return c.Backend.Shutdown()
}

// ConsoleAnnouncer muestra las credenciales del administrador inicial una sola vez en
// consola. No pasan por el logger para no quedar persistidas en los logs.
func ConsoleAnnouncer(w io.Writer) auth.Announcer {
	return auth.AnnouncerFunc(func(identifier, secret string) {
		fmt.Fprintf(w, "\n==============================================\n"+
			" Administrador inicial creado\n"+
			"   usuario:    %s\n"+
			"   contraseña: %s\n"+
			" Guarde estas credenciales: no se mostrarán de nuevo.\n"+
			"==============================================\n\n", identifier, secret)
	})
}
