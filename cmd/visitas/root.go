package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/visitas-api/internal/app"
	"github.com/jhoicas/visitas-api/internal/application/auth"
	"github.com/jhoicas/visitas-api/internal/application/records"
	"github.com/jhoicas/visitas-api/internal/application/reports"
	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/infrastructure/session"
	"github.com/jhoicas/visitas-api/pkg/config"
	"github.com/jhoicas/visitas-api/pkg/logger"
)

// cli estado compartido por los comandos; se inicializa en PersistentPreRunE.
type cli struct {
	in  *bufio.Reader
	out io.Writer
	err io.Writer

	cfg       *config.Config
	container *app.Container
	sessions  *auth.SessionManager
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: bufio.NewReader(in), out: out, err: errOut}
	root := &cobra.Command{
		Use:           "visitas",
		Short:         "Reportes de visitas y ventas de asesores",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.container == nil {
				return nil
			}
			return c.container.Close()
		},
	}
	root.AddCommand(
		c.loginCmd(), c.logoutCmd(), c.whoamiCmd(),
		c.usersCmd(), c.clientsCmd(), c.reportsCmd(),
	)
	return root
}

func (c *cli) init(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: "production", Level: cfg.App.LogLevel, App: "visitas-cli", Output: c.err})

	container, err := app.Build(ctx, cfg, app.ConsoleAnnouncer(c.err), log.Zerolog())
	if err != nil {
		return err
	}
	// Una vez por proceso, antes de cualquier comando.
	if _, err := container.Bootstrap.Run(ctx); err != nil {
		log.Error().Err(err).Msg("crear administrador inicial")
	}
	c.cfg = cfg
	c.container = container
	c.sessions = auth.NewSessionManager(container.Verifier, session.NewFileStore(cfg.Session.Dir))
	return nil
}

// requireSession exige una sesión iniciada.
func (c *cli) requireSession(ctx context.Context) (*entity.Session, error) {
	s, err := c.sessions.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: inicie sesión con 'visitas login'", domain.ErrUnauthorized)
	}
	return s, nil
}

// requireAdmin exige una sesión de administrador.
func (c *cli) requireAdmin(ctx context.Context) (*entity.Session, error) {
	s, err := c.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !s.IsAdmin() {
		return nil, fmt.Errorf("%w: comando solo para administradores", domain.ErrForbidden)
	}
	return s, nil
}

// prompt lee una línea de la entrada estándar.
func (c *cli) prompt(label string) (string, error) {
	fmt.Fprint(c.err, label)
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// describe mensaje para el usuario según el tipo de falla.
func describe(err error) string {
	switch {
	case errors.Is(err, records.ErrClientUpsert):
		return err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Usuario o contraseña incorrectos"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return "El almacenamiento no está disponible. Intente más tarde."
	case errors.Is(err, domain.ErrNoData):
		return reports.NoDataMessage
	default:
		return err.Error()
	}
}
