package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión y la guarda en el equipo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if username == "" {
				if username, err = c.prompt("Usuario: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = c.prompt("Contraseña: "); err != nil {
					return err
				}
			}
			s, err := c.sessions.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Bienvenido, %s (%s)\n", s.Name, s.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "usuario", "u", "", "usuario o email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "contraseña (si se omite se pide por consola)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión local y en el proveedor de identidad",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Sesión cerrada")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra la sesión actual (sin consultar la red)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.sessions.CurrentSession(cmd.Context())
			if err != nil {
				return err
			}
			if s == nil {
				fmt.Fprintln(c.out, "Sin sesión")
				return nil
			}
			fmt.Fprintf(c.out, "%s\t%s\t%s\n", s.Identifier, s.Name, s.Role)
			return nil
		},
	}
}
