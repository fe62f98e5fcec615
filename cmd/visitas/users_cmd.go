package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

func (c *cli) usersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Administración de cuentas (admin)"}
	cmd.AddCommand(c.usersListCmd(), c.usersCreateCmd(), c.usersInviteCmd(), c.usersPasswdCmd())
	return cmd
}

func (c *cli) usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista las cuentas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			users, err := c.container.Records.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USUARIO\tNOMBRE\tROL\tESTADO")
			for _, u := range users {
				state := "activo"
				if u.IsInvite() {
					state = "invitado"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Identifier, u.Name, u.Role, state)
			}
			return w.Flush()
		},
	}
}

func (c *cli) usersCreateCmd() *cobra.Command {
	var name, role, password string
	cmd := &cobra.Command{
		Use:   "create <usuario>",
		Short: "Crea una cuenta con contraseña",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			var err error
			if password == "" {
				if password, err = c.prompt("Contraseña: "); err != nil {
					return err
				}
			}
			if password == "" {
				return fmt.Errorf("la contraseña es requerida; use 'users invite' para invitar sin contraseña")
			}
			u, err := c.container.Verifier.Provision(cmd.Context(), &entity.User{Identifier: args[0], Name: name, Role: role}, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Usuario %s creado (%s)\n", u.Identifier, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "nombre", "n", "", "nombre visible")
	cmd.Flags().StringVarP(&role, "rol", "r", entity.RoleVendor, "admin | vendor")
	cmd.Flags().StringVarP(&password, "password", "p", "", "contraseña")
	return cmd
}

func (c *cli) usersInviteCmd() *cobra.Command {
	var name, role string
	cmd := &cobra.Command{
		Use:   "invite <usuario>",
		Short: "Invita una cuenta que elige su contraseña en el primer login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			u, err := c.container.Records.CreateInvite(cmd.Context(), args[0], name, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Invitación creada para %s\n", u.Identifier)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "nombre", "n", "", "nombre visible")
	cmd.Flags().StringVarP(&role, "rol", "r", entity.RoleVendor, "admin | vendor")
	return cmd
}

func (c *cli) usersPasswdCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "passwd <usuario>",
		Short: "Cambia la contraseña de una cuenta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			var err error
			if password == "" {
				if password, err = c.prompt("Nueva contraseña: "); err != nil {
					return err
				}
			}
			if err := c.container.Verifier.ChangeSecret(cmd.Context(), args[0], password); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Contraseña actualizada")
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "nueva contraseña")
	return cmd
}
