package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/visitas-api/internal/application/clients"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

func (c *cli) clientsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "clients", Short: "Directorio de clientes"}
	cmd.AddCommand(c.clientsListCmd(), c.clientsSearchCmd(), c.clientsPhoneCmd())
	return cmd
}

func (c *cli) clientsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista todos los clientes (admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			list, err := c.container.Records.ListClients(cmd.Context())
			if err != nil {
				return err
			}
			return printClients(c.out, list)
		},
	}
}

func (c *cli) clientsSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <texto>",
		Short: "Sugiere clientes por empresa o contacto (mínimo 2 caracteres)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.requireSession(cmd.Context()); err != nil {
				return err
			}
			list, err := c.container.Autocomplete.Suggest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printClients(c.out, list)
		},
	}
}

func (c *cli) clientsPhoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phone <teléfono>",
		Short: "Verifica si el teléfono ya está registrado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.requireSession(cmd.Context()); err != nil {
				return err
			}
			client, exists, err := c.container.Autocomplete.DuplicatePhone(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !exists {
				fmt.Fprintln(c.out, "Teléfono libre")
				return nil
			}
			fmt.Fprintf(c.out, "%s: %s (%s)\n", clients.DuplicatePhoneWarning, client.Name, client.Contact)
			return nil
		},
	}
}

func printClients(out io.Writer, list []*entity.Client) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMPRESA\tCONTACTO\tTELÉFONO\tTIPO")
	for _, cl := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cl.Name, cl.Contact, cl.Phone, cl.Type)
	}
	return w.Flush()
}
