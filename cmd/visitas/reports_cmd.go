package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/visitas-api/internal/application/clients"
	"github.com/jhoicas/visitas-api/internal/application/records"
	"github.com/jhoicas/visitas-api/internal/application/reports"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

func (c *cli) reportsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "reports", Short: "Reportes de visitas y ventas"}
	cmd.AddCommand(c.reportsListCmd(), c.reportsCreateCmd(), c.reportsExportCmd())
	return cmd
}

func criteriaFlags(cmd *cobra.Command, crit *entity.Criteria) {
	cmd.Flags().StringVar(&crit.DateFrom, "desde", "", "fecha inicial YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&crit.DateTo, "hasta", "", "fecha final YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&crit.Advisor, "asesor", "", "nombre exacto del asesor")
	cmd.Flags().StringVar(&crit.Company, "empresa", "", "parte del nombre de la empresa")
}

func (c *cli) reportsListCmd() *cobra.Command {
	var crit entity.Criteria
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista reportes (los propios para asesores; filtrados para admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			if !s.IsAdmin() {
				crit.Advisor = ""
			}
			list, err := c.container.Exporter.Query(cmd.Context(), crit)
			if err != nil {
				return err
			}
			if !s.IsAdmin() {
				list = reports.Owned(list, s.Identifier, s.Name)
			}
			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FECHA\tASESOR\tEMPRESA\tCONTACTO\tACTIVIDAD\tMONTO\tCOBRANZA")
			for _, r := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.Date, r.Advisor, r.Company, r.ContactName,
					r.Activity, reports.FormatAmount(r), reports.FormatCollected(r.Collected))
			}
			fmt.Fprintf(w, "\nTotal: %d\n", len(list))
			return w.Flush()
		},
	}
	criteriaFlags(cmd, &crit)
	return cmd
}

func (c *cli) reportsCreateCmd() *cobra.Command {
	var (
		r      entity.Report
		amount string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Registra un reporte de visita con la sesión actual como asesor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := c.requireSession(ctx)
			if err != nil {
				return err
			}
			r.Advisor = s.Name
			r.AdvisorID = s.Identifier
			if r.Date == "" {
				r.Date = time.Now().Format(entity.DateLayout)
			}
			if amount != "" {
				d, err := decimal.NewFromString(strings.ReplaceAll(amount, ",", "."))
				if err != nil {
					return fmt.Errorf("monto inválido %q", amount)
				}
				r.Amount = decimal.NewNullDecimal(d)
			}
			if err := c.fillFromDirectory(cmd, &r); err != nil {
				return err
			}

			saved, err := c.container.Records.CreateReport(ctx, &r)
			if errors.Is(err, records.ErrClientUpsert) && saved != nil {
				fmt.Fprintf(c.out, "Reporte %s guardado\n", saved.ID)
				fmt.Fprintln(c.err, "advertencia:", err)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Reporte %s guardado\n", saved.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&r.Date, "fecha", "", "YYYY-MM-DD (por defecto hoy)")
	f.StringVar(&r.StartTime, "inicio", "", "hora de inicio HH:MM")
	f.StringVar(&r.EndTime, "fin", "", "hora de fin HH:MM")
	f.StringVar(&r.Company, "empresa", "", "empresa visitada")
	f.StringVar(&r.ContactName, "cliente", "", "nombre del contacto")
	f.StringVar(&r.ContactPhone, "telefono", "", "teléfono del contacto")
	f.StringVar(&r.ClientType, "tipo-cliente", "", "tipo de cliente (por defecto Nuevo)")
	f.StringVar(&r.Activity, "actividad", entity.ActivityVisit, "visita | capacitacion")
	f.StringVar(&r.Description, "descripcion", "", "descripción")
	f.StringVar(&r.Observations, "observaciones", "", "observaciones")
	f.StringVar(&amount, "monto", "", "monto facturado")
	f.StringVar(&r.Invoice, "factura", "", "número de factura")
	f.BoolVar(&r.Collected, "cobranza", false, "se realizó cobranza")
	return cmd
}

// fillFromDirectory completa contacto, teléfono y tipo desde el directorio cuando la
// empresa coincide exactamente con un cliente y esos campos no se indicaron. Advierte
// si el teléfono ya pertenece a otro cliente.
func (c *cli) fillFromDirectory(cmd *cobra.Command, r *entity.Report) error {
	ctx := cmd.Context()
	suggestions, err := c.container.Autocomplete.Suggest(ctx, r.Company)
	if err != nil {
		return err
	}
	for _, cl := range suggestions {
		if cl.Name != r.Company {
			continue
		}
		draft := clients.ReportDraft{Company: r.Company, ContactName: r.ContactName, ContactPhone: r.ContactPhone, ClientType: r.ClientType}
		clients.Select(&draft, cl)
		if r.ContactName != "" {
			draft.ContactName = r.ContactName
		}
		if r.ContactPhone != "" {
			draft.ContactPhone = r.ContactPhone
		}
		draft.Apply(r)
		return nil
	}
	if r.ContactPhone == "" {
		return nil
	}
	owner, exists, err := c.container.Autocomplete.DuplicatePhone(ctx, r.ContactPhone)
	if err != nil {
		return err
	}
	if exists {
		fmt.Fprintf(c.err, "advertencia: %s (%s)\n", clients.DuplicatePhoneWarning, owner.Name)
	}
	return nil
}

func (c *cli) reportsExportCmd() *cobra.Command {
	var (
		crit   entity.Criteria
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta los reportes filtrados a CSV o PDF (admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			exp, err := c.container.Exporter.Export(cmd.Context(), crit, reports.Format(strings.ToLower(format)))
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = exp.Filename
			}
			if err := os.WriteFile(path, exp.Data, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", path, err)
			}
			fmt.Fprintf(c.out, "%d reportes exportados a %s\n", exp.Count, path)
			if exp.Location != "" {
				fmt.Fprintf(c.out, "Copia archivada en %s\n", exp.Location)
			}
			return nil
		},
	}
	criteriaFlags(cmd, &crit)
	cmd.Flags().StringVarP(&format, "formato", "f", string(reports.FormatCSV), "csv | pdf")
	cmd.Flags().StringVarP(&output, "salida", "o", "", "archivo de salida (por defecto reporte_ventas_<fecha>.<ext>)")
	return cmd
}
