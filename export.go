package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"farmops/internal/api"
	"farmops/internal/config"
	"farmops/internal/dashboard"
	"farmops/internal/errors"
	"farmops/internal/statement"
	"farmops/internal/storage"

	"github.com/spf13/cobra"
)

// exportFlags are the filters accepted by both export subcommands.
type exportFlags struct {
	filters dashboard.Filters
	out     string
}

func (f *exportFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.filters.Search, "search", "", "free-text search")
	fl.StringVar(&f.filters.Status, "status", "", "status filter")
	fl.StringVar(&f.filters.StartDate, "from", "", "start date (YYYY-MM-DD)")
	fl.StringVar(&f.filters.EndDate, "to", "", "end date (YYYY-MM-DD)")
	fl.StringVar(&f.filters.SortBy, "sort-by", "", "sort field")
	fl.StringVar(&f.filters.SortOrder, "sort-order", "", "asc or desc")
	fl.StringVarP(&f.out, "out", "o", "", "output file; .html writes a printable page (default <kind>-statement-<time>.pdf)")
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate a statement from the command line",
	}

	var complaints exportFlags
	complaintsCmd := &cobra.Command{
		Use:   "complaints",
		Short: "Export a complaints statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), "complaints", complaints)
		},
	}
	complaints.bind(complaintsCmd)
	complaintsCmd.Flags().StringVar(&complaints.filters.Priority, "priority", "", "priority filter")
	complaintsCmd.Flags().StringVar(&complaints.filters.PartyType, "party-type", "", "complainant type filter")

	var withdrawers exportFlags
	withdrawersCmd := &cobra.Command{
		Use:   "withdrawers",
		Short: "Export a withdrawer payouts statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), "withdrawers", withdrawers)
		},
	}
	withdrawers.bind(withdrawersCmd)
	withdrawersCmd.Flags().StringVar(&withdrawers.filters.PartyType, "party-type", "", "withdrawer type filter")

	cmd.AddCommand(complaintsCmd, withdrawersCmd)
	return cmd
}

// runExport loads the filtered rows as the service account, renders the
// statement and records it in the export log.
func runExport(ctx context.Context, kind string, flags exportFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := serviceClient(ctx, cfg)
	if err != nil {
		return err
	}

	logo := statement.NewLogoLoader(cfg.LogoURL, api.GetHTTPClient()).DataURI(ctx)

	var (
		doc       string
		rec       storage.Record
		truncated bool
	)
	switch kind {
	case "complaints":
		desk := dashboard.NewComplaintDesk(client.Complaints(), nil, cfg.PageSize, cfg.ExportLimit)
		exp, err := desk.Export(ctx, flags.filters)
		if err != nil {
			return fmt.Errorf("failed to load complaints: %w", err)
		}
		filters := exp.FilterLine()
		doc = statement.BuildComplaintStatement(exp.Rows, filters, logo, exp.GeneratedAt)
		rec = storage.Record{Kind: exp.Kind, Filters: filters, Rows: len(exp.Rows), GeneratedAt: exp.GeneratedAt}
		truncated = exp.Truncated()
	default:
		desk := dashboard.NewPayoutDesk(client.Withdrawers(), cfg.PageSize, cfg.ExportLimit)
		exp, err := desk.Export(ctx, flags.filters)
		if err != nil {
			return fmt.Errorf("failed to load payouts: %w", err)
		}
		filters := exp.FilterLine()
		doc = statement.BuildPayoutStatement(exp.Rows, filters, logo, exp.GeneratedAt)
		rec = storage.Record{Kind: exp.Kind, Filters: filters, Rows: len(exp.Rows), GeneratedAt: exp.GeneratedAt}
		truncated = exp.Truncated()
	}
	if truncated {
		log.Printf("⚠️  Export capped at %d rows (EXPORT_LIMIT)", cfg.ExportLimit)
	}

	out := flags.out
	if out == "" {
		out = fmt.Sprintf("%s-statement-%s.pdf", rec.Kind, rec.GeneratedAt.Format("20060102-1504"))
	}

	data, format, err := renderStatement(ctx, cfg, doc, out)
	if err != nil {
		return err
	}
	if format == "html" && strings.ToLower(filepath.Ext(out)) != ".html" {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + ".html"
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	rec.Operator = cfg.APIEmail
	if rec.Operator == "" {
		rec.Operator = "service token"
	}
	rec.Role = "cli"
	rec.Format = format
	if _, err := storage.New(cfg.ExportAuditFile).Append(rec); err != nil {
		log.Printf("⚠️  Failed to record export: %v", err)
	}

	log.Printf("✓ Wrote %s (%d rows)", out, rec.Rows)
	return nil
}

// renderStatement prints doc to PDF, or returns the self-printing HTML page
// when out ends in .html or no browser is available.
func renderStatement(ctx context.Context, cfg *config.Config, doc, out string) ([]byte, string, error) {
	if strings.ToLower(filepath.Ext(out)) == ".html" {
		return []byte(statement.WithAutoPrint(doc)), "html", nil
	}

	printer, shutdown := newPrinter(cfg)
	defer shutdown()

	ctx, cancel := context.WithTimeout(ctx, cfg.PrintTimeout+10*time.Second)
	defer cancel()

	pdf, err := printer.PrintPDF(ctx, doc)
	switch {
	case errors.IsRendererUnavailable(err):
		log.Printf("⚠️  PDF renderer unavailable, writing printable HTML instead: %v", err)
		return []byte(statement.WithAutoPrint(doc)), "html", nil
	case err != nil:
		return nil, "", fmt.Errorf("failed to render statement: %w", err)
	}
	return pdf, "pdf", nil
}
