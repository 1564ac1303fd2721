package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"farmops/internal/format"
	"farmops/internal/model"
	"farmops/internal/summary"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).MarginTop(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("241")).Padding(0, 1).Width(22)

	toneColors = map[summary.Tone]lipgloss.Color{
		summary.ToneNeutral:  lipgloss.Color("252"),
		summary.TonePositive: lipgloss.Color("42"),
		summary.ToneWarning:  lipgloss.Color("214"),
		summary.ToneNegative: lipgloss.Color("196"),
	}
)

func kpisCmd() *cobra.Command {
	var (
		from, to string
		pngOut   string
	)

	cmd := &cobra.Command{
		Use:   "kpis",
		Short: "Print complaint and payout KPIs",
		Long: `Loads complaint and withdrawer KPIs for a date range as the service
account and prints them as cards. With --png the same cards are written
as the image the Telegram digest sends.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now().In(format.DisplayZone)
			rng := model.DateRange{Start: from, End: to}
			if rng.Start == "" {
				rng.Start = now.AddDate(0, 0, -30).Format(model.DateFormat)
			}
			if rng.End == "" {
				rng.End = now.Format(model.DateFormat)
			}
			if err := model.ValidateRange(rng, ""); err != nil {
				return err
			}
			return runKPIs(cmd.Context(), cmd.OutOrStdout(), rng, pngOut)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start date (default 30 days ago)")
	cmd.Flags().StringVar(&to, "to", "", "end date (default today)")
	cmd.Flags().StringVar(&pngOut, "png", "", "also write the cards to this PNG file")
	return cmd
}

func runKPIs(ctx context.Context, w io.Writer, rng model.DateRange, pngOut string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := serviceClient(ctx, cfg)
	if err != nil {
		return err
	}

	var (
		ck *model.ComplaintKPIs
		pk *model.WithdrawerKPIs
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ck, err = client.Complaints().KPIs(gctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		pk, err = client.Withdrawers().KPIs(gctx, rng)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load KPIs: %w", err)
	}

	var sections []summary.Section
	if s, ok := summary.ComplaintSection(ck); ok {
		sections = append(sections, s)
	}
	if s, ok := summary.PayoutSection(pk); ok {
		sections = append(sections, s)
	}

	fmt.Fprintf(w, "KPIs %s to %s\n", rng.Start, rng.End)
	fmt.Fprintln(w, renderSections(sections))

	if pngOut != "" {
		img, err := summary.RenderCards(fmt.Sprintf("KPIs %s to %s", rng.Start, rng.End), sections, time.Now())
		if err != nil {
			return err
		}
		if err := os.WriteFile(pngOut, img, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", pngOut, err)
		}
		log.Printf("✓ Wrote %s", pngOut)
	}
	return nil
}

// renderSections lays each section out as rows of four bordered cards.
func renderSections(sections []summary.Section) string {
	var b strings.Builder
	for _, s := range sections {
		b.WriteString(sectionStyle.Render(s.Title))
		b.WriteString("\n")
		for i := 0; i < len(s.Cards); i += 4 {
			end := min(i+4, len(s.Cards))
			row := make([]string, 0, end-i)
			for _, c := range s.Cards[i:end] {
				value := lipgloss.NewStyle().Bold(true).Foreground(toneColors[c.Tone]).Render(c.Value)
				row = append(row, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(c.Label), value)))
			}
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
			b.WriteString("\n")
		}
	}
	return b.String()
}
