package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"farmops/internal/api"
	"farmops/internal/authz"
	"farmops/internal/browser"
	"farmops/internal/config"
	"farmops/internal/digest"
	"farmops/internal/health"
	"farmops/internal/statement"
	"farmops/internal/storage"
	"farmops/internal/telegram"
	"farmops/internal/translate"
	"farmops/internal/web"

	"github.com/chromedp/chromedp"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var noDigest bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the operations dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), !noDigest)
		},
	}
	cmd.Flags().BoolVar(&noDigest, "no-digest", false, "do not start the Telegram digest loop")
	return cmd
}

// runServe starts the dashboard and, when Telegram is configured, the
// digest loop. It returns after ctx is cancelled and the server drained.
func runServe(ctx context.Context, withDigest bool) error {
	log.Println("🚀 Starting farmops dashboard...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log.Println("🔐 Loading role policy...")
	policy, err := authz.Load(cfg.AuthzPolicyFile)
	if err != nil {
		return err
	}
	log.Printf("✓ Role policy loaded (%d roles)", len(policy.Roles()))

	audit := storage.New(cfg.ExportAuditFile)
	log.Printf("📋 Export log: %s (%d records)", cfg.ExportAuditFile, audit.Count())

	monitor := health.NewMonitor()

	translator, err := translate.NewTranslator(ctx, cfg.TranslateAPIKey)
	if err != nil {
		log.Printf("⚠️  Translation disabled: %v", err)
		translator = nil
	}
	if translator != nil {
		defer translator.Close()
	}

	printer, shutdownBrowser := newPrinter(cfg)
	defer shutdownBrowser()

	srv, err := web.New(web.Options{
		API:               api.NewClient(cfg.APIBaseURL, ""),
		Authz:             policy,
		Audit:             audit,
		Monitor:           monitor,
		Translator:        translator,
		Printer:           printer,
		Logo:              statement.NewLogoLoader(cfg.LogoURL, api.GetHTTPClient()),
		SessionTTL:        cfg.SessionTTL,
		PageSize:          cfg.PageSize,
		ExportLimit:       cfg.ExportLimit,
		AdminPageSize:     cfg.AdminPageSize,
		RosterConcurrency: cfg.RosterConcurrency,
		USSDSessionsPath:  cfg.USSDSessionsPath,
		USSDStatsPath:     cfg.USSDStatsPath,
	})
	if err != nil {
		return fmt.Errorf("failed to build dashboard: %w", err)
	}

	if withDigest && cfg.TelegramEnabled() {
		runner := newDigestRunner(cfg, monitor)
		go runner.Run(ctx)
	} else {
		log.Println("⚠️  Telegram digest not configured")
		monitor.UpdateDigestStatus("disabled")
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.ListenPort,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🏥 Dashboard listening on :%s", cfg.ListenPort)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("dashboard server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("→ Draining dashboard connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Shutdown incomplete: %v", err)
	}
	log.Println("✓ Dashboard stopped")
	return nil
}

// newPrinter returns the PDF printer, or nil when BROWSER_ENABLED is off.
// The returned func shuts the browser down.
func newPrinter(cfg *config.Config) (*statement.Printer, func()) {
	if !cfg.BrowserEnabled {
		log.Println("⚠️  BROWSER_ENABLED is false. Statements will be served as printable HTML.")
		return nil, func() {}
	}
	holder := browser.NewContextHolder(
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	return statement.NewPrinter(holder, cfg.PrintSettleDelay, cfg.PrintTimeout), holder.Cancel
}

// newDigestRunner wires the digest to the service account and Telegram.
func newDigestRunner(cfg *config.Config, monitor *health.Monitor) *digest.Runner {
	connect := func(ctx context.Context) (digest.Sources, error) {
		client, err := serviceClient(ctx, cfg)
		if err != nil {
			return digest.Sources{}, err
		}
		return digest.Sources{Complaints: client.Complaints(), Payouts: client.Withdrawers()}, nil
	}
	tg := telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.DebugMode)
	return digest.NewRunner(connect, tg, monitor, cfg.DigestInterval, cfg.DigestMaxFailures)
}
