package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"farmops/internal/api"
	"farmops/internal/auth"
	"farmops/internal/config"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "farmops",
		Short: "🌾 Operations dashboard for complaints and withdrawer payouts",
		Long: `farmops serves the operations dashboard for the agri-fintech platform:
complaint handling, withdrawer payouts, USSD analytics and statements.

The same binary can export statements, print KPIs and post the Telegram
digest from the command line.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(kpisCmd())
	rootCmd.AddCommand(digestCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("🛑 Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, "✗", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the shared HTTP client.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	api.SetHTTPClient(api.NewHTTPClient(cfg.HTTPTimeout, cfg.HTTPMaxConns))
	log.Printf("✓ Configuration loaded (API: %s)", cfg.APIBaseURL)
	return cfg, nil
}

// serviceClient authenticates as the service account configured by
// API_TOKEN or API_EMAIL/API_PASSWORD.
func serviceClient(ctx context.Context, cfg *config.Config) (*api.Client, error) {
	return auth.ServiceClient(ctx, api.NewClient(cfg.APIBaseURL, ""), serviceCredentials(cfg))
}

func serviceCredentials(cfg *config.Config) auth.ServiceCredentials {
	return auth.ServiceCredentials{
		Token:      cfg.APIToken,
		Email:      cfg.APIEmail,
		Password:   cfg.APIPassword,
		MaxRetries: cfg.MaxLoginRetries,
		RetryDelay: cfg.LoginRetryDelay,
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "farmops %s\n", version)
		},
	}
}
