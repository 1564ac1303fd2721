package main

import (
	"log"

	"farmops/internal/health"

	"github.com/spf13/cobra"
)

func digestCmd() *cobra.Command {
	var loop bool

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Post the KPI digest to Telegram",
		Long: `Posts one KPI digest to the configured Telegram chat and exits.
With --loop it keeps posting every DIGEST_INTERVAL until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.TelegramEnabled() {
				log.Println("⚠️  TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are not both set; the digest will only be logged")
			}

			runner := newDigestRunner(cfg, health.NewMonitor())
			if loop {
				runner.Run(cmd.Context())
				return nil
			}

			log.Println("📬 Building KPI digest...")
			return runner.RunOnce(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&loop, "loop", false, "keep posting every DIGEST_INTERVAL")
	return cmd
}
