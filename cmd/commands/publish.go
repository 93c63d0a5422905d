package commands

// Command to render the chart and send it to Telegram
// Needs TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID (or telegram.* in config.yaml)

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nbody-bench/internal/clients_api/telegram"
	"nbody-bench/internal/features/results_chart"
	logging "nbody-bench/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Render the results chart and send it to a Telegram chat",
	Args:  cobra.NoArgs,
	RunE:  runPublish,
}

func init() {
	addPlotFlags(publishCmd)
	publishCmd.Flags().String("chat-id", "", "Telegram chat id or @channel (env: TELEGRAM_CHAT_ID)")
	publishCmd.Flags().String("caption", "", "Photo caption (env: TELEGRAM_CAPTION)")
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	summary, err := results_chart.Generate(cfg.Plot)
	if err != nil {
		return err
	}

	client, err := telegram.NewClient(cfg.Telegram, nil)
	if err != nil {
		logging.LogError("Failed to initialize Telegram client", zap.Error(err))
		return err
	}

	if err := client.SendPhoto(ctx, summary.Output, cfg.Telegram.Caption); err != nil {
		logging.LogError("Failed to send chart", zap.Error(err))
		return fmt.Errorf("failed to send chart: %w", err)
	}

	logging.LogSuccess("Chart sent to Telegram",
		zap.String("chat_id", cfg.Telegram.ChatID),
		zap.String("bot", client.BotName()))
	return nil
}
