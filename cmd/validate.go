package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gyrostable/gyro-go/internal/config"
	"github.com/gyrostable/gyro-go/internal/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file syntax and values without connecting to anything.`,
	RunE:  validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	logger.Setup(logLevel)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		slog.Error("Configuration validation failed", "error", err)
		return err
	}

	slog.Info("✓ Configuration valid",
		"rpc_url", cfg.RPCUrl,
		"signer_set", cfg.PrivateKey != "",
		"approve_future", cfg.ApproveFuture,
		"interval", cfg.Interval,
		"log_level", cfg.LogLevel,
	)

	return nil
}
