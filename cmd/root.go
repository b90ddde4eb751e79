package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gyro",
	Short: "Gyroscope mint/redeem client",
	Long: `gyro mints and redeems the Gyroscope fund token against baskets of
underlying ERC-20 tokens. It plans and submits the required approval
transactions, queries mint/redeem estimates, balances and the protocol's
reserve composition, and can periodically snapshot reserves to PostgreSQL.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
