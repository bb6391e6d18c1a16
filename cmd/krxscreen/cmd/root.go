package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "krxscreen",
	Short: "KRX screener and walk-forward backtester",
	Long: `krxscreen screens and backtests a small KRX blue-chip universe.

It provides tools for:
  - Walk-forward backtesting of the re-rating strategy over daily bars
  - Regime-gated entry scanning with structural and trailing stops
  - Risk-based position sizing with transaction frictions
  - Journaling runs, trades, and equity curves to SQLite or CSV
  - Ranking today's candidates with sector grouping`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML or JSON); defaults apply when omitted")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
