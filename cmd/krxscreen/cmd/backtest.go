package cmd

import (
	"fmt"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/khkim/krxscreen/backtest"
	"github.com/khkim/krxscreen/config"
	"github.com/khkim/krxscreen/feed"
	"github.com/khkim/krxscreen/journal"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the configured backtest periods",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		periods := make([]backtest.Period, 0, len(cfg.Periods))
		for _, pc := range cfg.Periods {
			p, err := pc.Period()
			if err != nil {
				return err
			}
			periods = append(periods, p)
		}

		timeout, err := cfg.Data.Timeout()
		if err != nil {
			return err
		}

		runner := &backtest.Runner{
			Cfg:       cfg.Backtest,
			NewScorer: cfg.NewScorer,
			Provider: feed.Retry{
				Inner:    feed.NewCSVProvider(cfg.Data.Dir, cfg.Data.Universe),
				Attempts: cfg.Data.RetryAttempts,
				Timeout:  timeout,
			},
			Benchmark: cfg.Data.Benchmark,
			Universe:  cfg.Data.Universe,
			Periods:   periods,
		}

		batch, err := runner.Run(cmd.Context())
		if err != nil {
			return err
		}

		if err := persist(cfg, batch); err != nil {
			return err
		}

		printBatch(batch)
		return nil
	},
}

func persist(cfg *config.Config, batch *backtest.BatchResult) error {
	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
		for name, res := range batch.Results {
			if err := journal.Record(j, name, cfg.Backtest.InitialBalance, res); err != nil {
				return fmt.Errorf("journal %s: %w", name, err)
			}
		}
	}

	if cfg.Journal.ResultsJSON != "" {
		if err := journal.WriteResults(cfg.Journal.ResultsJSON, batch.Results); err != nil {
			return err
		}
		log.WithField("path", cfg.Journal.ResultsJSON).Info("results written")
	}
	return nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.EquityFile)
	default:
		return nil, nil
	}
}

func printBatch(batch *backtest.BatchResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Period", "Return %", "Final Balance", "Trades", "Win %", "MDD %"})

	names := make([]string, 0, len(batch.Results))
	for name := range batch.Results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := batch.Results[name].Summary
		table.Append([]string{
			name,
			fmt.Sprintf("%.2f", s.TotalReturnPct),
			fmt.Sprintf("%.0f", s.FinalBalance),
			fmt.Sprintf("%d", s.TradeCount),
			fmt.Sprintf("%.1f", s.WinRatePct),
			fmt.Sprintf("%.2f", s.MaxDrawdownPct),
		})
	}
	table.Render()

	for name, reason := range batch.Skipped {
		fmt.Printf("period %s skipped: %v\n", name, reason)
	}
}

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgPath)
}

func init() {
	rootCmd.AddCommand(backtestCmd)
}
