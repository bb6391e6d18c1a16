package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/khkim/krxscreen/feed"
	"github.com/khkim/krxscreen/indicators"
	"github.com/khkim/krxscreen/sector"
	"github.com/khkim/krxscreen/strategy"
)

var screenAsOf string

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Rank today's entry candidates",
	Long: `Screen scores every instrument in the universe as of the most recent
trading day, applies the entry guards, and prints the ranked survivors
with their sector labels.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		asOf := time.Now().UTC()
		if screenAsOf != "" {
			asOf, err = time.Parse(time.DateOnly, screenAsOf)
			if err != nil {
				return fmt.Errorf("bad --as-of date %q: %w", screenAsOf, err)
			}
		}
		// Enough trailing history for the slowest lookback.
		start := asOf.AddDate(-2, 0, 0)

		timeout, err := cfg.Data.Timeout()
		if err != nil {
			return err
		}
		provider := feed.Retry{
			Inner:    feed.NewCSVProvider(cfg.Data.Dir, cfg.Data.Universe),
			Attempts: cfg.Data.RetryAttempts,
			Timeout:  timeout,
		}

		index, err := provider.Bars(cmd.Context(), cfg.Data.Benchmark, start, asOf)
		if err != nil {
			return fmt.Errorf("benchmark %s: %w", cfg.Data.Benchmark, err)
		}

		var sectors sector.Map
		if cfg.Data.ThemeMap != "" {
			sectors, err = sector.Load(cfg.Data.ThemeMap)
			if err != nil {
				return err
			}
		}

		scorer, err := cfg.NewScorer()
		if err != nil {
			return err
		}

		type row struct {
			code, name, sect string
			score, close     float64
		}
		var rows []row

		for code, name := range cfg.Data.Universe {
			s, err := provider.Bars(cmd.Context(), code, start, asOf)
			if err != nil {
				log.WithField("code", code).WithError(err).Warn("excluded")
				continue
			}
			ind := indicators.Compute(s, index, cfg.Backtest.Indicators)
			ctx := strategy.Context{Series: s, Ind: ind, Idx: s.Len() - 1}

			score, ok := scorer.Score(ctx)
			if !ok || !cfg.Backtest.Guards.Allow(ctx) {
				continue
			}
			rows = append(rows, row{
				code:  code,
				name:  name,
				sect:  sectors.Label(code),
				score: score,
				close: s.Bars[s.Len()-1].Close,
			})
		}

		sort.Slice(rows, func(i, j int) bool {
			if rows[i].score != rows[j].score {
				return rows[i].score > rows[j].score
			}
			return rows[i].code < rows[j].code
		})

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Rank", "Code", "Name", "Sector", "Close", "Score"})
		for i, r := range rows {
			table.Append([]string{
				fmt.Sprintf("%d", i+1),
				r.code,
				r.name,
				r.sect,
				fmt.Sprintf("%.0f", r.close),
				fmt.Sprintf("%.4f", r.score),
			})
		}
		table.Render()

		if len(rows) == 0 {
			fmt.Println("no candidates passed the guards")
		}
		return nil
	},
}

func init() {
	screenCmd.Flags().StringVar(&screenAsOf, "as-of", "", "screen as of date (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(screenCmd)
}
