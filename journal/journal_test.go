package journal

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khkim/krxscreen/backtest"
	"github.com/khkim/krxscreen/risk"
)

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func sampleResult() *backtest.Result {
	return &backtest.Result{
		RunID:  "01HV3TESTRUN0000000000000",
		Scorer: "rating",
		Start:  day(0),
		End:    day(2),
		Summary: backtest.Summary{
			TotalReturnPct: 5.4321,
			FinalBalance:   10_543_210,
			TradeCount:     2,
			Wins:           1,
			WinRatePct:     50,
			MaxDrawdownPct: -3.456,
		},
		Curve: []backtest.EquityPoint{
			{Date: day(0), Equity: 10_000_000},
			{Date: day(1), Equity: 10_200_000.7},
			{Date: day(2), Equity: 10_543_210},
		},
		Trades: []backtest.Trade{
			{
				ID: "t1", Code: "005930", Name: "Samsung Electronics", Shares: 100,
				EntryDate: day(0), ExitDate: day(1),
				EntryPrice: 70000, ExitPrice: 72000,
				PnL: 200000, Reason: risk.ExitTrailStop, Win: true,
			},
			{
				ID: "t2", Code: "000660", Name: "SK Hynix", Shares: 50,
				EntryDate: day(1), ExitDate: day(2),
				EntryPrice: 130000, ExitPrice: 128000,
				PnL: -100000, Reason: risk.ExitHardStop, Win: false,
			},
		},
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	res := sampleResult()
	require.NoError(t, Record(j, "recent", 10_000_000, res))

	runs, err := j.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].RunID)
	assert.Equal(t, "recent", runs[0].Period)
	assert.Equal(t, "rating", runs[0].Scorer)
	assert.Equal(t, 10_000_000.0, runs[0].StartBal)
	assert.Equal(t, res.Summary.FinalBalance, runs[0].FinalBal)
	assert.Equal(t, 2, runs[0].Trades)
	assert.Equal(t, 1, runs[0].Wins)

	trades, err := j.ListTradesByRun(res.RunID)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "005930", trades[0].Code)
	assert.Equal(t, int64(100), trades[0].Shares)
	assert.Equal(t, string(risk.ExitTrailStop), trades[0].Reason)
	assert.Equal(t, "000660", trades[1].Code)
	assert.Equal(t, -100000.0, trades[1].PnL)
}

func TestCSVJournalWritesRows(t *testing.T) {
	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	res := sampleResult()
	require.NoError(t, Record(j, "recent", 10_000_000, res))
	require.NoError(t, j.Close())

	tf, err := os.Open(tradesPath)
	require.NoError(t, err)
	defer tf.Close()
	rows, err := csv.NewReader(tf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 trades
	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, "005930", rows[1][2])
	assert.Equal(t, "2024-01-01", rows[1][7])
	assert.Equal(t, "trail_stop", rows[1][10])

	ef, err := os.Open(equityPath)
	require.NoError(t, err)
	defer ef.Close()
	erows, err := csv.NewReader(ef).ReadAll()
	require.NoError(t, err)
	require.Len(t, erows, 4) // header + 3 points
	assert.Equal(t, []string{"run_id", "date", "equity"}, erows[0])
	assert.Equal(t, "10000000.0000", erows[1][2])
}

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, WriteResults(path, map[string]*backtest.Result{"recent": sampleResult()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string]struct {
		Summary struct {
			TotalReturn  float64 `json:"total_return"`
			FinalBalance int64   `json:"final_balance"`
			TradeCount   int     `json:"trade_count"`
			WinRate      float64 `json:"win_rate"`
			MDD          float64 `json:"mdd"`
		} `json:"summary"`
		EquityCurve []struct {
			Date   string `json:"date"`
			Equity int64  `json:"equity"`
		} `json:"equity_curve"`
	}
	require.NoError(t, json.Unmarshal(data, &out))

	res, ok := out["recent"]
	require.True(t, ok)
	assert.InDelta(t, 5.43, res.Summary.TotalReturn, 1e-9)
	assert.Equal(t, int64(10_543_210), res.Summary.FinalBalance)
	assert.Equal(t, 2, res.Summary.TradeCount)
	assert.InDelta(t, 50.0, res.Summary.WinRate, 1e-9)
	assert.InDelta(t, -3.46, res.Summary.MDD, 1e-9)

	require.Len(t, res.EquityCurve, 3)
	assert.Equal(t, "2024-01-01", res.EquityCurve[0].Date)
	assert.Equal(t, int64(10_200_000), res.EquityCurve[1].Equity)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 5.43, round2(5.4321))
	assert.Equal(t, -3.46, round2(-3.456))
	assert.Equal(t, 66.7, round1(66.66667))
	assert.Equal(t, 0.0, round2(0))
}
