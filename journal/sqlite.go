package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal persists runs, trades, and equity curves to a SQLite
// database, creating the schema on open.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, period, scorer, start_date, end_date, start_balance, final_balance,
		 return_pct, trades, wins, win_rate, max_dd_pct, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Period, r.Scorer, r.Start, r.End, r.StartBal, r.FinalBal,
		r.ReturnPct, r.Trades, r.Wins, r.WinRate, r.MaxDDPct, r.Created,
	)
	return err
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, code, name, shares, entry_price, exit_price, entry_date, exit_date, pnl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Code, t.Name, t.Shares, t.EntryPrice,
		t.ExitPrice, t.EntryDate, t.ExitDate, t.PnL, t.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquityRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, date, equity) VALUES (?, ?, ?)`,
		e.RunID, e.Date, e.Equity,
	)
	return err
}

// ListTradesByRun returns the trades of one run in entry-date order.
func (j *SQLiteJournal) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, code, name, shares, entry_price, exit_price,
		       entry_date, exit_date, pnl, reason
		FROM trades WHERE run_id = ? ORDER BY entry_date`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(&t.TradeID, &t.RunID, &t.Code, &t.Name, &t.Shares,
			&t.EntryPrice, &t.ExitPrice, &t.EntryDate, &t.ExitDate, &t.PnL, &t.Reason); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListRuns returns recorded runs, newest first.
func (j *SQLiteJournal) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, period, scorer, start_date, end_date, start_balance, final_balance,
		       return_pct, trades, wins, win_rate, max_dd_pct, created
		FROM runs ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.Period, &r.Scorer, &r.Start, &r.End, &r.StartBal,
			&r.FinalBal, &r.ReturnPct, &r.Trades, &r.Wins, &r.WinRate, &r.MaxDDPct, &r.Created); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
