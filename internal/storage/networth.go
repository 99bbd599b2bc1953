package storage

import (
	"context"
	"database/sql"
	"fmt"

	"nwtrack/internal/core"
)

const netWorthColumns = `month, currency, total_assets, total_liabilities, net_worth`

func scanNetWorth(rows *sql.Rows) (core.NetWorth, error) {
	var nw core.NetWorth
	var m string
	if err := rows.Scan(&m, &nw.Currency, &nw.TotalAssets, &nw.TotalLiabilities, &nw.NetWorth); err != nil {
		return core.NetWorth{}, err
	}
	var err error
	if nw.Month, err = core.ParseMonth(m); err != nil {
		return core.NetWorth{}, err
	}
	return nw, nil
}

// NetWorthHistory reads the full derived history, ordered ascending by
// (month, currency) so it is directly consumable as a per-currency time
// series. Each call recomputes from the current balances.
func (r *SQLiteRepository) NetWorthHistory(ctx context.Context) ([]core.NetWorth, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+netWorthColumns+`
		FROM networth_history
		ORDER BY month, currency`)
	if err != nil {
		return nil, fmt.Errorf("net worth history: %w", err)
	}
	defer rows.Close()

	var out []core.NetWorth
	for rows.Next() {
		nw, err := scanNetWorth(rows)
		if err != nil {
			return nil, fmt.Errorf("scan net worth: %w", err)
		}
		out = append(out, nw)
	}
	return out, rows.Err()
}

// NetWorthHistoryByCurrency reads the history for one currency, ordered by
// month.
func (r *SQLiteRepository) NetWorthHistoryByCurrency(ctx context.Context, currency string) ([]core.NetWorth, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+netWorthColumns+`
		FROM networth_history
		WHERE currency = ?
		ORDER BY month`, currency)
	if err != nil {
		return nil, fmt.Errorf("net worth history for %s: %w", currency, err)
	}
	defer rows.Close()

	var out []core.NetWorth
	for rows.Next() {
		nw, err := scanNetWorth(rows)
		if err != nil {
			return nil, fmt.Errorf("scan net worth: %w", err)
		}
		out = append(out, nw)
	}
	return out, rows.Err()
}

// NetWorthOn returns the single aggregation row for (month, currency), or
// ErrNotFound when no balance exists in that group.
func (r *SQLiteRepository) NetWorthOn(ctx context.Context, month core.Month, currency string) (core.NetWorth, error) {
	nw := core.NetWorth{Month: month, Currency: currency}
	err := r.db.QueryRowContext(ctx, `
		SELECT total_assets, total_liabilities, net_worth
		FROM networth_history
		WHERE month = ? AND currency = ?`,
		month.String(), currency).Scan(&nw.TotalAssets, &nw.TotalLiabilities, &nw.NetWorth)
	if err == sql.ErrNoRows {
		return core.NetWorth{}, fmt.Errorf("net worth for %s in %s: %w", month, currency, ErrNotFound)
	}
	if err != nil {
		return core.NetWorth{}, fmt.Errorf("net worth for %s in %s: %w", month, currency, err)
	}
	return nw, nil
}
