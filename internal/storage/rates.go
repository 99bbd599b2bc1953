package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"nwtrack/internal/core"
)

func insertExchangeRate(ctx context.Context, ex execer, r core.ExchangeRate) error {
	if err := r.Validate(); err != nil {
		return err
	}
	// Rates are stored as text and round-tripped through decimal, never as
	// floats.
	_, err := ex.ExecContext(ctx,
		`INSERT INTO exchange_rates (currency, month, rate) VALUES (?, ?, ?)`,
		r.Currency, r.Month.String(), r.Rate.String())
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return &ReferentialIntegrityError{
				Entity: "exchange_rates",
				Ref:    "currencies",
				Key:    r.Currency,
			}
		case isUniqueViolation(err):
			return &UniquenessError{
				Entity: "exchange_rates",
				Key:    fmt.Sprintf("%s, %s", r.Currency, r.Month),
			}
		}
		return fmt.Errorf("insert exchange rate: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CreateExchangeRate(ctx context.Context, rate core.ExchangeRate) error {
	if err := insertExchangeRate(ctx, r.db, rate); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Exchange rate recorded",
		"currency", rate.Currency,
		"month", rate.Month.String(),
		"rate", rate.Rate.String())
	return nil
}

// InsertExchangeRates loads a batch of rates in a single transaction.
func (r *SQLiteRepository) InsertExchangeRates(ctx context.Context, rates []core.ExchangeRate) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, rate := range rates {
			if err := insertExchangeRate(ctx, tx, rate); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) GetExchangeRate(ctx context.Context, currency string, month core.Month) (core.ExchangeRate, error) {
	var rate core.ExchangeRate
	var m, raw string
	err := r.db.QueryRowContext(ctx, `
		SELECT currency, month, rate
		FROM exchange_rates
		WHERE currency = ? AND month = ?`,
		currency, month.String()).Scan(&rate.Currency, &m, &raw)
	if err == sql.ErrNoRows {
		return core.ExchangeRate{}, fmt.Errorf("exchange rate %s on %s: %w", currency, month, ErrNotFound)
	}
	if err != nil {
		return core.ExchangeRate{}, fmt.Errorf("get exchange rate: %w", err)
	}
	if rate.Month, err = core.ParseMonth(m); err != nil {
		return core.ExchangeRate{}, fmt.Errorf("get exchange rate: %w", err)
	}
	if rate.Rate, err = decimal.NewFromString(raw); err != nil {
		return core.ExchangeRate{}, fmt.Errorf("get exchange rate: %w", err)
	}
	return rate, nil
}

// ListExchangeRates returns the rate history for one currency, ordered by
// month.
func (r *SQLiteRepository) ListExchangeRates(ctx context.Context, currency string) ([]core.ExchangeRate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT currency, month, rate
		FROM exchange_rates
		WHERE currency = ?
		ORDER BY month`, currency)
	if err != nil {
		return nil, fmt.Errorf("list exchange rates: %w", err)
	}
	defer rows.Close()

	var out []core.ExchangeRate
	for rows.Next() {
		var rate core.ExchangeRate
		var m, raw string
		if err := rows.Scan(&rate.Currency, &m, &raw); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		if rate.Month, err = core.ParseMonth(m); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		if rate.Rate, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		out = append(out, rate)
	}
	return out, rows.Err()
}
