package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"nwtrack/internal/core"
)

// MonthBalance is a balance row joined with its account name, for entry
// workflows that list a month's balances.
type MonthBalance struct {
	AccountID   int64
	AccountName string
	Month       core.Month
	Amount      int64
}

func insertBalance(ctx context.Context, ex execer, b core.Balance) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	res, err := ex.ExecContext(ctx,
		`INSERT INTO balances (account_id, month, amount) VALUES (?, ?, ?)`,
		b.AccountID, b.Month.String(), b.Amount)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return 0, &ReferentialIntegrityError{
				Entity: "balances",
				Ref:    "accounts",
				Key:    fmt.Sprint(b.AccountID),
			}
		case isUniqueViolation(err):
			return 0, &UniquenessError{
				Entity: "balances",
				Key:    fmt.Sprintf("account %d, %s", b.AccountID, b.Month),
			}
		}
		return 0, fmt.Errorf("insert balance: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert balance: %w", err)
	}
	return id, nil
}

// CreateBalance records a new snapshot. At most one balance may exist per
// (account, month); revising an existing snapshot is an explicit update.
func (r *SQLiteRepository) CreateBalance(ctx context.Context, b core.Balance) (int64, error) {
	id, err := insertBalance(ctx, r.db, b)
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "Balance recorded",
		"id", id,
		"account_id", b.AccountID,
		"month", b.Month.String(),
		"amount", b.Amount)
	return id, nil
}

// InsertBalances loads a batch of snapshots in a single transaction.
func (r *SQLiteRepository) InsertBalances(ctx context.Context, balances []core.Balance) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, b := range balances {
			if _, err := insertBalance(ctx, tx, b); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateBalance revises the snapshot for (accountID, month).
func (r *SQLiteRepository) UpdateBalance(ctx context.Context, accountID int64, month core.Month, amount int64) error {
	if err := month.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE balances SET amount = ? WHERE account_id = ? AND month = ?`,
		amount, accountID, month.String())
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("balance for account %d on %s: %w", accountID, month, ErrNotFound)
	}
	slog.InfoContext(ctx, "Balance updated",
		"account_id", accountID,
		"month", month.String(),
		"amount", amount)
	return nil
}

// CreateBalanceForAccountName resolves an account by name and records a new
// snapshot for it, as one atomic operation.
func (r *SQLiteRepository) CreateBalanceForAccountName(ctx context.Context, name string, month core.Month, amount int64) (int64, error) {
	if err := month.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var accountID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM accounts WHERE name = ?`, name).Scan(&accountID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("account %q: %w", name, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("resolve account %q: %w", name, err)
		}
		id, err = insertBalance(ctx, tx, core.Balance{
			AccountID: accountID,
			Month:     month,
			Amount:    amount,
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "Balance recorded",
		"account", name,
		"month", month.String(),
		"amount", amount)
	return id, nil
}

// UpdateBalanceForAccountName resolves an account by name and revises its
// snapshot for the month, as one atomic operation.
func (r *SQLiteRepository) UpdateBalanceForAccountName(ctx context.Context, name string, month core.Month, amount int64) error {
	if err := month.Validate(); err != nil {
		return err
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var accountID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM accounts WHERE name = ?`, name).Scan(&accountID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("account %q: %w", name, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("resolve account %q: %w", name, err)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE balances SET amount = ? WHERE account_id = ? AND month = ?`,
			amount, accountID, month.String())
		if err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("balance for %q on %s: %w", name, month, ErrNotFound)
		}
		slog.InfoContext(ctx, "Balance updated",
			"account", name,
			"month", month.String(),
			"amount", amount)
		return nil
	})
}

func (r *SQLiteRepository) GetBalance(ctx context.Context, accountID int64, month core.Month) (core.Balance, error) {
	var b core.Balance
	var m string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, month, amount
		FROM balances
		WHERE account_id = ? AND month = ?`,
		accountID, month.String()).Scan(&b.ID, &b.AccountID, &m, &b.Amount)
	if err == sql.ErrNoRows {
		return core.Balance{}, fmt.Errorf("balance for account %d on %s: %w", accountID, month, ErrNotFound)
	}
	if err != nil {
		return core.Balance{}, fmt.Errorf("get balance: %w", err)
	}
	b.Month, err = core.ParseMonth(m)
	if err != nil {
		return core.Balance{}, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// MonthBalances lists the balances recorded for a month with their account
// names, ordered by account id.
func (r *SQLiteRepository) MonthBalances(ctx context.Context, month core.Month, activeOnly bool) ([]MonthBalance, error) {
	query := `
		SELECT b.account_id, a.name, b.month, b.amount
		FROM balances b
		JOIN accounts a ON a.id = b.account_id
		WHERE b.month = ?`
	if activeOnly {
		query += ` AND a.status = 'active'`
	}
	query += ` ORDER BY b.account_id`

	rows, err := r.db.QueryContext(ctx, query, month.String())
	if err != nil {
		return nil, fmt.Errorf("month balances: %w", err)
	}
	defer rows.Close()

	var out []MonthBalance
	for rows.Next() {
		var mb MonthBalance
		var m string
		if err := rows.Scan(&mb.AccountID, &mb.AccountName, &m, &mb.Amount); err != nil {
			return nil, fmt.Errorf("scan month balance: %w", err)
		}
		if mb.Month, err = core.ParseMonth(m); err != nil {
			return nil, fmt.Errorf("scan month balance: %w", err)
		}
		out = append(out, mb)
	}
	return out, rows.Err()
}

// RollForwardBalances copies every active account's balance from one month
// into the next, skipping accounts that already have a snapshot there. The
// count and insert run in one transaction. Returns the number of rows copied;
// ErrNotFound if the source month has no balances at all.
func (r *SQLiteRepository) RollForwardBalances(ctx context.Context, from core.Month) (int64, error) {
	if err := from.Validate(); err != nil {
		return 0, err
	}
	next := from.Next()

	var copied int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM balances WHERE month = ?`, from.String()).Scan(&n); err != nil {
			return fmt.Errorf("count source balances: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("no balances recorded for %s: %w", from, ErrNotFound)
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO balances (account_id, month, amount)
			SELECT b.account_id, ?, b.amount
			FROM balances b
			JOIN accounts a ON a.id = b.account_id
			WHERE b.month = ?
			  AND a.status = 'active'
			  AND NOT EXISTS (
				SELECT 1 FROM balances e
				WHERE e.account_id = b.account_id AND e.month = ?
			  )`,
			next.String(), from.String(), next.String())
		if err != nil {
			return fmt.Errorf("roll forward balances: %w", err)
		}
		copied, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("roll forward balances: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Balances rolled forward",
		"from", from.String(),
		"to", next.String(),
		"copied", copied)
	return copied, nil
}
