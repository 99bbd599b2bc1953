package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"nwtrack/internal/core"
)

func insertAccount(ctx context.Context, ex execer, q queryer, a core.Account) (int64, error) {
	if err := a.Status.Validate(); err != nil {
		return 0, &CheckConstraintError{Entity: "accounts", Value: string(a.Status)}
	}
	if err := a.Validate(); err != nil {
		return 0, err
	}
	res, err := ex.ExecContext(ctx, `
		INSERT INTO accounts (name, description, category, currency, status)
		VALUES (?, ?, ?, ?, ?)`,
		a.Name, a.Description, a.Category, a.Currency, string(a.Status))
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return 0, missingAccountRef(ctx, q, a)
		case isUniqueViolation(err):
			return 0, &UniquenessError{Entity: "accounts", Key: a.Name}
		case isCheckViolation(err):
			return 0, &CheckConstraintError{Entity: "accounts", Value: string(a.Status)}
		}
		return 0, fmt.Errorf("insert account %s: %w", a.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert account %s: %w", a.Name, err)
	}
	return id, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// missingAccountRef pins a foreign-key failure on the parent that is actually
// absent; the engine does not say which one it was.
func missingAccountRef(ctx context.Context, q queryer, a core.Account) error {
	var n int
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE name = ?`, a.Category).Scan(&n); err == nil && n == 0 {
		return &ReferentialIntegrityError{Entity: "accounts", Ref: "categories", Key: a.Category}
	}
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM currencies WHERE code = ?`, a.Currency).Scan(&n); err == nil && n == 0 {
		return &ReferentialIntegrityError{Entity: "accounts", Ref: "currencies", Key: a.Currency}
	}
	return &ReferentialIntegrityError{Entity: "accounts", Ref: "categories/currencies", Key: a.Name}
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (int64, error) {
	id, err := insertAccount(ctx, r.db, r.db, a)
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "Account created",
		"id", id,
		"name", a.Name,
		"category", a.Category,
		"currency", a.Currency)
	return id, nil
}

// InsertAccounts loads a batch of accounts in a single transaction.
func (r *SQLiteRepository) InsertAccounts(ctx context.Context, accounts []core.Account) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, a := range accounts {
			if _, err := insertAccount(ctx, tx, tx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func scanAccount(row interface{ Scan(...any) error }) (core.Account, error) {
	var a core.Account
	var status string
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Category, &a.Currency, &status)
	if err != nil {
		return core.Account{}, err
	}
	a.Status = core.Status(status)
	return a, nil
}

const accountColumns = `id, name, description, category, currency, status`

func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return core.Account{}, fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account %d: %w", id, err)
	}
	return a, nil
}

func (r *SQLiteRepository) GetAccountByName(ctx context.Context, name string) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE name = ?`, name)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return core.Account{}, fmt.Errorf("account %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account %q: %w", name, err)
	}
	return a, nil
}

// ListAccounts returns accounts ordered by id, optionally only active ones.
func (r *SQLiteRepository) ListAccounts(ctx context.Context, activeOnly bool) ([]core.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts`
	if activeOnly {
		query += ` WHERE status = 'active'`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAccountStatus is the soft delete: retiring an account flips it to
// inactive and keeps every balance row.
func (r *SQLiteRepository) UpdateAccountStatus(ctx context.Context, id int64, status core.Status) error {
	if err := status.Validate(); err != nil {
		return &CheckConstraintError{Entity: "accounts", Value: string(status)}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		if isCheckViolation(err) {
			return &CheckConstraintError{Entity: "accounts", Value: string(status)}
		}
		return fmt.Errorf("update account %d status: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account %d status: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	slog.InfoContext(ctx, "Account status updated", "id", id, "status", status)
	return nil
}

func (r *SQLiteRepository) UpdateAccountDescription(ctx context.Context, id int64, description string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET description = ? WHERE id = ?`, description, id)
	if err != nil {
		return fmt.Errorf("update account %d description: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account %d description: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteAccount removes an account that has no balance history. Accounts
// with balances are blocked; retire those with UpdateAccountStatus instead.
func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &DeleteBlockedError{Entity: "accounts", Key: fmt.Sprint(id)}
		}
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	slog.InfoContext(ctx, "Account deleted", "id", id)
	return nil
}
