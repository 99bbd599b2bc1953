package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"nwtrack/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the single data store: five tables plus the derived
// networth_history view, all in one embedded database file.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// Single-writer model: one connection, no cross-connection coordination.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx, so single-row writes and
// transactional batches share one statement per entity.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// withTx runs fn inside one transaction: either every statement takes effect
// or none does.
func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// --- currencies ---

func insertCurrency(ctx context.Context, ex execer, c core.Currency) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := ex.ExecContext(ctx,
		`INSERT INTO currencies (code, name) VALUES (?, ?)`,
		c.Code, c.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return &UniquenessError{Entity: "currencies", Key: c.Code}
		}
		return fmt.Errorf("insert currency %s: %w", c.Code, err)
	}
	return nil
}

func (r *SQLiteRepository) CreateCurrency(ctx context.Context, c core.Currency) error {
	if err := insertCurrency(ctx, r.db, c); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Currency created", "code", c.Code)
	return nil
}

// InsertCurrencies loads reference currencies in a single transaction.
func (r *SQLiteRepository) InsertCurrencies(ctx context.Context, currencies []core.Currency) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, c := range currencies {
			if err := insertCurrency(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) ListCurrencies(ctx context.Context) ([]core.Currency, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT code, name FROM currencies ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()

	var out []core.Currency
	for rows.Next() {
		var c core.Currency
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CurrencyCodes returns the set of known currency codes.
func (r *SQLiteRepository) CurrencyCodes(ctx context.Context) (map[string]bool, error) {
	currencies, err := r.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]bool, len(currencies))
	for _, c := range currencies {
		codes[c.Code] = true
	}
	return codes, nil
}

// DeleteCurrency removes a currency unless an account or exchange rate still
// references it.
func (r *SQLiteRepository) DeleteCurrency(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM currencies WHERE code = ?`, code)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &DeleteBlockedError{Entity: "currencies", Key: code}
		}
		return fmt.Errorf("delete currency %s: %w", code, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete currency %s: %w", code, err)
	}
	if n == 0 {
		return fmt.Errorf("currency %s: %w", code, ErrNotFound)
	}
	slog.InfoContext(ctx, "Currency deleted", "code", code)
	return nil
}

// --- categories ---

func insertCategory(ctx context.Context, ex execer, c core.Category) error {
	if err := c.Side.Validate(); err != nil {
		// Surfaced as the same taxonomy the engine's CHECK would raise.
		return &CheckConstraintError{Entity: "categories", Value: string(c.Side)}
	}
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := ex.ExecContext(ctx,
		`INSERT INTO categories (name, side) VALUES (?, ?)`,
		c.Name, string(c.Side))
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return &UniquenessError{Entity: "categories", Key: c.Name}
		case isCheckViolation(err):
			return &CheckConstraintError{Entity: "categories", Value: string(c.Side)}
		}
		return fmt.Errorf("insert category %s: %w", c.Name, err)
	}
	return nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	if err := insertCategory(ctx, r.db, c); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Category created", "name", c.Name, "side", c.Side)
	return nil
}

// InsertCategories loads reference categories in a single transaction.
func (r *SQLiteRepository) InsertCategories(ctx context.Context, categories []core.Category) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, c := range categories {
			if err := insertCategory(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, side FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var side string
		if err := rows.Scan(&c.Name, &side); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Side = core.Side(side)
		out = append(out, c)
	}
	return out, rows.Err()
}

// CategoryByAccountID resolves the category of an account, for entry
// workflows that display the side next to the account.
func (r *SQLiteRepository) CategoryByAccountID(ctx context.Context, accountID int64) (core.Category, error) {
	var c core.Category
	var side string
	err := r.db.QueryRowContext(ctx, `
		SELECT c.name, c.side
		FROM categories c
		JOIN accounts a ON a.category = c.name
		WHERE a.id = ?`, accountID).Scan(&c.Name, &side)
	if err == sql.ErrNoRows {
		return core.Category{}, fmt.Errorf("account %d: %w", accountID, ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("category for account %d: %w", accountID, err)
	}
	c.Side = core.Side(side)
	return c, nil
}

// DeleteCategory removes a category unless an account still references it.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE name = ?`, name)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &DeleteBlockedError{Entity: "categories", Key: name}
		}
		return fmt.Errorf("delete category %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("category %s: %w", name, ErrNotFound)
	}
	slog.InfoContext(ctx, "Category deleted", "name", name)
	return nil
}
