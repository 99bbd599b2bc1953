package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"nwtrack/internal/core"
)

// readCSV loads a headered CSV file into one map per row. The header slice
// preserves column order, which the wide sheet formats depend on.
func readCSV(path string) ([]string, []map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("read %s: empty file", path)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// timeColumn reports whether a wide-sheet column holds the row's time key
// rather than an account or currency value.
func timeColumn(name string) bool {
	switch strings.ToLower(name) {
	case "date", "year", "month":
		return true
	}
	return false
}

func rowMonth(row map[string]string) (core.Month, error) {
	year, err := strconv.Atoi(row["year"])
	if err != nil {
		return core.Month{}, fmt.Errorf("%w: year %q", core.ErrInvalidMonth, row["year"])
	}
	month, err := strconv.Atoi(row["month"])
	if err != nil {
		return core.Month{}, fmt.Errorf("%w: month %q", core.ErrInvalidMonth, row["month"])
	}
	return core.NewMonth(year, month)
}

// ImportCurrenciesCSV loads currencies from a `code,name` file.
func (t *Tracker) ImportCurrenciesCSV(ctx context.Context, path string) (int, error) {
	_, rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	currencies := make([]core.Currency, 0, len(rows))
	for _, row := range rows {
		currencies = append(currencies, core.Currency{Code: row["code"], Name: row["name"]})
	}
	if err := t.storage.InsertCurrencies(ctx, currencies); err != nil {
		return 0, fmt.Errorf("import currencies from %s: %w", path, err)
	}
	slog.InfoContext(ctx, "Currencies imported", "path", path, "count", len(currencies))
	return len(currencies), nil
}

// ImportCategoriesCSV loads categories from a `name,side` file.
func (t *Tracker) ImportCategoriesCSV(ctx context.Context, path string) (int, error) {
	_, rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	categories := make([]core.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, core.Category{Name: row["name"], Side: core.Side(row["side"])})
	}
	if err := t.storage.InsertCategories(ctx, categories); err != nil {
		return 0, fmt.Errorf("import categories from %s: %w", path, err)
	}
	slog.InfoContext(ctx, "Categories imported", "path", path, "count", len(categories))
	return len(categories), nil
}

// ImportAccountsCSV loads accounts from a
// `name,description,category,currency,status` file.
func (t *Tracker) ImportAccountsCSV(ctx context.Context, path string) (int, error) {
	_, rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	accounts := make([]core.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, core.Account{
			Name:        row["name"],
			Description: row["description"],
			Category:    row["category"],
			Currency:    row["currency"],
			Status:      core.Status(row["status"]),
		})
	}
	if err := t.storage.InsertAccounts(ctx, accounts); err != nil {
		return 0, fmt.Errorf("import accounts from %s: %w", path, err)
	}
	slog.InfoContext(ctx, "Accounts imported", "path", path, "count", len(accounts))
	return len(accounts), nil
}

// ImportBalancesCSV loads balances from the wide sheet format
// `date,year,month,<account name>,...`. Every non-time column must name a
// known account. Liability balances may be entered negative in the sheet and
// are stored as absolute values; blank cells are recorded as zero.
func (t *Tracker) ImportBalancesCSV(ctx context.Context, path string) (int, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	// Resolve every account column up front so unknown names fail before
	// anything is written.
	accountIDs := make(map[string]int64)
	for _, col := range header {
		if timeColumn(col) {
			continue
		}
		account, err := t.storage.GetAccountByName(ctx, col)
		if err != nil {
			return 0, fmt.Errorf("import balances from %s: account %q: %w", path, col, err)
		}
		accountIDs[col] = account.ID
	}

	var balances []core.Balance
	for _, row := range rows {
		month, err := rowMonth(row)
		if err != nil {
			return 0, fmt.Errorf("import balances from %s: %w", path, err)
		}
		for _, col := range header {
			if timeColumn(col) {
				continue
			}
			amount := int64(0)
			if cell := row[col]; cell != "" {
				amount, err = strconv.ParseInt(cell, 10, 64)
				if err != nil {
					return 0, fmt.Errorf("import balances from %s: %q on %s: %w", path, col, month, err)
				}
				if amount < 0 {
					amount = -amount
				}
			}
			balances = append(balances, core.Balance{
				AccountID: accountIDs[col],
				Month:     month,
				Amount:    amount,
			})
		}
	}

	if err := t.storage.InsertBalances(ctx, balances); err != nil {
		return 0, fmt.Errorf("import balances from %s: %w", path, err)
	}
	slog.InfoContext(ctx, "Balances imported", "path", path, "count", len(balances))
	return len(balances), nil
}

// ImportExchangeRatesCSV loads rates from the wide sheet format
// `date,year,month,<currency code>,...`. Every non-time column must be a
// known currency; blank cells are skipped.
func (t *Tracker) ImportExchangeRatesCSV(ctx context.Context, path string) (int, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	codes, err := t.storage.CurrencyCodes(ctx)
	if err != nil {
		return 0, err
	}
	for _, col := range header {
		if timeColumn(col) {
			continue
		}
		if !codes[col] {
			return 0, fmt.Errorf("import rates from %s: unknown currency %q", path, col)
		}
	}

	var rates []core.ExchangeRate
	for _, row := range rows {
		month, err := rowMonth(row)
		if err != nil {
			return 0, fmt.Errorf("import rates from %s: %w", path, err)
		}
		for _, col := range header {
			if timeColumn(col) || row[col] == "" {
				continue
			}
			rate, err := decimal.NewFromString(row[col])
			if err != nil {
				return 0, fmt.Errorf("import rates from %s: %s on %s: %w", path, col, month, err)
			}
			rates = append(rates, core.ExchangeRate{
				Currency: col,
				Month:    month,
				Rate:     rate,
			})
		}
	}

	if err := t.storage.InsertExchangeRates(ctx, rates); err != nil {
		return 0, fmt.Errorf("import rates from %s: %w", path, err)
	}
	slog.InfoContext(ctx, "Exchange rates imported", "path", path, "count", len(rates))
	return len(rates), nil
}
