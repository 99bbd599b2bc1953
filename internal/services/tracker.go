package services

import (
	"context"
	"fmt"
	"log/slog"

	"nwtrack/internal/core"
	"nwtrack/internal/storage"
)

// Tracker orchestrates net-worth tracking operations over the SQLite
// repository. Reads that omit a currency fall back to the configured base
// currency.
type Tracker struct {
	storage *storage.SQLiteRepository
	base    string
}

func NewTracker(storage *storage.SQLiteRepository, baseCurrency string) *Tracker {
	return &Tracker{
		storage: storage,
		base:    baseCurrency,
	}
}

// InitializeReferenceData loads the currency and category lookup sets. Each
// set goes in as one transaction.
func (t *Tracker) InitializeReferenceData(ctx context.Context, currencies []core.Currency, categories []core.Category) error {
	if err := t.storage.InsertCurrencies(ctx, currencies); err != nil {
		return fmt.Errorf("initialize currencies: %w", err)
	}
	if err := t.storage.InsertCategories(ctx, categories); err != nil {
		return fmt.Errorf("initialize categories: %w", err)
	}
	slog.InfoContext(ctx, "Reference data initialized",
		"currencies", len(currencies),
		"categories", len(categories))
	return nil
}

// AddCurrency registers a currency in the reference set.
func (t *Tracker) AddCurrency(ctx context.Context, c core.Currency) error {
	return t.storage.CreateCurrency(ctx, c)
}

// AddCategory registers a category in the reference set.
func (t *Tracker) AddCategory(ctx context.Context, c core.Category) error {
	return t.storage.CreateCategory(ctx, c)
}

// Categories lists the reference categories with their sides.
func (t *Tracker) Categories(ctx context.Context) ([]core.Category, error) {
	return t.storage.ListCategories(ctx)
}

// AddAccount creates an account, defaulting the currency to the base
// currency when none is given.
func (t *Tracker) AddAccount(ctx context.Context, a core.Account) (int64, error) {
	if a.Currency == "" {
		a.Currency = t.base
	}
	if a.Status == "" {
		a.Status = core.Active
	}
	return t.storage.CreateAccount(ctx, a)
}

// SetAccountStatus flips an account's status, addressed by name. Setting
// inactive is the soft delete for accounts with history.
func (t *Tracker) SetAccountStatus(ctx context.Context, accountName string, status core.Status) error {
	account, err := t.storage.GetAccountByName(ctx, accountName)
	if err != nil {
		return err
	}
	return t.storage.UpdateAccountStatus(ctx, account.ID, status)
}

// SetAccountDescription revises an account's description, addressed by name.
func (t *Tracker) SetAccountDescription(ctx context.Context, accountName, description string) error {
	account, err := t.storage.GetAccountByName(ctx, accountName)
	if err != nil {
		return err
	}
	return t.storage.UpdateAccountDescription(ctx, account.ID, description)
}

// RecordBalance records a new snapshot for an account addressed by name.
func (t *Tracker) RecordBalance(ctx context.Context, accountName string, month core.Month, amount int64) (int64, error) {
	id, err := t.storage.CreateBalanceForAccountName(ctx, accountName, month, amount)
	if err != nil {
		return 0, fmt.Errorf("record balance for %q: %w", accountName, err)
	}
	return id, nil
}

// UpdateBalance revises the snapshot for an account addressed by name.
func (t *Tracker) UpdateBalance(ctx context.Context, accountName string, month core.Month, amount int64) error {
	if err := t.storage.UpdateBalanceForAccountName(ctx, accountName, month, amount); err != nil {
		return fmt.Errorf("update balance for %q: %w", accountName, err)
	}
	return nil
}

// CopyBalancesToNextMonth seeds the next month's entry session from the
// current one: every active account's balance is copied forward. Returns the
// target month and the number of balances copied.
func (t *Tracker) CopyBalancesToNextMonth(ctx context.Context, from core.Month) (core.Month, int64, error) {
	copied, err := t.storage.RollForwardBalances(ctx, from)
	if err != nil {
		return core.Month{}, 0, fmt.Errorf("copy balances from %s: %w", from, err)
	}
	return from.Next(), copied, nil
}

// NetWorthHistory returns the derived history for every currency.
func (t *Tracker) NetWorthHistory(ctx context.Context) ([]core.NetWorth, error) {
	return t.storage.NetWorthHistory(ctx)
}

// NetWorthHistoryByCurrency returns the history for one currency, defaulting
// to the base currency.
func (t *Tracker) NetWorthHistoryByCurrency(ctx context.Context, currency string) ([]core.NetWorth, error) {
	if currency == "" {
		currency = t.base
	}
	return t.storage.NetWorthHistoryByCurrency(ctx, currency)
}

// NetWorthOn returns the aggregation row for one month, defaulting to the
// base currency.
func (t *Tracker) NetWorthOn(ctx context.Context, month core.Month, currency string) (core.NetWorth, error) {
	if currency == "" {
		currency = t.base
	}
	return t.storage.NetWorthOn(ctx, month, currency)
}

// Accounts lists accounts, optionally restricted to active ones.
func (t *Tracker) Accounts(ctx context.Context, activeOnly bool) ([]core.Account, error) {
	return t.storage.ListAccounts(ctx, activeOnly)
}

// MonthBalances lists a month's recorded balances for entry review.
func (t *Tracker) MonthBalances(ctx context.Context, month core.Month, activeOnly bool) ([]storage.MonthBalance, error) {
	return t.storage.MonthBalances(ctx, month, activeOnly)
}

// ExchangeRateHistory returns the stored rate history for a currency after
// checking the code is known, defaulting to the base currency. Conversion
// itself is left to consumers.
func (t *Tracker) ExchangeRateHistory(ctx context.Context, currency string) ([]core.ExchangeRate, error) {
	if currency == "" {
		currency = t.base
	}
	codes, err := t.storage.CurrencyCodes(ctx)
	if err != nil {
		return nil, err
	}
	if !codes[currency] {
		return nil, fmt.Errorf("currency %q: %w", currency, storage.ErrNotFound)
	}
	return t.storage.ListExchangeRates(ctx, currency)
}

func (t *Tracker) Close() error {
	if t.storage != nil {
		if err := t.storage.Close(); err != nil {
			return fmt.Errorf("close storage: %w", err)
		}
	}
	return nil
}
