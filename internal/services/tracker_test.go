package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"nwtrack/internal/core"
	"nwtrack/internal/storage"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "nwtrack.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}
	tracker := NewTracker(repo, "USD")
	t.Cleanup(func() { tracker.Close() })
	return tracker
}

func seedTracker(t *testing.T, tracker *Tracker) {
	t.Helper()
	err := tracker.InitializeReferenceData(context.Background(),
		[]core.Currency{
			{Code: "USD", Name: "United States Dollar"},
			{Code: "CHF", Name: "Swiss Franc"},
		},
		[]core.Category{
			{Name: "checking", Side: core.Asset},
			{Name: "credit card", Side: core.Liability},
		})
	if err != nil {
		t.Fatalf("seed reference data: %v", err)
	}
}

func month(t *testing.T, s string) core.Month {
	t.Helper()
	m, err := core.ParseMonth(s)
	if err != nil {
		t.Fatalf("parse month %q: %v", s, err)
	}
	return m
}

func TestInitializeReferenceData(t *testing.T) {
	tracker := newTestTracker(t)
	seedTracker(t, tracker)

	// Re-initializing collides with the lookup sets already loaded.
	err := tracker.InitializeReferenceData(context.Background(),
		[]core.Currency{{Code: "USD", Name: "duplicate"}}, nil)
	var uerr *storage.UniquenessError
	if !errors.As(err, &uerr) {
		t.Fatalf("err = %v, want UniquenessError", err)
	}
}

func TestUpdateBalanceByName(t *testing.T) {
	tracker := newTestTracker(t)
	seedTracker(t, tracker)
	ctx := context.Background()

	id, err := tracker.storage.CreateAccount(ctx, core.Account{
		Name: "checking_1", Category: "checking", Currency: "USD", Status: core.Active,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	m := month(t, "2024-01")
	if _, err := tracker.storage.CreateBalance(ctx, core.Balance{
		AccountID: id, Month: m, Amount: 500,
	}); err != nil {
		t.Fatalf("create balance: %v", err)
	}

	if err := tracker.UpdateBalance(ctx, "checking_1", m, 530); err != nil {
		t.Fatalf("update balance: %v", err)
	}
	nw, err := tracker.NetWorthOn(ctx, m, "")
	if err != nil {
		t.Fatalf("net worth: %v", err)
	}
	if nw.NetWorth != 530 {
		t.Errorf("net_worth = %d, want 530", nw.NetWorth)
	}

	if err := tracker.UpdateBalance(ctx, "missing", m, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown account err = %v, want ErrNotFound", err)
	}
}

func TestCopyBalancesToNextMonth(t *testing.T) {
	tracker := newTestTracker(t)
	seedTracker(t, tracker)
	ctx := context.Background()

	id, err := tracker.storage.CreateAccount(ctx, core.Account{
		Name: "checking_1", Category: "checking", Currency: "USD", Status: core.Active,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	dec := month(t, "2024-12")
	if _, err := tracker.storage.CreateBalance(ctx, core.Balance{
		AccountID: id, Month: dec, Amount: 700,
	}); err != nil {
		t.Fatalf("create balance: %v", err)
	}

	next, copied, err := tracker.CopyBalancesToNextMonth(ctx, dec)
	if err != nil {
		t.Fatalf("copy balances: %v", err)
	}
	if next.String() != "2025-01" {
		t.Errorf("next = %s, want 2025-01 (year rollover)", next)
	}
	if copied != 1 {
		t.Errorf("copied = %d, want 1", copied)
	}

	if _, _, err := tracker.CopyBalancesToNextMonth(ctx, month(t, "2030-06")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("empty month err = %v, want ErrNotFound", err)
	}
}

func TestNetWorthDefaultsToBaseCurrency(t *testing.T) {
	tracker := newTestTracker(t)
	seedTracker(t, tracker)
	ctx := context.Background()

	for name, currency := range map[string]string{"checking_usd": "USD", "checking_chf": "CHF"} {
		id, err := tracker.storage.CreateAccount(ctx, core.Account{
			Name: name, Category: "checking", Currency: currency, Status: core.Active,
		})
		if err != nil {
			t.Fatalf("create account: %v", err)
		}
		if _, err := tracker.storage.CreateBalance(ctx, core.Balance{
			AccountID: id, Month: month(t, "2024-01"), Amount: 100,
		}); err != nil {
			t.Fatalf("create balance: %v", err)
		}
	}

	hist, err := tracker.NetWorthHistoryByCurrency(ctx, "")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 1 || hist[0].Currency != "USD" {
		t.Errorf("history = %+v, want single USD row", hist)
	}
}

func TestExchangeRateHistoryUnknownCurrency(t *testing.T) {
	tracker := newTestTracker(t)
	seedTracker(t, tracker)

	_, err := tracker.ExchangeRateHistory(context.Background(), "EUR")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestExchangeRateHistoryDefaultsToBaseCurrency(t *testing.T) {
	tracker := newTestTracker(t)
	seedTracker(t, tracker)
	ctx := context.Background()

	err := tracker.storage.CreateExchangeRate(ctx, core.ExchangeRate{
		Currency: "USD", Month: month(t, "2024-01"), Rate: decimal.NewFromInt(1),
	})
	if err != nil {
		t.Fatalf("create rate: %v", err)
	}

	rates, err := tracker.ExchangeRateHistory(ctx, "")
	if err != nil {
		t.Fatalf("history with empty currency: %v", err)
	}
	if len(rates) != 1 || rates[0].Currency != "USD" {
		t.Errorf("rates = %+v, want single USD row", rates)
	}
}

func TestSetAccountDescription(t *testing.T) {
	tracker := newTestTracker(t)
	seedTracker(t, tracker)
	ctx := context.Background()

	if _, err := tracker.AddAccount(ctx, core.Account{
		Name: "checking_1", Category: "checking",
	}); err != nil {
		t.Fatalf("add account: %v", err)
	}

	if err := tracker.SetAccountDescription(ctx, "checking_1", "joint household account"); err != nil {
		t.Fatalf("set description: %v", err)
	}
	accounts, err := tracker.Accounts(ctx, false)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Description != "joint household account" {
		t.Errorf("accounts = %+v, want revised description", accounts)
	}

	if err := tracker.SetAccountDescription(ctx, "missing", "x"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown account err = %v, want ErrNotFound", err)
	}
}

func TestCategories(t *testing.T) {
	tracker := newTestTracker(t)
	seedTracker(t, tracker)

	categories, err := tracker.Categories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("categories = %+v, want 2", categories)
	}
	if categories[0].Name != "checking" || categories[1].Name != "credit card" {
		t.Errorf("categories = %+v, want checking then credit card", categories)
	}
}
