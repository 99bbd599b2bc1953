package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Asset     Side = "asset"
	Liability Side = "liability"

	Active   Status = "active"
	Inactive Status = "inactive"
)

type (
	// Side is the accounting classification of a category. Asset balances
	// increase net worth, liability balances decrease it.
	Side string

	// Status marks an account as usable for entry or retired. Retired
	// accounts keep their balance history and stay in the aggregation.
	Status string

	Currency struct {
		Code string
		Name string
	}

	Category struct {
		Name string
		Side Side
	}

	Account struct {
		ID          int64
		Name        string
		Description string
		Category    string
		Currency    string
		Status      Status
	}

	// Balance is a point-in-time snapshot of one account. Amount is in the
	// smallest currency unit (cents), signed.
	Balance struct {
		ID        int64
		AccountID int64
		Month     Month
		Amount    int64
	}

	// ExchangeRate converts one unit of Currency into the base currency.
	// Rates are stored; conversion is left to read-time consumers.
	ExchangeRate struct {
		Currency string
		Month    Month
		Rate     decimal.Decimal
	}

	// NetWorth is one row of the derived net-worth history.
	NetWorth struct {
		Month            Month
		Currency         string
		TotalAssets      int64
		TotalLiabilities int64
		NetWorth         int64
	}
)

var (
	ErrInvalidSide     = errors.New("side must be asset or liability")
	ErrInvalidStatus   = errors.New("status must be active or inactive")
	ErrInvalidCurrency = errors.New("currency code must be 3 letters")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidRate     = errors.New("rate must be positive")
)

func (s Side) Validate() error {
	switch s {
	case Asset, Liability:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidSide, string(s))
}

func (s Status) Validate() error {
	switch s {
	case Active, Inactive:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
}

func (c Currency) Validate() error {
	if len(c.Code) != 3 || c.Code != strings.ToUpper(c.Code) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, c.Code)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("currency %s: %w", c.Code, ErrEmptyName)
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category: %w", ErrEmptyName)
	}
	return c.Side.Validate()
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("account: %w", ErrEmptyName)
	}
	if strings.TrimSpace(a.Category) == "" {
		return fmt.Errorf("account %s: empty category", a.Name)
	}
	if strings.TrimSpace(a.Currency) == "" {
		return fmt.Errorf("account %s: empty currency", a.Name)
	}
	return a.Status.Validate()
}

func (b Balance) Validate() error {
	if b.AccountID <= 0 {
		return fmt.Errorf("balance: invalid account id %d", b.AccountID)
	}
	return b.Month.Validate()
}

func (r ExchangeRate) Validate() error {
	if len(r.Currency) != 3 {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, r.Currency)
	}
	if err := r.Month.Validate(); err != nil {
		return err
	}
	if !r.Rate.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidRate, r.Rate)
	}
	return nil
}
