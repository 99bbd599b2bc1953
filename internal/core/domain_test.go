package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSideValidate(t *testing.T) {
	if err := Asset.Validate(); err != nil {
		t.Errorf("asset rejected: %v", err)
	}
	if err := Liability.Validate(); err != nil {
		t.Errorf("liability rejected: %v", err)
	}
	if err := Side("equity").Validate(); !errors.Is(err, ErrInvalidSide) {
		t.Errorf("Side(equity) err = %v, want ErrInvalidSide", err)
	}
}

func TestStatusValidate(t *testing.T) {
	if err := Active.Validate(); err != nil {
		t.Errorf("active rejected: %v", err)
	}
	if err := Status("closed").Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Status(closed) err = %v, want ErrInvalidStatus", err)
	}
}

func TestCurrencyValidate(t *testing.T) {
	if err := (Currency{Code: "USD", Name: "United States Dollar"}).Validate(); err != nil {
		t.Errorf("valid currency rejected: %v", err)
	}
	for _, c := range []Currency{
		{Code: "usd", Name: "lowercase"},
		{Code: "DOLLAR", Name: "too long"},
		{Code: "USD", Name: " "},
	} {
		if err := c.Validate(); err == nil {
			t.Errorf("Currency %+v should be invalid", c)
		}
	}
}

func TestAccountValidate(t *testing.T) {
	valid := Account{
		Name:     "checking_1",
		Category: "checking",
		Currency: "USD",
		Status:   Active,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid account rejected: %v", err)
	}

	t.Run("empty name", func(t *testing.T) {
		a := valid
		a.Name = ""
		if err := a.Validate(); !errors.Is(err, ErrEmptyName) {
			t.Errorf("err = %v, want ErrEmptyName", err)
		}
	})
	t.Run("bad status", func(t *testing.T) {
		a := valid
		a.Status = "deleted"
		if err := a.Validate(); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("err = %v, want ErrInvalidStatus", err)
		}
	})
}

func TestBalanceValidate(t *testing.T) {
	b := Balance{AccountID: 1, Month: Month{Year: 2024, Month: 1}, Amount: 100000}
	if err := b.Validate(); err != nil {
		t.Errorf("valid balance rejected: %v", err)
	}
	b.AccountID = 0
	if err := b.Validate(); err == nil {
		t.Error("balance without account should be invalid")
	}
}

func TestExchangeRateValidate(t *testing.T) {
	r := ExchangeRate{
		Currency: "CHF",
		Month:    Month{Year: 2024, Month: 1},
		Rate:     decimal.RequireFromString("1.10"),
	}
	if err := r.Validate(); err != nil {
		t.Errorf("valid rate rejected: %v", err)
	}
	r.Rate = decimal.Zero
	if err := r.Validate(); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("err = %v, want ErrInvalidRate", err)
	}
}
