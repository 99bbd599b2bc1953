package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nwtrack/internal/core"
)

// formatCents renders an integer-cents amount as a decimal string.
func formatCents(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

type historyCmd struct {
	currency string
	all      bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the net-worth history" }
func (*historyCmd) Usage() string {
	return `nwtrack history [-currency USD] [-all]

  Shows the month-by-month net-worth aggregation, one series per currency.
  Defaults to the base currency; -all shows every currency.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "currency code (default: base currency)")
	f.BoolVar(&c.all, "all", false, "show every currency")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tracker := openTracker()
	defer tracker.Close()

	var history []core.NetWorth
	var err error
	if c.all {
		history, err = tracker.NetWorthHistory(ctx)
	} else {
		history, err = tracker.NetWorthHistoryByCurrency(ctx, c.currency)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading history: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(history) == 0 {
		fmt.Println("no balances recorded yet")
		return subcommands.ExitSuccess
	}

	fmt.Printf("%-8s %-4s %14s %14s %14s\n", "month", "cur", "assets", "liabilities", "net worth")
	for _, row := range history {
		fmt.Printf("%-8s %-4s %14s %14s %14s\n",
			row.Month, row.Currency,
			formatCents(row.TotalAssets),
			formatCents(row.TotalLiabilities),
			formatCents(row.NetWorth))
	}
	return subcommands.ExitSuccess
}

type networthCmd struct {
	month    string
	currency string
}

func (*networthCmd) Name() string     { return "networth" }
func (*networthCmd) Synopsis() string { return "show the net worth for one month" }
func (*networthCmd) Usage() string {
	return `nwtrack networth [-month 2026-08] [-currency USD]

  Shows the aggregation row for one month, defaulting to the current month
  and the base currency.
`
}

func (c *networthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "month as YYYY-MM (default: current month)")
	f.StringVar(&c.currency, "currency", "", "currency code (default: base currency)")
}

func (c *networthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonthFlag(c.month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing month: %v\n", err)
		return subcommands.ExitUsageError
	}

	tracker := openTracker()
	defer tracker.Close()

	row, err := tracker.NetWorthOn(ctx, month, c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading net worth: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s (%s)\n", row.Month, row.Currency)
	fmt.Printf("  assets:      %14s\n", formatCents(row.TotalAssets))
	fmt.Printf("  liabilities: %14s\n", formatCents(row.TotalLiabilities))
	fmt.Printf("  net worth:   %14s\n", formatCents(row.NetWorth))
	return subcommands.ExitSuccess
}

type ratesCmd struct {
	currency string
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "show the stored exchange rate history for a currency" }
func (*ratesCmd) Usage() string {
	return `nwtrack rates [-currency CHF]

  Shows the stored month-by-month rates for a currency against the base
  currency. Defaults to the base currency.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "currency code (default: base currency)")
}

func (c *ratesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tracker := openTracker()
	defer tracker.Close()

	rates, err := tracker.ExchangeRateHistory(ctx, c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading exchange rates: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(rates) == 0 {
		currency := c.currency
		if currency == "" {
			currency = "the base currency"
		}
		fmt.Printf("no rates recorded for %s\n", currency)
		return subcommands.ExitSuccess
	}
	for _, r := range rates {
		fmt.Printf("%-8s %s\n", r.Month, r.Rate)
	}
	return subcommands.ExitSuccess
}
