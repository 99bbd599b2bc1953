package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nwtrack/internal/core"
)

// parseMonthFlag parses a -month value, defaulting to the current month when
// the flag is empty.
func parseMonthFlag(s string) (core.Month, error) {
	if s == "" {
		return core.CurrentMonth(), nil
	}
	return core.ParseMonth(s)
}

type balanceSetCmd struct {
	account string
	month   string
	amount  int64
}

func (*balanceSetCmd) Name() string     { return "balance-set" }
func (*balanceSetCmd) Synopsis() string { return "record a month-end balance for an account" }
func (*balanceSetCmd) Usage() string {
	return `nwtrack balance-set -account checking_1 -amount 250000 [-month 2026-08]

  Records a new snapshot. Amounts are integer cents in the account's own
  currency; liabilities are recorded as positive amounts. A snapshot that
  already exists for the month must be revised with balance-update instead.
`
}

func (c *balanceSetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "account name")
	f.StringVar(&c.month, "month", "", "month as YYYY-MM (default: current month)")
	f.Int64Var(&c.amount, "amount", 0, "balance in cents")
}

func (c *balanceSetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonthFlag(c.month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing month: %v\n", err)
		return subcommands.ExitUsageError
	}

	tracker := openTracker()
	defer tracker.Close()

	if _, err := tracker.RecordBalance(ctx, c.account, month, c.amount); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording balance: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("balance for %s on %s set to %d\n", c.account, month, c.amount)
	return subcommands.ExitSuccess
}

type balanceUpdateCmd struct {
	account string
	month   string
	amount  int64
}

func (*balanceUpdateCmd) Name() string     { return "balance-update" }
func (*balanceUpdateCmd) Synopsis() string { return "revise an existing balance snapshot" }
func (*balanceUpdateCmd) Usage() string {
	return `nwtrack balance-update -account checking_1 -amount 251000 [-month 2026-08]
`
}

func (c *balanceUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "account name")
	f.StringVar(&c.month, "month", "", "month as YYYY-MM (default: current month)")
	f.Int64Var(&c.amount, "amount", 0, "balance in cents")
}

func (c *balanceUpdateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonthFlag(c.month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing month: %v\n", err)
		return subcommands.ExitUsageError
	}

	tracker := openTracker()
	defer tracker.Close()

	if err := tracker.UpdateBalance(ctx, c.account, month, c.amount); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating balance: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("balance for %s on %s updated to %d\n", c.account, month, c.amount)
	return subcommands.ExitSuccess
}

// rollForwardCmd seeds a new entry month by copying the previous month's
// balances for every active account.
type rollForwardCmd struct {
	from string
}

func (*rollForwardCmd) Name() string     { return "roll-forward" }
func (*rollForwardCmd) Synopsis() string { return "copy a month's balances into the next month" }
func (*rollForwardCmd) Usage() string {
	return `nwtrack roll-forward [-from 2026-07]

  Copies every active account's balance from the given month into the next
  one, skipping accounts that already have a snapshot there. Defaults to
  copying from the current month.
`
}

func (c *rollForwardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "source month as YYYY-MM (default: current month)")
}

func (c *rollForwardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, err := parseMonthFlag(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing month: %v\n", err)
		return subcommands.ExitUsageError
	}

	tracker := openTracker()
	defer tracker.Close()

	next, copied, err := tracker.CopyBalancesToNextMonth(ctx, from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rolling balances forward: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%d balances copied from %s to %s\n", copied, from, next)
	return subcommands.ExitSuccess
}

type balancesCmd struct {
	month string
	all   bool
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "list a month's recorded balances" }
func (*balancesCmd) Usage() string {
	return `nwtrack balances [-month 2026-08] [-all]

  Lists the balances recorded for a month; -all includes retired accounts.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "month as YYYY-MM (default: current month)")
	f.BoolVar(&c.all, "all", false, "include inactive accounts")
}

func (c *balancesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonthFlag(c.month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing month: %v\n", err)
		return subcommands.ExitUsageError
	}

	tracker := openTracker()
	defer tracker.Close()

	balances, err := tracker.MonthBalances(ctx, month, !c.all)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing balances: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(balances) == 0 {
		fmt.Printf("no balances recorded for %s\n", month)
		return subcommands.ExitSuccess
	}
	for _, b := range balances {
		fmt.Printf("%-20s %12d\n", b.AccountName, b.Amount)
	}
	return subcommands.ExitSuccess
}
