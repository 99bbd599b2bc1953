package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nwtrack/internal/core"
)

type accountAddCmd struct {
	name        string
	description string
	category    string
	currency    string
}

func (*accountAddCmd) Name() string     { return "account-add" }
func (*accountAddCmd) Synopsis() string { return "create an account" }
func (*accountAddCmd) Usage() string {
	return `nwtrack account-add -name checking_1 -category checking [-currency USD] [-description TEXT]

  The category and currency must already exist in the reference tables.
  The currency defaults to the base currency.
`
}

func (c *accountAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "unique account name")
	f.StringVar(&c.description, "description", "", "free-form description")
	f.StringVar(&c.category, "category", "", "category name")
	f.StringVar(&c.currency, "currency", "", "currency code (default: base currency)")
}

func (c *accountAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tracker := openTracker()
	defer tracker.Close()

	id, err := tracker.AddAccount(ctx, core.Account{
		Name:        c.name,
		Description: c.description,
		Category:    c.category,
		Currency:    c.currency,
		Status:      core.Active,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating account: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("account %s created (id %d)\n", c.name, id)
	return subcommands.ExitSuccess
}

// accountStatusCmd retires or reactivates an account. Retirement is a soft
// delete: the row and its balance history stay.
type accountStatusCmd struct {
	name   string
	status string
}

func (*accountStatusCmd) Name() string     { return "account-status" }
func (*accountStatusCmd) Synopsis() string { return "set an account active or inactive" }
func (*accountStatusCmd) Usage() string {
	return `nwtrack account-status -name checking_1 -status inactive
`
}

func (c *accountStatusCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "account name")
	f.StringVar(&c.status, "status", "", "active or inactive")
}

func (c *accountStatusCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tracker := openTracker()
	defer tracker.Close()

	if err := tracker.SetAccountStatus(ctx, c.name, core.Status(c.status)); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating account status: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("account %s is now %s\n", c.name, c.status)
	return subcommands.ExitSuccess
}

type accountDescribeCmd struct {
	name        string
	description string
}

func (*accountDescribeCmd) Name() string     { return "account-describe" }
func (*accountDescribeCmd) Synopsis() string { return "revise an account's description" }
func (*accountDescribeCmd) Usage() string {
	return `nwtrack account-describe -name checking_1 -description "joint household account"
`
}

func (c *accountDescribeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "account name")
	f.StringVar(&c.description, "description", "", "new description")
}

func (c *accountDescribeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tracker := openTracker()
	defer tracker.Close()

	if err := tracker.SetAccountDescription(ctx, c.name, c.description); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating account description: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("account %s description updated\n", c.name)
	return subcommands.ExitSuccess
}

type accountsCmd struct {
	all bool
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts" }
func (*accountsCmd) Usage() string {
	return `nwtrack accounts [-all]

  Lists active accounts; -all includes retired ones.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "include inactive accounts")
}

func (c *accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tracker := openTracker()
	defer tracker.Close()

	accounts, err := tracker.Accounts(ctx, !c.all)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing accounts: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, a := range accounts {
		fmt.Printf("%3d  %-20s %-16s %s  %s\n", a.ID, a.Name, a.Category, a.Currency, a.Status)
	}
	return subcommands.ExitSuccess
}
