package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nwtrack/internal/core"
)

// initCmd creates the database file and applies the schema.
type initCmd struct{}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create the database file and apply the schema" }
func (*initCmd) Usage() string {
	return `nwtrack init

  Creates the database file at NWTRACK_DB_PATH and applies the schema.
  The schema is destructive-and-recreate: reapplying from scratch does not
  preserve data, so export first if the file already holds history.
`
}

func (*initCmd) SetFlags(*flag.FlagSet) {}

func (*initCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tracker := openTracker()
	defer tracker.Close()
	fmt.Println("database initialized")
	return subcommands.ExitSuccess
}

type currencyAddCmd struct {
	code string
	name string
}

func (*currencyAddCmd) Name() string     { return "currency-add" }
func (*currencyAddCmd) Synopsis() string { return "register a currency" }
func (*currencyAddCmd) Usage() string {
	return `nwtrack currency-add -code USD -name "United States Dollar"
`
}

func (c *currencyAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.code, "code", "", "3-letter currency code")
	f.StringVar(&c.name, "name", "", "display name")
}

func (c *currencyAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tracker := openTracker()
	defer tracker.Close()

	err := tracker.AddCurrency(ctx, core.Currency{Code: c.code, Name: c.name})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding currency: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("currency %s added\n", c.code)
	return subcommands.ExitSuccess
}

type categoryAddCmd struct {
	name string
	side string
}

func (*categoryAddCmd) Name() string     { return "category-add" }
func (*categoryAddCmd) Synopsis() string { return "register an account category" }
func (*categoryAddCmd) Usage() string {
	return `nwtrack category-add -name checking -side asset
`
}

func (c *categoryAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "category name")
	f.StringVar(&c.side, "side", "", "asset or liability")
}

func (c *categoryAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tracker := openTracker()
	defer tracker.Close()

	err := tracker.AddCategory(ctx, core.Category{Name: c.name, Side: core.Side(c.side)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding category: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("category %s (%s) added\n", c.name, c.side)
	return subcommands.ExitSuccess
}

type categoriesCmd struct{}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list the registered categories" }
func (*categoriesCmd) Usage() string {
	return `nwtrack categories
`
}

func (*categoriesCmd) SetFlags(*flag.FlagSet) {}

func (*categoriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tracker := openTracker()
	defer tracker.Close()

	categories, err := tracker.Categories(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing categories: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, c := range categories {
		fmt.Printf("%-20s %s\n", c.Name, c.Side)
	}
	return subcommands.ExitSuccess
}

// importCmd loads CSV files. Reference data goes first so the account and
// balance sheets can resolve against it.
type importCmd struct {
	currencies string
	categories string
	accounts   string
	balances   string
	rates      string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import CSV data files" }
func (*importCmd) Usage() string {
	return `nwtrack import [-currencies FILE] [-categories FILE] [-accounts FILE] [-balances FILE] [-rates FILE]

  Imports the given CSV files in dependency order. Balance and rate sheets
  use the wide format: date,year,month followed by one column per account
  name or currency code.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currencies, "currencies", "", "currencies CSV (code,name)")
	f.StringVar(&c.categories, "categories", "", "categories CSV (name,side)")
	f.StringVar(&c.accounts, "accounts", "", "accounts CSV (name,description,category,currency,status)")
	f.StringVar(&c.balances, "balances", "", "balances CSV (wide format)")
	f.StringVar(&c.rates, "rates", "", "exchange rates CSV (wide format)")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tracker := openTracker()
	defer tracker.Close()

	steps := []struct {
		path string
		kind string
		load func(context.Context, string) (int, error)
	}{
		{c.currencies, "currencies", tracker.ImportCurrenciesCSV},
		{c.categories, "categories", tracker.ImportCategoriesCSV},
		{c.accounts, "accounts", tracker.ImportAccountsCSV},
		{c.balances, "balances", tracker.ImportBalancesCSV},
		{c.rates, "exchange rates", tracker.ImportExchangeRatesCSV},
	}

	imported := false
	for _, step := range steps {
		if step.path == "" {
			continue
		}
		n, err := step.load(ctx, step.path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", step.kind, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%d %s imported\n", n, step.kind)
		imported = true
	}
	if !imported {
		fmt.Fprintln(os.Stderr, "nothing to import: no files given")
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}
