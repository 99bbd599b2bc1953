package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"nwtrack/internal/cli"
	"nwtrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cli.SetupLogger()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&initCmd{}, "reference data")
	subcommands.Register(&currencyAddCmd{}, "reference data")
	subcommands.Register(&categoryAddCmd{}, "reference data")
	subcommands.Register(&categoriesCmd{}, "reference data")
	subcommands.Register(&importCmd{}, "reference data")

	subcommands.Register(&accountAddCmd{}, "accounts")
	subcommands.Register(&accountStatusCmd{}, "accounts")
	subcommands.Register(&accountDescribeCmd{}, "accounts")
	subcommands.Register(&accountsCmd{}, "accounts")

	subcommands.Register(&balanceSetCmd{}, "balances")
	subcommands.Register(&balanceUpdateCmd{}, "balances")
	subcommands.Register(&rollForwardCmd{}, "balances")
	subcommands.Register(&balancesCmd{}, "balances")

	subcommands.Register(&historyCmd{}, "reports")
	subcommands.Register(&networthCmd{}, "reports")
	subcommands.Register(&ratesCmd{}, "reports")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

// openTracker builds the tracker from the environment configuration. Opening
// the repository creates the database file and applies the schema.
func openTracker() *services.Tracker {
	logger := slog.Default()
	cfg := cli.LoadAndValidateConfig(logger)
	return cli.InitTracker(logger, cfg)
}
