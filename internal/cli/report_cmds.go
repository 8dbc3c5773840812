package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"saldo/internal/core"
	"saldo/internal/services"
)

// balanceCmd holds the flags for the 'balance' subcommand.
type balanceCmd struct {
	app  *App
	date string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "print the projected balance on a date" }
func (*balanceCmd) Usage() string {
	return `saldo balance [-d <date>]

  Prints the balance projected on the given date, today by default.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "date (YYYY-MM-DD), defaults to today")
}

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on := core.Today()
	if c.date != "" {
		d, err := core.ParseDate(c.date)
		if err != nil {
			return c.app.usagef("Error parsing date: %v", err)
		}
		on = d
	}

	t, err := c.app.tracker(ctx)
	if err != nil {
		return c.app.failf("%v", err)
	}
	if !t.Ledger().HasAnchor() {
		fmt.Fprintln(c.app.stderr(), "warning: no initial balance set, projections are zero")
	}
	fmt.Fprintf(c.app.stdout(), "Balance on %s: %s\n", on, c.app.format(t.BalanceAt(on)))
	return subcommands.ExitSuccess
}

// listCmd holds the flags for the 'list' subcommand.
type listCmd struct {
	app *App
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list transactions newest first" }
func (*listCmd) Usage() string {
	return `saldo list

  Shows the initial balance, the current balance and every transaction.
`
}

func (*listCmd) SetFlags(*flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := c.app.tracker(ctx)
	if err != nil {
		return c.app.failf("%v", err)
	}
	c.app.printMarkdown(LedgerMarkdown(t.Ledger(), t.CurrentBalance(), c.app.Currency))
	return subcommands.ExitSuccess
}

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	app    *App
	end    string
	months int
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "monthly income and expense totals" }
func (*reportCmd) Usage() string {
	return `saldo report [-end <YYYY-MM>] [-n <months>]

  Totals the transactions dated in each month. Recurring transactions are
  counted once, in the month of their date.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.end, "end", "", "last month of the report (YYYY-MM), defaults to the current month")
	f.IntVar(&c.months, "n", 6, "number of months")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	today := core.Today()
	end := core.NewDate(today.Year(), today.Month(), 1)
	if c.end != "" {
		t, err := time.Parse("2006-01", c.end)
		if err != nil {
			return c.app.usagef("Error parsing month %q: expected YYYY-MM", c.end)
		}
		end = core.DateOf(t)
	}
	if c.months < 1 {
		return c.app.usagef("-n must be at least 1")
	}

	t, err := c.app.tracker(ctx)
	if err != nil {
		return c.app.failf("%v", err)
	}
	c.app.printMarkdown(AggregatesMarkdown(t.RecentAggregates(end, c.months), c.app.Currency))
	return subcommands.ExitSuccess
}

// projectCmd holds the flags for the 'project' subcommand.
type projectCmd struct {
	app    *App
	from   string
	months int
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "projected balance at each month end" }
func (*projectCmd) Usage() string {
	return `saldo project [-from <date>] [-n <months>]

  Projects the balance at the end of each month, starting with the month of
  -from.
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "first month to project (YYYY-MM-DD), defaults to today")
	f.IntVar(&c.months, "n", 12, "number of months")
}

func (c *projectCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from := core.Today()
	if c.from != "" {
		d, err := core.ParseDate(c.from)
		if err != nil {
			return c.app.usagef("Error parsing date: %v", err)
		}
		from = d
	}
	if c.months < 1 {
		return c.app.usagef("-n must be at least 1")
	}

	t, err := c.app.tracker(ctx)
	if err != nil {
		return c.app.failf("%v", err)
	}
	c.app.printMarkdown(ProjectionMarkdown(t.ProjectionSeries(from, c.months), c.app.Currency))
	return subcommands.ExitSuccess
}

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	app    *App
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the ledger export to a JSON file" }
func (*exportCmd) Usage() string {
	return `saldo export [-o <path>]

  Writes an export snapshot of the ledger. When AMQP_URL is set the snapshot
  is also published.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output file, defaults to a timestamped name in the current directory")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := c.app.tracker(ctx)
	if err != nil {
		return c.app.failf("%v", err)
	}

	svc := services.NewExportService(t, c.app.Publisher, c.app.Version, c.app.logger())
	path := c.output
	if path == "" {
		path = svc.SuggestedFileName()
	}
	snap, err := svc.ExportFile(ctx, path)
	if err != nil {
		return c.app.failf("%v", err)
	}

	fmt.Fprintf(c.app.stdout(), "Exported %d transactions to %s\n", len(snap.Transactions), path)
	return subcommands.ExitSuccess
}
