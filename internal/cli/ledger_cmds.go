package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"saldo/internal/core"
)

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	app        *App
	kind       string
	amount     string
	date       string
	recurrence string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income or an expense" }
func (*addCmd) Usage() string {
	return `saldo add -k <income|expense> -a <amount> [-d <date>] [-r <none|monthly|yearly>] <description>

  Records a transaction. Recurring transactions repeat from their date on.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", "expense", "transaction kind: income or expense")
	f.StringVar(&c.amount, "a", "", "positive amount, e.g. 12.50 or 12,50")
	f.StringVar(&c.date, "d", "", "date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.recurrence, "r", "none", "recurrence: none, monthly or yearly")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	d, err := core.DraftInput{
		Kind:        c.kind,
		Amount:      c.amount,
		Date:        c.date,
		Description: strings.Join(f.Args(), " "),
		Recurrence:  c.recurrence,
	}.Parse()
	if err != nil {
		return c.app.invalid(err)
	}

	t, err := c.app.tracker(ctx)
	if err != nil {
		return c.app.failf("%v", err)
	}
	tx, err := t.AddTransaction(ctx, d)
	if err != nil {
		return c.app.invalid(err)
	}
	if err := c.app.save(ctx, t); err != nil {
		return c.app.failf("%v", err)
	}

	fmt.Fprintf(c.app.stdout(), "Added %s %s on %s (%s): %s\n",
		tx.Kind, c.app.format(tx.Amount), tx.Date, tx.Recurrence, tx.ID)
	return subcommands.ExitSuccess
}

// rmCmd holds the flags for the 'rm' subcommand.
type rmCmd struct {
	app *App
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete transactions by id" }
func (*rmCmd) Usage() string {
	return `saldo rm <id>...

  Deletes the given transactions. Unknown ids are reported and ignored.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return c.app.usagef("rm needs at least one transaction id")
	}

	t, err := c.app.tracker(ctx)
	if err != nil {
		return c.app.failf("%v", err)
	}
	changed := false
	for _, id := range f.Args() {
		if t.DeleteTransaction(ctx, id) {
			changed = true
			fmt.Fprintf(c.app.stdout(), "Removed %s\n", id)
		} else {
			fmt.Fprintf(c.app.stdout(), "No transaction %s\n", id)
		}
	}
	if !changed {
		return subcommands.ExitSuccess
	}
	if err := c.app.save(ctx, t); err != nil {
		return c.app.failf("%v", err)
	}
	return subcommands.ExitSuccess
}

// anchorCmd holds the flags for the 'anchor' subcommand.
type anchorCmd struct {
	app    *App
	amount string
	date   string
}

func (*anchorCmd) Name() string     { return "anchor" }
func (*anchorCmd) Synopsis() string { return "set the initial balance and its date" }
func (*anchorCmd) Usage() string {
	return `saldo anchor -a <amount> [-d <date>]

  Sets the balance every projection starts from. Replaces any previous one.
`
}

func (c *anchorCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "initial balance, zero or positive")
	f.StringVar(&c.date, "d", "", "anchor date (YYYY-MM-DD), defaults to today")
}

func (c *anchorCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, date, err := core.AnchorInput{Amount: c.amount, Date: c.date}.Parse()
	if err != nil {
		return c.app.invalid(err)
	}

	t, err := c.app.tracker(ctx)
	if err != nil {
		return c.app.failf("%v", err)
	}
	if err := t.SetInitialBalance(ctx, amount, date); err != nil {
		return c.app.invalid(err)
	}
	if err := c.app.save(ctx, t); err != nil {
		return c.app.failf("%v", err)
	}

	fmt.Fprintf(c.app.stdout(), "Initial balance set to %s on %s\n", c.app.format(amount), date)
	return subcommands.ExitSuccess
}

// clearCmd holds the flags for the 'clear' subcommand.
type clearCmd struct {
	app *App
	yes bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "delete every transaction and the initial balance" }
func (*clearCmd) Usage() string {
	return `saldo clear -y

  Resets the ledger. Requires -y to confirm.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "confirm clearing the ledger")
}

func (c *clearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		return c.app.usagef("refusing to clear the ledger without -y")
	}

	t, err := c.app.tracker(ctx)
	if err != nil {
		return c.app.failf("%v", err)
	}
	removed := len(t.Ledger().Transactions)
	t.ClearAll(ctx)
	if err := c.app.save(ctx, t); err != nil {
		return c.app.failf("%v", err)
	}

	fmt.Fprintf(c.app.stdout(), "Ledger cleared, %d transactions removed\n", removed)
	return subcommands.ExitSuccess
}
