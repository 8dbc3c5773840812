package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"saldo/internal/core"
	"saldo/internal/export"
	"saldo/internal/log"
	"saldo/internal/services"
	"saldo/internal/storage"
)

// App carries what every subcommand needs. A CLI run is short lived: each
// command loads the ledger, applies at most one change and saves it back.
type App struct {
	Store     storage.LedgerStore
	Publisher export.Publisher // optional
	Currency  string
	Version   string
	Logger    *log.Logger

	Out io.Writer
	Err io.Writer
	// Render turns Markdown into terminal output.
	Render func(markdown string) (string, error)
}

// Register adds the saldo subcommands to c.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&addCmd{app: app}, "ledger")
	c.Register(&rmCmd{app: app}, "ledger")
	c.Register(&anchorCmd{app: app}, "ledger")
	c.Register(&clearCmd{app: app}, "ledger")

	c.Register(&balanceCmd{app: app}, "reports")
	c.Register(&listCmd{app: app}, "reports")
	c.Register(&reportCmd{app: app}, "reports")
	c.Register(&projectCmd{app: app}, "reports")

	c.Register(&exportCmd{app: app}, "export")
}

func (a *App) stdout() io.Writer {
	if a.Out == nil {
		return os.Stdout
	}
	return a.Out
}

func (a *App) stderr() io.Writer {
	if a.Err == nil {
		return os.Stderr
	}
	return a.Err
}

func (a *App) logger() *log.Logger {
	if a.Logger == nil {
		return log.Discard()
	}
	return a.Logger.WithComponent(log.ComponentCLI)
}

// tracker loads the stored ledger. Unlike the server, a CLI run refuses to
// work on an unreadable store so a later save cannot overwrite it.
func (a *App) tracker(ctx context.Context) (*services.Tracker, error) {
	l, err := a.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return services.NewTracker(l, services.WithLogger(a.logger())), nil
}

func (a *App) save(ctx context.Context, t *services.Tracker) error {
	if err := a.Store.Save(ctx, t.Ledger()); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// failf reports a runtime failure.
func (a *App) failf(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.stderr(), "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

// usagef reports invalid user input.
func (a *App) usagef(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.stderr(), format+"\n", args...)
	return subcommands.ExitUsageError
}

// invalid prints one "field: message" line per validation failure.
func (a *App) invalid(err error) subcommands.ExitStatus {
	var verrs core.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fmt.Fprintf(a.stderr(), "%s: %v\n", fe.Field, fe.Err)
		}
		return subcommands.ExitUsageError
	}
	return a.failf("%v", err)
}

func (a *App) printMarkdown(md string) {
	out := md
	if a.Render != nil {
		if rendered, err := a.Render(md); err == nil {
			out = rendered
		} else {
			a.logger().Debug("Markdown rendering failed, printing raw", log.FieldError, err)
		}
	}
	fmt.Fprint(a.stdout(), out)
}

func (a *App) format(m core.Money) string {
	return m.Format(a.Currency)
}
