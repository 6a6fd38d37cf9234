package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/KotFed0t/portfolio_tracker/internal/menu"
	"github.com/KotFed0t/portfolio_tracker/internal/scheduler"
	"github.com/KotFed0t/portfolio_tracker/internal/transport/cli"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/google/subcommands"
)

// Register the subcommands.
func Register(c *subcommands.Commander, m *menu.Menu, ctrl *cli.Controller, watchInterval time.Duration) {
	c.Register(c.HelpCommand(), "")
	c.Register(&menuCmd{menu: m}, "")

	c.Register(&viewCmd{ctrl: ctrl}, "holdings")
	c.Register(&addCmd{ctrl: ctrl}, "holdings")
	c.Register(&removeCmd{ctrl: ctrl}, "holdings")

	c.Register(&exportCmd{ctrl: ctrl}, "reports")
	c.Register(&watchCmd{ctrl: ctrl, interval: watchInterval}, "reports")
}

func exitStatus(err error) subcommands.ExitStatus {
	switch {
	case err == nil:
		return subcommands.ExitSuccess
	case errors.Is(err, cli.ErrInvalidInput):
		return subcommands.ExitUsageError
	default:
		return subcommands.ExitFailure
	}
}

type menuCmd struct {
	menu *menu.Menu
}

func (*menuCmd) Name() string     { return "menu" }
func (*menuCmd) Synopsis() string { return "interactive menu (default when no command is given)" }
func (*menuCmd) Usage() string {
	return `menu

  Runs the interactive menu: view, add and remove holdings until Exit is chosen.
`
}
func (*menuCmd) SetFlags(*flag.FlagSet) {}

// Execute returns as soon as ctx is cancelled, even while the menu waits for a line of input.
func (c *menuCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	errC := make(chan error, 1)
	go func() {
		errC <- c.menu.Run(ctx)
	}()

	select {
	case err := <-errC:
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		// Run stays blocked reading stdin; the process exits right after.
		fmt.Fprintln(os.Stderr)
	}
	return subcommands.ExitSuccess
}

type viewCmd struct {
	ctrl *cli.Controller
}

func (*viewCmd) Name() string     { return "view" }
func (*viewCmd) Synopsis() string { return "print holdings with live prices and the total value" }
func (*viewCmd) Usage() string {
	return `view

  Prices every holding at its latest close and prints the portfolio value.
`
}
func (*viewCmd) SetFlags(*flag.FlagSet) {}

func (c *viewCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exitStatus(c.ctrl.ViewPortfolio(utils.CreateCtxWithRqID(ctx)))
}

type addCmd struct {
	ctrl   *cli.Controller
	symbol string
	shares string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a holding" }
func (*addCmd) Usage() string {
	return `add -symbol <symbol> -shares <count>

  Records a holding. The share count must be a positive integer.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "stock symbol, e.g. AAPL")
	f.StringVar(&c.shares, "shares", "", "number of shares (positive integer)")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exitStatus(c.ctrl.AddHolding(utils.CreateCtxWithRqID(ctx), c.symbol, c.shares))
}

type removeCmd struct {
	ctrl *cli.Controller
	id   string
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove a holding by id" }
func (*removeCmd) Usage() string {
	return `remove -id <id>

  Deletes the holding with the given id. Unknown ids leave the portfolio unchanged.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "holding id as shown by view")
}

func (c *removeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exitStatus(c.ctrl.RemoveHolding(utils.CreateCtxWithRqID(ctx), c.id))
}

type exportCmd struct {
	ctrl   *cli.Controller
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the current valuation to a spreadsheet" }
func (*exportCmd) Usage() string {
	return `export [-o <file>]

  Prices every holding and writes the valuation as an xlsx workbook.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "portfolio.xlsx", "output file")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exitStatus(c.ctrl.ExportPortfolio(utils.CreateCtxWithRqID(ctx), c.output))
}

type watchCmd struct {
	ctrl     *cli.Controller
	interval time.Duration
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "re-print the valuation periodically until interrupted" }
func (*watchCmd) Usage() string {
	return `watch [-every <duration>]

  Prints the portfolio valuation now and then every interval until interrupted.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.interval, "every", c.interval, "refresh interval")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.interval <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -every must be positive")
		return subcommands.ExitUsageError
	}

	sched, err := scheduler.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	err = sched.NewIntervalJob("view portfolio", func(jobCtx context.Context) error {
		return c.ctrl.ViewPortfolio(utils.CreateCtxWithRqID(jobCtx))
	}, c.interval, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	sched.Start()
	defer sched.Stop()

	<-ctx.Done()
	return subcommands.ExitSuccess
}
