package menu

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker/internal/transport/cli"
	"github.com/KotFed0t/portfolio_tracker/internal/transport/cli/middleware"
)

const header = "\nStock Portfolio Tracker\n" +
	"1. View Portfolio\n" +
	"2. Add Stock\n" +
	"3. Remove Stock\n" +
	"4. Exit\n"

type Menu struct {
	ctrl   *cli.Controller
	term   *cli.Terminal
	routes map[string]cli.HandlerFunc
}

func New(ctrl *cli.Controller, term *cli.Terminal) *Menu {
	m := &Menu{ctrl: ctrl, term: term}
	m.setupRoutes()
	return m
}

func (m *Menu) setupRoutes() {
	m.routes = map[string]cli.HandlerFunc{
		"1": m.handle("view portfolio", m.ctrl.ViewPortfolio),
		"2": m.handle("add stock", m.ctrl.AddStock),
		"3": m.handle("remove stock", m.ctrl.RemoveStock),
		"4": m.handle("exit", m.ctrl.Exit),
	}
}

func (m *Menu) handle(name string, h cli.HandlerFunc) cli.HandlerFunc {
	return cli.Chain(h, middleware.Logger(name), middleware.Recover(m.term, name))
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
// Failed actions have already been reported and do not stop the loop.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if err := m.term.Send(header); err != nil {
			return err
		}

		choice, err := m.term.Prompt("Enter your choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		handler, ok := m.routes[choice]
		if !ok {
			if err = m.ctrl.InvalidChoice(ctx); err != nil {
				return err
			}
			continue
		}

		err = handler(ctx)
		switch {
		case err == nil:
		case errors.Is(err, cli.ErrExit), errors.Is(err, io.EOF):
			return nil
		default:
			slog.Debug("menu action failed", slog.String("choice", choice), slog.String("err", err.Error()))
		}
	}
}
