package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/data"
	"github.com/KotFed0t/portfolio_tracker/data/repository"
	"github.com/KotFed0t/portfolio_tracker/internal/command"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi/yahooApi"
	"github.com/KotFed0t/portfolio_tracker/internal/menu"
	"github.com/KotFed0t/portfolio_tracker/internal/reportGenerator/xlsxGenerator"
	"github.com/KotFed0t/portfolio_tracker/internal/service/portfolioService"
	"github.com/KotFed0t/portfolio_tracker/internal/transport/cli"
	"github.com/google/subcommands"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.MustLoad()

	closeLog, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		return 1
	}
	defer closeLog()

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := data.NewSQLClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio store: %v\n", err)
		return 1
	}
	defer db.Close()

	repo := repository.NewSQL(db)

	yahooApiClient := yahooApi.New(cfg)

	reportGenerator := xlsxGenerator.New()

	portfolioSrv := portfolioService.New(repo, yahooApiClient, reportGenerator)

	term := cli.NewTerminal(os.Stdin, os.Stdout)
	ctrl := cli.NewController(cfg, portfolioSrv, term)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	command.Register(commander, menu.New(ctrl, term), ctrl, cfg.Jobs.WatchInterval)

	flag.Parse()
	if flag.NArg() == 0 {
		_ = flag.CommandLine.Parse([]string{"menu"})
	}

	return int(commander.Execute(ctx))
}

func setupLogger(cfg *config.Config) (func(), error) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	// stdout belongs to the menu
	var w io.Writer = os.Stderr
	closeFn := func() {}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	log := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)

	return closeFn, nil
}
