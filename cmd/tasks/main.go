package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/idilsaglam/tasks/internal/cli"
	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/logging"
)

func main() {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", "", "config file path")
	dataPath := flag.String("data", "", "data file path")
	group := flag.Bool("group", false, "group output by pending/done")
	theme := flag.String("theme", "", "color theme: classic, neon, mono")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	// Flags override file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.Storage.Path = *dataPath
		case "group":
			cfg.UI.Group = *group
		case "theme":
			cfg.UI.Theme = *theme
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Prefix: "tasks",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "log:", err)
		os.Exit(1)
	}
	if cfg.Log.File == "" && args[0] == "ui" {
		// Console output would tear the alt screen.
		logger = logging.Discard()
	}
	logger.Debug("config loaded", "source", cfg.Source, "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, args, cli.Options{
		Config: cfg,
		Logger: logger,
	})
	stop()
	closeLog()
	os.Exit(code)
}
