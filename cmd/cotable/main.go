package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/rebeliceyang/cotable/internal/app"
	"github.com/rebeliceyang/cotable/internal/config"
	"github.com/rebeliceyang/cotable/internal/i18n"
	"github.com/rebeliceyang/cotable/internal/logging"
	"github.com/rebeliceyang/cotable/internal/source"
)

func main() {
	flags := pflag.NewFlagSet("cotable", pflag.ExitOnError)
	configFile := flags.String("config", "", "path to config file")
	flags.String("source", "", "rows to show: file (.json, .yaml, .csv), sqlite://path?table=T or postgres://...?query=Q")
	flags.String("theme", "", "color theme (default, catppuccin-mocha)")
	flags.String("locale", "", "interface and collation locale (tr, en)")
	flags.Int("page-size", 0, "rows per page")
	flags.String("filter-style", "", "column filter editor style (inline, popover)")
	flags.String("log-file", "", "write logs to this file")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("no-mouse", false, "disable mouse support")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		log.Printf("Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}

	logger, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxDays:    cfg.Log.MaxAgeDays,
	})
	if err != nil {
		log.Printf("Warning: Could not open log file: %v (logging disabled)\n", err)
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	strs, err := i18n.Load(cfg.Data.Locale)
	if err != nil {
		log.Printf("Warning: Could not load strings: %v\n", err)
		strs = i18n.MustLoad(i18n.DefaultLocale)
	}
	if cfg.UI.StringsFile != "" {
		if err := strs.LoadOverrides(cfg.UI.StringsFile); err != nil {
			log.Printf("Warning: Could not load string overrides: %v\n", err)
		}
	}

	props := app.PropsFromConfig(cfg)
	opts := app.Options{Config: cfg, Strings: strs, Logger: logger}
	if cfg.Data.Source == "" || cfg.Data.Source == source.DemoURI {
		props.Rows = source.Demo().Rows
		if len(props.Columns) == 0 {
			props.Columns = source.DemoColumns()
		}
	} else {
		opts.Source = cfg.Data.Source
	}

	logger.Info("starting cotable",
		zap.String("source", source.Redact(cfg.Data.Source)),
		zap.String("locale", strs.Locale()),
		zap.String("theme", cfg.UI.Theme),
	)

	m, err := app.New(props, opts)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	zone.NewGlobal()

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(m, programOpts...)
	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", zap.Error(err))
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
