package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"tood/internal/app"
	"tood/internal/config"
	"tood/internal/storage"
	"tood/internal/task"
	"tood/internal/ui"
)

type options struct {
	configPath string
	dbPath     string
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "tood",
		Short:         "A keyboard-driven todo list for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $TOOD_CONFIG or the user config dir)")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path, overrides db_path from the config")

	cmd.AddCommand(newListCommand(opts), newAddCommand(opts))
	return cmd
}

func (o *options) load() (config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "tood",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

func runTUI(opts *options) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, cfg.LogLevel)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	ctrl, err := app.New(store, app.Options{
		Keys:          cfg.Keys.Bindings(),
		FlashInterval: cfg.FlashInterval(),
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	logger.Info("starting", "db", cfg.DBPath)
	if err := ui.Run(ctrl, cfg, logger); err != nil {
		logger.Error("run", "err", err)
		return err
	}
	return nil
}

func newListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			store, err := storage.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer store.Close()

			tasks, err := store.Load()
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}
}

func printTasks(w io.Writer, tasks []task.Task) {
	for i, t := range tasks {
		mark := " "
		switch {
		case t.Recurring:
			mark = "↻"
		case t.Completed:
			mark = "x"
		}
		line := fmt.Sprintf("%3d [%s] %s", i+1, mark, t.Name)
		if due := ui.FormatDue(t.Due); due != "" {
			line += "  (due " + due + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func newAddCommand(opts *options) *cobra.Command {
	var recurring bool
	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Append a todo without opening the interface",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			store, err := storage.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer store.Close()

			items, err := store.Load()
			if err != nil {
				return err
			}
			list := task.NewList(items)
			list.Add(task.Task{
				Name:      strings.Join(args, " "),
				Recurring: recurring,
				CreatedAt: time.Now(),
			})
			if err := store.Save(list.All()); err != nil {
				return err
			}
			logger.Debug("added todo", "count", list.Len())
			fmt.Fprintf(cmd.OutOrStdout(), "Added todo %d\n", list.Len())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&recurring, "recurring", "r", false, "mark the todo as recurring")
	return cmd
}
