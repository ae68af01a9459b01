package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"litreview-ai/internal/config"
	"litreview-ai/internal/contextutil"
	"litreview-ai/internal/storage"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	cfgFile string
	output  string
	yes     bool

	// logOutput receives log lines; command output goes to cmd.OutOrStdout.
	logOutput io.Writer

	cfg   *config.Config
	store *storage.Store
}

func newApp() *app {
	return &app{logOutput: os.Stderr}
}

// execute runs root and closes the store whether or not the command failed.
func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if closeErr := a.teardown(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to close store: %w", closeErr))
	}
	return err
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "litreview",
		Short: "AI-assisted literature review records",
		Long: `litreview turns exported bibliographic items (metadata, abstract, notes,
PDF text and annotations) into structured literature review records with an
AI model, organizes them into folders and writes folder-level summaries.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", config.DefaultPath, "config file path")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", formatTable, "output format: table, json or yaml")
	root.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "skip confirmation prompts")

	root.AddCommand(
		a.newFolderCmd(),
		a.newRecordCmd(),
		a.newExtractCmd(),
		a.newSummarizeCmd(),
		a.newStatsCmd(),
		a.newTemplateCmd(),
	)
	return root
}

// setup loads configuration, configures logging and opens the store.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := validateFormat(a.output); err != nil {
		return err
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg

	logger := newLogger(cfg, a.logOutput)
	slog.SetDefault(logger)

	ctx, runID := contextutil.WithRunID(contextutil.WithLogger(cmd.Context(), logger))
	cmd.SetContext(ctx)
	contextutil.LoggerFromContext(ctx).Debug("Logging configured",
		"level", cfg.SlogLevel().String(),
		"format", cfg.LogFormat,
		"command", cmd.CommandPath(),
		"run_id", runID,
	)

	store, err := storage.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	a.store = store
	return nil
}

func (a *app) teardown() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// newLogger configures structured logging with the configured level and format.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
