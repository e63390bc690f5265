package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/objsel/internal/cutflow"
	"github.com/roach88/objsel/internal/engine"
	"github.com/roach88/objsel/internal/event"
	"github.com/roach88/objsel/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config   string
	Events   string
	Database string

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// RunReport is the outcome of a run.
type RunReport struct {
	RunID     string             `json:"run_id"`
	Events    int64              `json:"events"`
	Skipped   int64              `json:"skipped"`
	Selectors []cutflow.Snapshot `json:"selectors"`
	Cutflow   []cutflow.Bin      `json:"cutflow"`
	Weighted  []cutflow.Bin      `json:"cutflow_weighted"`
	Database  string             `json:"database,omitempty"`
}

func (r RunReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s: %d event(s), %d skipped\n", r.RunID, r.Events, r.Skipped)
	writeCutflowTable(&b, r.Cutflow, r.Weighted)
	writeSelectorTable(&b, r.Selectors)
	if r.Database != "" {
		fmt.Fprintf(&b, "Stored in %s", r.Database)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run selectors over an event file",
		Long: `Run every configured selector over the events of an event file.

Selectors run in configuration order. An event rejected by one selector is
not shown to the following ones. The cutflow is printed and, with --db,
stored in a SQLite database together with the resolved configuration.

Example:
  objsel run --config selectors.cue --events events.yaml
  objsel run --config selectors.cue --events events.yaml --db cutflow.db --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelection(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to CUE selector configuration (required)")
	cmd.Flags().StringVar(&opts.Events, "events", "", "path to YAML event file (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for the cutflow")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("events")

	return cmd
}

func runSelection(opts *RunOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	logger.Info("loading configuration", "path", opts.Config)
	algs, err := buildAlgorithms(opts.Config, []engine.AlgorithmOption{engine.WithLogger(logger)})
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to configure selectors", err)
	}

	logger.Info("loading events", "path", opts.Events)
	records, err := event.LoadFile(opts.Events)
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load events", err)
	}

	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = engine.UUIDv7Generator{}
	}
	driver, err := engine.NewDriver(algs, runIDs, engine.WithDriverLogger(logger))
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to configure selectors", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("run starting", "run_id", driver.RunID(), "selectors", len(algs), "events", len(records))
	if err := driver.Run(ctx, records); err != nil {
		return formatter.Fail(ExitFailure, "selection failed", err)
	}

	book := driver.Finalize()
	summary := driver.Summary()
	report := RunReport{
		RunID:     summary.RunID,
		Events:    summary.Events,
		Skipped:   summary.Skipped,
		Selectors: summary.Cutflows,
		Cutflow:   book.Raw.Bins(),
		Weighted:  book.Weighted.Bins(),
	}

	if opts.Database != "" {
		if err := persistRun(ctx, opts.Database, driver, book); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to store run", err)
		}
		report.Database = opts.Database
		logger.Info("run stored", "run_id", report.RunID, "db", opts.Database)
	}

	return formatter.Success(report)
}

func persistRun(ctx context.Context, path string, driver *engine.Driver, book *cutflow.Book) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	run, err := driver.Record()
	if err != nil {
		return err
	}
	return st.WriteRun(ctx, run, book)
}

func writeCutflowTable(b *strings.Builder, raw, weighted []cutflow.Bin) {
	tw := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BIN\tEVENTS\tWEIGHTED")
	for i, bin := range raw {
		w := 0.0
		if i < len(weighted) {
			w = weighted[i].Content
		}
		fmt.Fprintf(tw, "%s\t%g\t%g\n", bin.Label, bin.Content, w)
	}
	tw.Flush()
}

func writeSelectorTable(b *strings.Builder, snaps []cutflow.Snapshot) {
	if len(snaps) == 0 {
		return
	}
	fmt.Fprintln(b)
	tw := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SELECTOR\tEVENTS\tPASSED\tOBJECTS\tSELECTED")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", s.Name, s.Events, s.EventsPassed, s.ObjectsSeen, s.ObjectsPassed)
	}
	tw.Flush()
}
