package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/objsel/internal/cutflow"
	"github.com/roach88/objsel/internal/store"
)

// CutflowOptions holds flags for the cutflow command.
type CutflowOptions struct {
	*RootOptions
	Database string
	RunID    string
	List     bool
	Hash     string
}

// StoredCutflow is one persisted run with its histograms.
type StoredCutflow struct {
	Run      store.Run     `json:"run"`
	Cutflow  []cutflow.Bin `json:"cutflow"`
	Weighted []cutflow.Bin `json:"cutflow_weighted"`
}

func (c StoredCutflow) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s (engine %s): %d event(s), %d skipped\n",
		c.Run.ID, c.Run.EngineVersion, c.Run.Events, c.Run.Skipped)
	writeCutflowTable(&b, c.Cutflow, c.Weighted)

	snaps := make([]cutflow.Snapshot, len(c.Run.Selectors))
	for i, sel := range c.Run.Selectors {
		snaps[i] = sel.Cutflow
	}
	writeSelectorTable(&b, snaps)
	return strings.TrimRight(b.String(), "\n")
}

// RunList is the stored runs, oldest first.
type RunList []store.Run

func (l RunList) String() string {
	if len(l) == 0 {
		return "No runs stored."
	}
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tEVENTS\tSKIPPED\tENGINE")
	for _, r := range l {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", r.ID, r.Events, r.Skipped, r.EngineVersion)
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// NewCutflowCommand creates the cutflow command.
func NewCutflowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CutflowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cutflow",
		Short: "Show stored cutflows",
		Long: `Show a cutflow stored by "objsel run --db".

Without --run the most recent run is shown. --list prints every stored run
and --hash lists the runs that used a selector with the given
configuration hash.

Example:
  objsel cutflow --db cutflow.db
  objsel cutflow --db cutflow.db --run 0190a8f2-...
  objsel cutflow --db cutflow.db --list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCutflow(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id (default: latest)")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list stored runs")
	cmd.Flags().StringVar(&opts.Hash, "hash", "", "list runs using a selector configuration hash")
	cmd.MarkFlagsMutuallyExclusive("run", "list", "hash")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runCutflow(opts *CutflowOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeInput, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := queryCutflow(ctx, st, opts)
	if err != nil {
		code := ExitCommandError
		if errors.Is(err, store.ErrRunNotFound) {
			code = ExitFailure
		}
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(code, "failed to read cutflow", err)
	}
	return formatter.Success(data)
}

func queryCutflow(ctx context.Context, st *store.Store, opts *CutflowOptions) (any, error) {
	switch {
	case opts.List:
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return nil, err
		}
		return RunList(runs), nil
	case opts.Hash != "":
		ids, err := st.FindRunsByConfigHash(ctx, opts.Hash)
		if err != nil {
			return nil, err
		}
		runs := make(RunList, 0, len(ids))
		for _, id := range ids {
			r, err := st.ReadRun(ctx, id)
			if err != nil {
				return nil, err
			}
			runs = append(runs, r)
		}
		return runs, nil
	}

	id := opts.RunID
	if id == "" {
		latest, err := st.LatestRunID(ctx)
		if err != nil {
			return nil, err
		}
		id = latest
	}

	run, err := st.ReadRun(ctx, id)
	if err != nil {
		return nil, err
	}
	raw, err := st.ReadHistogram(ctx, id, cutflow.RawName)
	if err != nil {
		return nil, err
	}
	weighted, err := st.ReadHistogram(ctx, id, cutflow.WeightedName)
	if err != nil {
		return nil, err
	}
	return StoredCutflow{Run: run, Cutflow: raw, Weighted: weighted}, nil
}
