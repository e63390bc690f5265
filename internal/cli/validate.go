package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/objsel/internal/config"
	"github.com/roach88/objsel/internal/engine"
)

// SelectorSummary describes one resolved selector.
type SelectorSummary struct {
	Name           string   `json:"name"`
	Family         string   `json:"family"`
	InputContainer string   `json:"input_container"`
	FanOut         bool     `json:"fan_out"`
	ConfigHash     string   `json:"config_hash"`
	Steps          []string `json:"steps"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Selectors []SelectorSummary `json:"selectors"`

	verbose bool
}

func (r ValidationResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ %d selector(s) valid", len(r.Selectors))
	for _, s := range r.Selectors {
		mode := "single"
		if s.FanOut {
			mode = "fan-out"
		}
		fmt.Fprintf(&b, "\n  %s (%s, %s, input %s)", s.Name, s.Family, mode, s.InputContainer)
		if r.verbose {
			for _, step := range s.Steps {
				fmt.Fprintf(&b, "\n    - %s", step)
			}
		}
	}
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config.cue>",
		Short: "Validate a selector configuration",
		Long: `Validate a CUE selector configuration without processing events.

Resolves defaults, checks every key and builds each selector's decision
plan, so unknown working points and bad isolation expressions are reported
here rather than at run time.

Exit codes:
  0 - Configuration is valid
  1 - Configuration is invalid
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	algs, err := buildAlgorithms(path, nil)
	if err != nil {
		if !config.IsConfigurationError(err) {
			_ = formatter.Error(ErrCodeInput, err.Error(), nil)
			return WrapExitError(ExitCommandError, "cannot read configuration", err)
		}
		return formatter.Fail(ExitFailure, "invalid configuration", err)
	}

	result := ValidationResult{
		Valid:     true,
		Selectors: make([]SelectorSummary, len(algs)),
		verbose:   opts.Verbose,
	}
	for i, alg := range algs {
		cfg := alg.Config()
		formatter.VerboseLog("Validated selector: %s", cfg.Name)
		result.Selectors[i] = SelectorSummary{
			Name:           cfg.Name,
			Family:         string(cfg.Family),
			InputContainer: cfg.InputContainer,
			FanOut:         cfg.FanOut(),
			ConfigHash:     alg.ConfigHash(),
			Steps:          alg.Steps(),
		}
	}

	return formatter.Success(result)
}

// buildAlgorithms loads a configuration file and builds one algorithm per
// selector in file order.
func buildAlgorithms(path string, opts []engine.AlgorithmOption) ([]*engine.Algorithm, error) {
	selectors, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	algs := make([]*engine.Algorithm, 0, len(selectors))
	for _, cfg := range selectors {
		alg, err := engine.NewAlgorithm(cfg, opts...)
		if err != nil {
			return nil, err
		}
		algs = append(algs, alg)
	}
	return algs, nil
}
