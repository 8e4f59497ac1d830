// Package cmd implements the qcalc command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/akhenakh/quantity"
	"github.com/akhenakh/quantity/internal/logging"
	"github.com/akhenakh/quantity/internal/observability"
	"github.com/akhenakh/quantity/internal/scenario"
)

// app holds the state shared by the subcommands of one invocation.
type app struct {
	logLevel  string
	logFormat string
	metrics   bool

	log       logging.Logger
	collector *observability.Collector
	eval      *scenario.Evaluator
}

// Execute runs qcalc with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the qcalc command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "qcalc",
		Short: "Evaluate physical quantities and frame conversions",
		Long: `qcalc evaluates dimensioned arithmetic, angle ranges and coordinate
frame conversions.

Scalars are written "<number> <unit>", vectors "x,y,z <unit>":
  qcalc mul "10 m" "2 Hz"
  qcalc sqrt "16 m^2"
  qcalc convert --from ECI --to ECR --time 2024-03-01T12:00:00Z --pos "7000,0,0 km"
  qcalc run pass.yaml`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	env := logging.ConfigFromEnv()
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", env.Level, "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", env.Format, "log format: text or json")
	root.PersistentFlags().BoolVar(&a.metrics, "metrics", false, "print Prometheus metrics to stderr on exit")

	root.AddCommand(
		a.scalarCmd("mul <a> <b>", "Multiply two scalars", "mul", 2),
		a.scalarCmd("div <a> <b>", "Divide two scalars", "div", 2),
		a.scalarCmd("sqrt <a>", "Square root of an area, squared time or frequency, or number", "sqrt", 1),
		a.scalarCmd("angdist <a> <b>", "Minimum angular distance between two angles", "angdist", 2),
		a.inrangeCmd(),
		a.convertCmd(),
		a.lookCmd(),
		a.geodeticCmd(),
		a.runCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.log = logging.New(logging.Config{
		Level:  a.logLevel,
		Format: a.logFormat,
		Output: cmd.ErrOrStderr(),
	})
	collector, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	a.collector = collector
	a.eval = scenario.NewEvaluator(quantity.NewRegistry(), a.log, collector)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.ContextWithLogger(ctx, a.log))
	return nil
}

// finish wraps a RunE so the metrics are printed whether or not it fails.
func (a *app) finish(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if a.metrics {
			if werr := a.collector.WriteText(cmd.ErrOrStderr()); werr != nil && err == nil {
				err = werr
			}
		}
		return err
	}
}

// step evaluates s and prints its result.
func (a *app) step(cmd *cobra.Command, s scenario.Step) error {
	out, err := a.eval.Eval(cmd.Context(), s)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// loadFrames registers the frames of the scenario at path, if any.
func (a *app) loadFrames(path string) error {
	if path == "" {
		return nil
	}
	f, err := scenario.Load(path)
	if err != nil {
		return err
	}
	return a.eval.AddFrames(f)
}
