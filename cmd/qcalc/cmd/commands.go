package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akhenakh/quantity/internal/logging"
	"github.com/akhenakh/quantity/internal/scenario"
)

func (a *app) scalarCmd(use, short, op string, n int) *cobra.Command {
	var unit string
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(n),
		RunE: a.finish(func(cmd *cobra.Command, args []string) error {
			return a.step(cmd, scenario.Step{Op: op, Args: args, Unit: unit})
		}),
	}
	c.Flags().StringVar(&unit, "unit", "", "print the result in this unit")
	return c
}

func (a *app) inrangeCmd() *cobra.Command {
	var ccw bool
	c := &cobra.Command{
		Use:   "inrange <start> <end> <test>",
		Short: "Report whether an angle lies in a sweep from start to end",
		Long: `Report whether test is reached when sweeping from start to end.

Sweeps are clockwise, toward increasing angles as compass bearings do,
unless --ccw is given. Both ends are included.`,
		Args: cobra.ExactArgs(3),
		RunE: a.finish(func(cmd *cobra.Command, args []string) error {
			return a.step(cmd, scenario.Step{Op: "inrange", Args: args, CCW: ccw})
		}),
	}
	c.Flags().BoolVar(&ccw, "ccw", false, "sweep counter-clockwise")
	return c
}

// kinematicFlags are shared by the frame conversion commands.
type kinematicFlags struct {
	from, to, at  string
	pos, vel, acc string
	unit          string
	scenario      string
}

func (k *kinematicFlags) bind(c *cobra.Command, withTo, withAcc bool) {
	c.Flags().StringVar(&k.from, "from", "", "frame the input is given in")
	if withTo {
		c.Flags().StringVar(&k.to, "to", "", "frame to express the result in")
		_ = c.MarkFlagRequired("to")
	}
	c.Flags().StringVar(&k.at, "time", "", "RFC 3339 instant, required by time-dependent frames")
	c.Flags().StringVar(&k.pos, "pos", "", `position "x,y,z <unit>"`)
	c.Flags().StringVar(&k.vel, "vel", "", `velocity "x,y,z <unit>"`)
	if withAcc {
		c.Flags().StringVar(&k.acc, "acc", "", `acceleration "x,y,z <unit>"`)
	}
	c.Flags().StringVar(&k.unit, "unit", "", "print results in this unit")
	c.Flags().StringVar(&k.scenario, "scenario", "", "YAML or TOML file declaring extra frames")
	_ = c.MarkFlagRequired("from")
	_ = c.MarkFlagRequired("pos")
}

func (k *kinematicFlags) step(op string) scenario.Step {
	return scenario.Step{
		Op:   op,
		From: k.from,
		To:   k.to,
		Time: k.at,
		Pos:  k.pos,
		Vel:  k.vel,
		Acc:  k.acc,
		Unit: k.unit,
	}
}

func (a *app) convertCmd() *cobra.Command {
	var k kinematicFlags
	c := &cobra.Command{
		Use:   "convert",
		Short: "Convert a position, velocity and acceleration between frames",
		Long: `Convert a position, and optionally its velocity and acceleration, from
one frame to another. ECR and ECI are always available; topocentric, fixed
and spherical frames can be declared in a scenario file.`,
		Args: cobra.NoArgs,
		RunE: a.finish(func(cmd *cobra.Command, _ []string) error {
			if err := a.loadFrames(k.scenario); err != nil {
				return err
			}
			return a.step(cmd, k.step("convert"))
		}),
	}
	k.bind(c, true, true)
	return c
}

func (a *app) lookCmd() *cobra.Command {
	var k kinematicFlags
	c := &cobra.Command{
		Use:   "look",
		Short: "Azimuth, elevation, range and range rate from a topocentric frame",
		Args:  cobra.NoArgs,
		RunE: a.finish(func(cmd *cobra.Command, _ []string) error {
			if err := a.loadFrames(k.scenario); err != nil {
				return err
			}
			return a.step(cmd, k.step("look"))
		}),
	}
	k.bind(c, true, false)
	return c
}

func (a *app) geodeticCmd() *cobra.Command {
	var k kinematicFlags
	c := &cobra.Command{
		Use:   "geodetic",
		Short: "WGS-84 latitude, longitude and altitude of a position",
		Args:  cobra.NoArgs,
		RunE: a.finish(func(cmd *cobra.Command, _ []string) error {
			if err := a.loadFrames(k.scenario); err != nil {
				return err
			}
			return a.step(cmd, k.step("geodetic"))
		}),
	}
	k.bind(c, false, false)
	return c
}

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml|scenario.toml>",
		Short: "Evaluate every step of a scenario file",
		Long: `Evaluate every step of a scenario file. Failing steps are reported and
evaluation continues; the exit status is non-zero if any step failed.`,
		Args: cobra.ExactArgs(1),
		RunE: a.finish(func(cmd *cobra.Command, args []string) error {
			f, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			rep, err := a.eval.Run(cmd.Context(), f)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range rep.Results {
				if r.Err != nil {
					fmt.Fprintf(w, "%s: error: %v\n", r.Step, r.Err)
					continue
				}
				fmt.Fprintf(w, "%s: %s\n", r.Step, strings.ReplaceAll(r.Output, "\n", "\n  "))
			}
			fmt.Fprintf(w, "%d steps, %d failed\n", len(rep.Results), rep.Failed)
			if !rep.OK() {
				logging.FromContext(cmd.Context()).Debug(cmd.Context(), "scenario had failures",
					logging.String("file", args[0]))
				return fmt.Errorf("%d of %d steps failed", rep.Failed, len(rep.Results))
			}
			return nil
		}),
	}
}
