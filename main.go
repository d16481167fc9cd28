package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chazu/reboot/pkg/config"
	"github.com/chazu/reboot/pkg/logging"
	"github.com/chazu/reboot/pkg/parse"
	"github.com/chazu/reboot/pkg/sequence"
	"github.com/chazu/reboot/pkg/tessellate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// cli holds the state shared by the commands of one invocation.
type cli struct {
	configPath  string
	logLevel    string
	metricsFile string
	format      string

	cfg config.Config
	log *logrus.Logger
	app *App
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("reboot failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "reboot",
		Short: "Toggle cuboid regions of a reactor and count the cells left on",
		Long: `reboot applies a sequence of on/off instructions over axis-aligned
cuboids and reports the exact number of cells left on, using a disjoint
cuboid representation instead of per-cell state.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.writeMetrics()
		},
	}
	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	rootCmd.PersistentFlags().StringVar(&c.format, "format", "", "instruction format: text, script or auto")

	rootCmd.AddCommand(c.runCmd(), c.initCmd(), c.checkCmd(), c.validateCmd(), c.meshCmd(), c.configCmd())
	return rootCmd
}

// setup loads the config, applies flag overrides and builds the App.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.metricsFile != "" {
		cfg.MetricsFile = c.metricsFile
	}
	if c.format != "" {
		cfg.Format = c.format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = logger
	c.app = NewApp(cfg, logger)
	return nil
}

func (c *cli) writeMetrics() error {
	if c.cfg.MetricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(c.cfg.MetricsFile, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

func (c *cli) load(path string) ([]sequence.Instruction, error) {
	return c.app.Load(path, c.cfg.Format)
}

func (c *cli) runCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Apply every instruction and print the number of cells on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return c.report(cmd.OutOrStdout(), args[0])
			}
			steps, err := c.load(args[0])
			if err != nil {
				return err
			}
			r := c.app.Run(steps)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), r.CountActive())
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print count, segments, errors and warnings as JSON")
	return cmd
}

// report prints the EvalResult for path. The result is written even when it
// holds errors; the command then fails.
func (c *cli) report(w io.Writer, path string) error {
	res, err := c.app.Report(path, c.cfg.Format)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(res); err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%s: %d errors", path, len(res.Errors))
	}
	return nil
}

func (c *cli) initCmd() *cobra.Command {
	var useGrid bool
	cmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Apply only instructions inside the initialization region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := c.load(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), c.app.Init(steps, useGrid))
			return err
		},
	}
	cmd.Flags().BoolVar(&useGrid, "grid", false, "count with the dense grid instead of the reactor")
	return cmd
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Cross-check the reactor against the dense grid over the initialization region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := c.load(args[0])
			if err != nil {
				return err
			}
			res, err := c.app.Check(cmd.Context(), steps)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d cells over %d steps\n", res.Reactor, res.Steps)
			return err
		},
	}
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Report malformed or suspicious instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := c.app.Read(args[0], c.cfg.Format)
			if err != nil {
				return err
			}
			res := c.app.Validate(steps)
			out := cmd.OutOrStdout()
			for _, f := range res.Errors {
				fmt.Fprintln(out, f.Error())
			}
			for _, f := range res.Warnings {
				fmt.Fprintln(out, f.Error())
			}
			if !res.OK() {
				return fmt.Errorf("%d invalid instructions", len(res.Errors))
			}
			return nil
		},
	}
}

func (c *cli) meshCmd() *cobra.Command {
	var (
		merge  bool
		window string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "mesh <file>",
		Short: "Write the on-region as JSON triangle meshes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := tessellate.Options{Merge: merge}
			if window != "" {
				w, err := parse.Cuboid(window)
				if err != nil {
					return fmt.Errorf("--window: %w", err)
				}
				opts.Window = &w
			}

			steps, err := c.load(args[0])
			if err != nil {
				return err
			}
			meshes, err := c.app.Mesh(steps, opts)
			if err != nil {
				return err
			}
			if out == "" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(meshes)
			}
			return writeJSON(out, meshes)
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false, "union all cuboids into one mesh")
	cmd.Flags().StringVar(&window, "window", "", "only mesh cells inside x=a..b,y=c..d,z=e..f")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

// writeJSON encodes v into a new file at path, reporting a failed close.
func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return json.NewEncoder(f).Encode(v)
}

func (c *cli) configCmd() *cobra.Command {
	var write string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if write != "" {
				if err := config.Write(write, c.cfg); err != nil {
					return err
				}
				c.log.WithField("file", write).Info("wrote config")
				return nil
			}
			return config.Encode(cmd.OutOrStdout(), c.cfg)
		},
	}
	cmd.Flags().StringVar(&write, "write", "", "write the configuration to this file instead of stdout")
	return cmd
}
