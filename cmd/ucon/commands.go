package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rlowrance/python-unified-containers/internal/config"
	"github.com/rlowrance/python-unified-containers/internal/logging"
	"github.com/rlowrance/python-unified-containers/internal/metrics"
	"github.com/rlowrance/python-unified-containers/tensor"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "ucon",
		Short:         "Typed storage, strided views, dictionaries and tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "override log format (text, json)")

	root.AddCommand(newVersionCmd(), newDemoCmd(opts), newMetricsCmd(opts))
	return root
}

// setup loads the config, applies flag overrides and installs the logger.
func (o *options) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	tensor.SetLogger(logger)
	tensor.SetParallelism(cfg.Kernels.Workers, cfg.Kernels.MinChunk)
	logger.Debug("configured", "config", o.configPath,
		"workers", cfg.Kernels.Workers, "min_chunk", cfg.Kernels.MinChunk)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ucon %s\n", version)
		},
	}
}

func newDemoCmd(opts *options) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through storage, views, indexing, dictionaries and tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := &demo{out: cmd.OutOrStdout(), cfg: opts.cfg.Demo, dump: dump}
			return d.run()
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the layout of every view shown")
	return cmd
}

func newMetricsCmd(opts *options) *cobra.Command {
	var (
		exposition bool
		skipDemo   bool
	)
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Run the demo silently and print storage allocation counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !skipDemo {
				d := &demo{out: io.Discard, cfg: opts.cfg.Demo}
				if err := d.run(); err != nil {
					return err
				}
			}
			if exposition {
				return metrics.WriteText(cmd.OutOrStdout())
			}
			snap, err := metrics.Collect()
			if err != nil {
				return err
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
	cmd.Flags().BoolVar(&exposition, "prometheus", false, "print the Prometheus text exposition format")
	cmd.Flags().BoolVar(&skipDemo, "no-demo", false, "print the counters without running the demo first")
	return cmd
}
