// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"

	"github.com/nlpodyssey/tensorcolumn/arrowext"
	"github.com/nlpodyssey/tensorcolumn/internal/config"
	"github.com/nlpodyssey/tensorcolumn/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.1.0"

// app holds what every subcommand needs, set up before running it.
type app struct {
	configFile string
	logLevel   string

	cfg          config.Config
	logger       *zap.Logger
	registry     *prometheus.Registry
	codec        *arrowext.Codec
	registration *arrowext.Registration
}

// run executes the command line args, writing command output to out.
func run(args []string, out io.Writer) error {
	a := &app{}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	defer a.close()
	return root.Execute()
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tensorcolumn",
		Short: "Work with files holding tensor columns",
		Long: `tensorcolumn generates, inspects and converts Arrow IPC and Parquet files
whose columns hold one fixed-shape tensor per row.

The format of each file is chosen from its extension: .arrow, .ipc and
.feather for the Arrow IPC file format, .parquet and .pq for Parquet.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup() },
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to YAML configuration file (optional)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error), overriding the configuration")

	root.AddCommand(
		a.newGenerateCmd(),
		a.newInspectCmd(),
		a.newConvertCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg := config.Default()
	if a.configFile != "" {
		var err error
		if cfg, err = config.Load(a.configFile); err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	if err != nil {
		return err
	}
	a.logger = logger

	if a.registration, err = arrowext.Register(); err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	a.codec = arrowext.NewCodec(
		arrowext.WithLogger(logger),
		arrowext.WithMetrics(arrowext.NewMetrics(a.registry)),
	)
	logger.Debug("configuration loaded",
		zap.String("file", a.configFile),
		zap.String("level", cfg.Log.Level))
	return nil
}

// close logs the codec counters and releases what setup acquired.
func (a *app) close() {
	if a.logger == nil {
		return
	}
	a.logMetrics()
	if a.registration != nil {
		if err := a.registration.Release(); err != nil {
			a.logger.Warn("failed to unregister extension type", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func (a *app) logMetrics() {
	mfs, err := a.registry.Gather()
	if err != nil {
		a.logger.Warn("failed to gather metrics", zap.Error(err))
		return
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{
				zap.String("metric", mf.GetName()),
				zap.Float64("value", m.GetCounter().GetValue()),
			}
			for _, l := range m.GetLabel() {
				fields = append(fields, zap.String(l.GetName(), l.GetValue()))
			}
			a.logger.Debug("codec metric", fields...)
		}
	}
}
