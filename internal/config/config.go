// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the YAML configuration of the tensorcolumn command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nlpodyssey/tensorcolumn"
	"github.com/nlpodyssey/tensorcolumn/arrowext"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the whole configuration of the command.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	IPC     IPCConfig     `yaml:"ipc"`
	Parquet ParquetConfig `yaml:"parquet"`
	Display DisplayConfig `yaml:"display"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"` // json or console
}

// IPCConfig configures the writing of Arrow IPC files.
type IPCConfig struct {
	Compression string `yaml:"compression"`
	BatchSize   int    `yaml:"batch_size"`
}

// ParquetConfig configures the writing of Parquet files.
type ParquetConfig struct {
	Compression  string `yaml:"compression"`
	RowGroupSize int    `yaml:"row_group_size"`
}

// DisplayConfig configures how columns are printed.
type DisplayConfig struct {
	NARep   string `yaml:"na_rep"`
	MaxRows int    `yaml:"max_rows"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		IPC: IPCConfig{
			Compression: "none",
			BatchSize:   arrowext.DefaultBatchSize,
		},
		Parquet: ParquetConfig{
			Compression: "snappy",
		},
		Display: DisplayConfig{
			NARep:   tensorcolumn.DefaultNARep,
			MaxRows: 10,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// References to environment variables of the form ${NAME} are
// substituted before parsing.
func Load(filePath string) (Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse is like Load, reading the YAML document from data.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	content := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func Save(filePath string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err = os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks every section of the configuration, joining all the
// problems found.
func (c Config) Validate() error {
	var errs []error
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.encoding: unknown encoding %q", c.Log.Encoding))
	}
	switch c.IPC.Compression {
	case "", "none", "lz4", "zstd":
	default:
		errs = append(errs, fmt.Errorf("ipc.compression: unsupported codec %q", c.IPC.Compression))
	}
	if c.IPC.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("ipc.batch_size: must not be negative, got %d", c.IPC.BatchSize))
	}
	switch c.Parquet.Compression {
	case "", "none", "snappy", "gzip", "brotli", "zstd":
	default:
		errs = append(errs, fmt.Errorf("parquet.compression: unsupported codec %q", c.Parquet.Compression))
	}
	if c.Parquet.RowGroupSize < 0 {
		errs = append(errs, fmt.Errorf("parquet.row_group_size: must not be negative, got %d", c.Parquet.RowGroupSize))
	}
	if c.Display.MaxRows < 0 {
		errs = append(errs, fmt.Errorf("display.max_rows: must not be negative, got %d", c.Display.MaxRows))
	}
	return errors.Join(errs...)
}

// IPCOptions converts the IPC section to writer options.
func (c Config) IPCOptions() arrowext.IPCOptions {
	return arrowext.IPCOptions{
		Compression: c.IPC.Compression,
		BatchSize:   c.IPC.BatchSize,
	}
}

// ParquetOptions converts the Parquet section to writer options.
func (c Config) ParquetOptions() arrowext.ParquetOptions {
	return arrowext.ParquetOptions{
		Compression:  c.Parquet.Compression,
		RowGroupSize: c.Parquet.RowGroupSize,
	}
}

// FormatOptions converts the display section to formatting options.
func (c Config) FormatOptions() tensorcolumn.FormatOptions {
	return tensorcolumn.FormatOptions{NARep: c.Display.NARep}
}

// substituteEnvVars replaces ${NAME} with the value of the environment
// variable, or an empty string if it is not set.
func substituteEnvVars(content string) string {
	var sb strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start
		sb.WriteString(content[:start])
		sb.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	sb.WriteString(content)
	return sb.String()
}
