/*
Copyright 2021 Gravitational, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

// Config configures the process-wide logger.
type Config struct {
	// Output is "stdout", "stderr" or a file path.
	Output string `toml:"output"`
	// Severity is one of "debug", "info", "warn" or "error".
	Severity string `toml:"severity"`
	// Format is either "text" or "json".
	Format string `toml:"format"`
}

// Fields is an alias so callers don't have to import logrus.
type Fields = log.Fields

type contextKey struct{}

// Init sets up the default text formatter. Must be called before Setup.
func Init() {
	log.SetFormatter(&trace.TextFormatter{
		DisableTimestamp: true,
		EnableColors:     trace.IsTerminal(os.Stderr),
		ComponentPadding: 1, // We don't use components so strip the padding
	})
	log.SetOutput(os.Stderr)
}

// Setup applies conf to the standard logger.
func Setup(conf Config) error {
	var output io.Writer
	switch conf.Output {
	case "stderr", "error", "2":
		output = os.Stderr
	case "", "stdout", "out", "1":
		output = os.Stdout
	default:
		// assume it's a file path:
		logFile, err := os.OpenFile(conf.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return trace.Wrap(err, "failed to create the log file")
		}
		output = logFile
	}

	var level log.Level
	switch strings.ToLower(conf.Severity) {
	case "", "info":
		level = log.InfoLevel
	case "err", "error":
		level = log.ErrorLevel
	case "debug":
		level = log.DebugLevel
	case "warn", "warning":
		level = log.WarnLevel
	default:
		return trace.BadParameter("unsupported logger severity: %q", conf.Severity)
	}

	switch strings.ToLower(conf.Format) {
	case "", "text":
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return trace.BadParameter("unsupported logger format: %q", conf.Format)
	}

	log.SetOutput(output)
	log.SetLevel(level)
	return nil
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger log.FieldLogger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// WithField adds a field to the context logger and returns both.
func WithField(ctx context.Context, key string, value interface{}) (context.Context, log.FieldLogger) {
	logger := Get(ctx).WithField(key, value)
	return WithLogger(ctx, logger), logger
}

// WithFields adds fields to the context logger and returns both.
func WithFields(ctx context.Context, fields Fields) (context.Context, log.FieldLogger) {
	logger := Get(ctx).WithFields(fields)
	return WithLogger(ctx, logger), logger
}

// Get returns the logger stored in ctx or the standard one.
func Get(ctx context.Context) log.FieldLogger {
	if logger, ok := ctx.Value(contextKey{}).(log.FieldLogger); ok && logger != nil {
		return logger
	}
	return Standard()
}

func Standard() log.FieldLogger {
	return log.StandardLogger()
}
