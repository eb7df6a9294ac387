package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kompox/hotwings/config/hotwingsenv"
	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/internal/logging"
)

// logFormatEnvKey overrides the config file log format.
const logFormatEnvKey = "HOTWINGS_LOG_FORMAT"

// session is the per-invocation state prepared by PersistentPreRunE.
type session struct {
	env  *hotwingsenv.Env
	sink *logging.Sink
}

type sessionKey struct{}

// findFlag recursively searches parents for a flag.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}

func flagString(cmd *cobra.Command, name string) string {
	if f := findFlag(cmd, name); f != nil {
		return f.Value.String()
	}
	return ""
}

// setupSession resolves HOTWINGS_HOME, loads config.yml and installs the
// logger in the command context.
func setupSession(cmd *cobra.Command, _ []string) error {
	env, err := hotwingsenv.Resolve(flagString(cmd, "home"))
	if err != nil {
		return err
	}

	format := flagString(cmd, "log-format")
	if format == "" {
		format = os.Getenv(logFormatEnvKey)
	}
	if format == "" {
		format = env.Config.Logging.Format
	}
	level, err := logging.ParseLevel(env.Config.Logging.Level)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrConfig, err)
	}
	if f := findFlag(cmd, "verbose"); f != nil && f.Value.String() == "true" {
		level = slog.LevelDebug
	}

	sink, err := logging.OpenSink(env.Config.Logging.Output, env.LogsDir())
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrIO, err)
	}
	l, err := logging.NewWithWriter(format, level, sink.Writer())
	if err != nil {
		_ = sink.Close()
		return fmt.Errorf("%w: %w", model.ErrConfig, err)
	}
	l = l.With("runId", uuid.NewString())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, l)
	ctx = context.WithValue(ctx, sessionKey{}, &session{env: env, sink: sink})
	if sink.Path != "" {
		l.Debug(ctx, "command line", "args", os.Args)
		if err := logging.PruneLogFiles(env.LogsDir(), env.LogRetention(), time.Now()); err != nil {
			l.Warn(ctx, "pruning log files failed", "err", err)
		}
	}
	cmd.SetContext(ctx)
	return nil
}

// sessionFrom returns the session installed by setupSession.
func sessionFrom(cmd *cobra.Command) (*session, error) {
	if s, ok := cmd.Context().Value(sessionKey{}).(*session); ok && s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("%w: hotwings environment not initialized", model.ErrConfig)
}

// closeSession closes the log file opened for the invocation, if any.
func closeSession(ctx context.Context) {
	if ctx == nil {
		return
	}
	if s, ok := ctx.Value(sessionKey{}).(*session); ok && s != nil && s.sink != nil {
		_ = s.sink.Close()
	}
}
