package main

import (
	"context"
	"time"

	"github.com/kompox/hotwings/internal/logging"
)

// withCmdRunLogger implements the Span pattern for CLI command logging.
// It emits a start log line and returns a context with the target attached
// to the logger, plus a cleanup function emitting the end log line.
//
// Usage:
//
//	ctx, cleanup := withCmdRunLogger(ctx, "job.submit", jobName)
//	defer func() { cleanup(err) }()
//
// Log message format:
//   - Start:   CMD:<operation>/S
//   - Success: CMD:<operation>/EOK (with elapsed)
//   - Failure: CMD:<operation>/EFAIL (with err, elapsed)
//
// All lines use INFO level.
func withCmdRunLogger(ctx context.Context, operation, target string) (context.Context, func(err error)) {
	startAt := time.Now()
	logger := logging.FromContext(ctx).With("target", target)
	ctx = logging.WithLogger(ctx, logger)
	logger.Info(ctx, "CMD:"+operation+"/S")

	cleanup := func(err error) {
		elapsed := time.Since(startAt).Seconds()
		if err == nil {
			logger.Info(ctx, "CMD:"+operation+"/EOK", "elapsed", elapsed)
			return
		}
		errStr := err.Error()
		if len(errStr) > 64 {
			errStr = errStr[:64] + "..."
		}
		logger.Info(ctx, "CMD:"+operation+"/EFAIL", "err", errStr, "elapsed", elapsed)
	}
	return ctx, cleanup
}
