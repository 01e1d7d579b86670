// Package cli implements the olivia command-line interface.
//
// This package provides commands for ingesting dependency graphs, computing
// network metrics, and running vulnerability/immunization analysis. The CLI
// is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - ingest: parse an adjacency file and build/persist a network model
//   - sccs: list strongly connected components
//   - metric: compute and rank a metric across the network
//   - vuln: compute failure_vulnerability
//   - immunize: compute immunization_delta for a target set
//   - iset: compute an immunization set heuristic
//   - cache: manage the persisted model cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Commands log
// through the *log.Logger held by the CLI value; withLogger and
// loggerFromContext can also carry a logger in a context.Context.
//
// # Example
//
//	import "github.com/olivia-graph/olivia/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration. Safe for sequential use by a single goroutine only.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as
// start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// engineHooks adapts the CLI logger into observability.EngineHooks, logging
// a debug line at sweep start/progress/completion.
type engineHooks struct {
	logger *log.Logger
}

// NewEngineHooks returns an observability.EngineHooks backed by logger, for
// registration via observability.SetEngineHooks in main.
func NewEngineHooks(logger *log.Logger) engineHooks {
	return engineHooks{logger: logger}
}

func (h engineHooks) OnSweepStart(ctx context.Context, kind string, total int) {
	h.logger.Debugf("sweep %s: %d SCCs", kind, total)
}

func (h engineHooks) OnSweepProgress(ctx context.Context, kind string, done, total int) {
	h.logger.Debugf("sweep %s: %d/%d", kind, done, total)
}

func (h engineHooks) OnSweepComplete(ctx context.Context, kind string, err error) {
	if err != nil {
		h.logger.Debugf("sweep %s failed: %v", kind, err)
		return
	}
	h.logger.Debugf("sweep %s complete", kind)
}
