// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

var base zerolog.Logger

func init() {
	base = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Init configures the process-wide logger. Pretty output is for local
// development only; production stays on JSON.
func Init(service string, pretty bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var l zerolog.Logger
	if pretty {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly})
	} else {
		l = zerolog.New(os.Stdout)
	}
	base = l.With().Timestamp().Str("service", service).Logger()
}

// Logger returns the process-wide logger.
func Logger() *zerolog.Logger {
	return &base
}

// Ctx returns a logger bound to the trace and span ids carried by ctx, so log
// lines can be joined with the corresponding Jaeger trace.
func Ctx(ctx context.Context) *zerolog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return &base
	}
	l := base.With().
		Str("trace_id", sc.TraceID().String()).
		Str("span_id", sc.SpanID().String()).
		Logger()
	return &l
}
