package interceptor

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// Logging writes one line per completed call: debug on success, warn on
// failure. Trace and span ids are added when the context carries a span.
type Logging struct {
	logger *slog.Logger
}

// NewLogging logs to logger, or to slog.Default when logger is nil.
func NewLogging(logger *slog.Logger) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logging{logger: logger}
}

func (l *Logging) Intercept(ctx context.Context, call *rpc.Call, req, resp any, next rpc.Invoker) error {
	start := time.Now()
	err := next(ctx, call, req, resp)

	args := []any{
		"procedure", call.Procedure,
		"code", rpc.Code(err).String(),
		"latency", time.Since(start),
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		args = append(args, "trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
	}
	if err != nil {
		l.logger.WarnContext(ctx, "zitadel call failed", append(args, "error", err)...)
		return err
	}
	l.logger.DebugContext(ctx, "zitadel call", args...)
	return nil
}
