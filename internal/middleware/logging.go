// Package middleware holds the Connect interceptors shared by all services.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/molodeztom/expense-splitting-app/internal/metrics"
)

// LoggingInterceptor logs each unary RPC with its request ID and duration and
// observes the duration in m, labelled by procedure and Connect code.
// Handler-returned Connect errors log at warn, anything else at error.
// m may be nil.
func LoggingInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			elapsed := time.Since(start)

			procedure := req.Spec().Procedure
			attrs := []any{
				"procedure", procedure,
				"request_id", chimw.GetReqID(ctx),
				"duration_ms", elapsed.Milliseconds(),
			}

			code := "ok"
			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.Info("RPC ok", attrs...)
			case errors.As(err, &connectErr):
				code = connectErr.Code().String()
				slog.Warn("RPC error", append(attrs, "code", code, "error", connectErr.Message())...)
			default:
				code = connect.CodeOf(err).String()
				slog.Error("RPC error", append(attrs, "error", err)...)
			}

			if m != nil {
				m.RPCDuration.WithLabelValues(procedure, code).Observe(elapsed.Seconds())
			}
			return resp, err
		}
	}
}
