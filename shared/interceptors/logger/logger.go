package logger

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

func LoggerInterceptor() grpc.UnaryServerInterceptor {
	return logging.UnaryServerInterceptor(
		InterceptorLogger(),
		logging.WithLogOnEvents(logging.FinishCall),
	)
}

// InterceptorLogger routes go-grpc-middleware log lines into the shared zap
// logger, keeping the request id carried by ctx.
func InterceptorLogger() logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, level logging.Level, message string, fields ...any) {
		zapFields := make([]zap.Field, 0, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			key := fmt.Sprint(fields[i])
			switch value := fields[i+1].(type) {
			case string:
				zapFields = append(zapFields, zap.String(key, value))
			case int:
				zapFields = append(zapFields, zap.Int(key, value))
			case bool:
				zapFields = append(zapFields, zap.Bool(key, value))
			default:
				zapFields = append(zapFields, zap.Any(key, value))
			}
		}

		switch level {
		case logging.LevelDebug:
			zapLogger.Debug(ctx, message, zapFields...)
		case logging.LevelInfo:
			zapLogger.Info(ctx, message, zapFields...)
		case logging.LevelWarn:
			zapLogger.Warn(ctx, message, zapFields...)
		default:
			zapLogger.Error(ctx, message, zapFields...)
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// HTTP logs one line per request once the handler has returned.
func HTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.status),
			zap.Duration("took", time.Since(started)),
		}

		switch {
		case recorder.status >= http.StatusInternalServerError:
			zapLogger.Error(r.Context(), "http request", fields...)
		case recorder.status >= http.StatusBadRequest:
			zapLogger.Warn(r.Context(), "http request", fields...)
		default:
			zapLogger.Info(r.Context(), "http request", fields...)
		}
	})
}
