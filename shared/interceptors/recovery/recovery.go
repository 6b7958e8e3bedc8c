package recovery

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

func PanicRecoveryInterceptor() grpc.UnaryServerInterceptor {
	return recovery.UnaryServerInterceptor(
		recovery.WithRecoveryHandlerContext(handlePanic),
	)
}

func handlePanic(ctx context.Context, recovered any) error {
	zapLogger.Error(ctx, "panic recovered in gRPC handler",
		zap.String("panic", fmt.Sprintf("%v", recovered)),
	)

	return status.Errorf(codes.Internal, "internal error")
}

func HTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				zapLogger.Error(r.Context(), "panic recovered in HTTP handler",
					zap.String("panic", fmt.Sprintf("%v", recovered)),
					zap.String("path", r.URL.Path),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal error"}`))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
