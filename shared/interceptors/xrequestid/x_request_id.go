package xrequestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

const HeaderKey = "x-request-id"

func Server(
	ctx context.Context,
	request any,
	_ *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	requestID := ""

	if meta, found := metadata.FromIncomingContext(ctx); found {
		if values := meta.Get(HeaderKey); len(values) > 0 {
			requestID = values[0]
		}
	}

	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx = zapLogger.ContextWithTraceID(ctx, requestID)

	return handler(ctx, request)
}

// HTTP is the net/http counterpart of Server; it echoes the id back to the caller.
func HTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderKey)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(HeaderKey, requestID)
		ctx := zapLogger.ContextWithTraceID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
