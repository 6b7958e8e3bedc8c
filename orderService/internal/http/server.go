package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpOrder "github.com/nastyazhadan/order-settlement/orderService/internal/http/order"
	"github.com/nastyazhadan/order-settlement/shared/config"
	logInterceptor "github.com/nastyazhadan/order-settlement/shared/interceptors/logger"
	"github.com/nastyazhadan/order-settlement/shared/interceptors/ratelimit"
	"github.com/nastyazhadan/order-settlement/shared/interceptors/recovery"
	"github.com/nastyazhadan/order-settlement/shared/interceptors/xrequestid"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = time.Minute
)

// NewHandler mounts the order routes and /metrics behind the shared middleware.
// The outermost middleware runs first.
func NewHandler(svc httpOrder.Service, gatherer prometheus.Gatherer, limits config.RateLimiterConfig) http.Handler {
	mux := http.NewServeMux()
	httpOrder.NewHandler(svc).Register(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return chain(mux,
		xrequestid.HTTP,
		logInterceptor.HTTP,
		recovery.HTTP,
		ratelimit.Global(limits.GlobalRPS, limits.GlobalBurst),
	)
}

func NewServer(address string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}

func chain(handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	return handler
}
