package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nastyazhadan/order-settlement/orderService/internal/http/mocks"
	"github.com/nastyazhadan/order-settlement/shared/config"
	"github.com/nastyazhadan/order-settlement/shared/interceptors/xrequestid"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

func TestHandlerServesMetricsAndRequestID(t *testing.T) {
	zapLogger.SetNopLogger()

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "probe_total", Help: "probe"})
	registry.MustRegister(counter)
	counter.Inc()

	handler := NewHandler(mocks.NewMockService(t), registry, config.RateLimiterConfig{})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "probe_total 1")
	assert.NotEmpty(t, recorder.Header().Get(xrequestid.HeaderKey))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandlerAppliesGlobalLimit(t *testing.T) {
	zapLogger.SetNopLogger()

	handler := NewHandler(mocks.NewMockService(t), prometheus.NewRegistry(), config.RateLimiterConfig{GlobalRPS: 0.001, GlobalBurst: 1})

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
