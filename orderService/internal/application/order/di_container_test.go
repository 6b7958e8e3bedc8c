package order

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpServer "github.com/nastyazhadan/order-settlement/orderService/internal/http"
	"github.com/nastyazhadan/order-settlement/shared/config"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

func memoryConfig() config.OrderConfig {
	return config.OrderConfig{
		Storage:       config.StorageMemory,
		TxRetries:     1,
		NotifyTimeout: time.Second,
		StaticPrices:  "INFY=1500,TCS=3400",
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxRequests: 1,
			Timeout:     time.Second,
			MaxFailures: 3,
		},
	}
}

func TestContainerBuildsMemoryGraph(t *testing.T) {
	zapLogger.SetNopLogger()
	container := NewDIContainer(nil, memoryConfig())

	first, err := container.OrderService()
	require.NoError(t, err)
	second, err := container.OrderService()
	require.NoError(t, err)
	assert.Same(t, first, second)

	assert.Nil(t, container.RedisClient())
	assert.Nil(t, container.CreateRateLimiter())
	assert.Empty(t, container.Pingers())
	assert.NoError(t, container.Close())
}

func TestContainerRejectsPostgresWithoutPool(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage = config.StoragePostgres

	assert.Panics(t, func() { NewDIContainer(nil, cfg) })
}

func TestContainerServesOrderLifecycleOverHTTP(t *testing.T) {
	zapLogger.SetNopLogger()
	cfg := memoryConfig()
	container := NewDIContainer(nil, cfg)

	service, err := container.OrderService()
	require.NoError(t, err)
	handler := httpServer.NewHandler(service, container.Registry(), cfg.RateLimiter)

	userID := uuid.New()
	send := func(method, path, body string) *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(method, path, strings.NewReader(body)))
		return recorder
	}

	recorder := send(http.MethodPost, "/users/"+userID.String()+"/funds/deposit", `{"amount":"5000"}`)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	recorder = send(http.MethodPost, "/orders/instant",
		fmt.Sprintf(`{"userId":%q,"symbol":"infy","side":"BUY","quantity":2,"productType":"DELIVERY","orderType":"MARKET"}`, userID))
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), `"requiredMargin":"3000"`)

	recorder = send(http.MethodPost, "/orders/instant",
		fmt.Sprintf(`{"userId":%q,"symbol":"TCS","side":"BUY","quantity":1,"productType":"DELIVERY","orderType":"MARKET"}`, userID))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = send(http.MethodPost, "/orders/instant",
		fmt.Sprintf(`{"userId":%q,"symbol":"UNKNOWN","side":"BUY","quantity":1,"productType":"DELIVERY","orderType":"MARKET"}`, userID))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = send(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "order_settlement_transitions_total")
	assert.Contains(t, recorder.Body.String(), "order_settlement_insufficient_funds_total")
}
