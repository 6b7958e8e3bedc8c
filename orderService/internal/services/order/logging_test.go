package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zapcore.InfoLevel)
	zapLogger.Replace(zap.New(core))
	t.Cleanup(zapLogger.SetNopLogger)

	return logs
}

func TestTransitionLogsCarryOrderScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	f.deposit(t, userID, "10000")
	logs := observeLogs(t)

	request := instantRequest(userID, 10, "100", models.ProductDelivery)
	request.Actor = "desk-3"
	created, err := f.service.CreateInstantOrder(ctx, request)
	require.NoError(t, err)
	orderID := created.View.Order.ID.String()

	_, err = f.service.ExecuteOrder(ctx, created.View.Order.ID, models.ExecuteRequest{ExecutionPrice: dec("100")})
	require.NoError(t, err)

	placed := logs.FilterMessage("order placed").AllUntimed()
	require.Len(t, placed, 1)
	assert.Equal(t, userID.String(), placed[0].ContextMap()["user_id"])
	assert.Equal(t, orderID, placed[0].ContextMap()["order_id"])
	assert.Equal(t, "desk-3", placed[0].ContextMap()["actor"])

	executed := logs.FilterMessage("order executed").AllUntimed()
	require.Len(t, executed, 1)
	assert.Equal(t, userID.String(), executed[0].ContextMap()["user_id"])
	assert.Equal(t, orderID, executed[0].ContextMap()["order_id"])
	assert.Equal(t, models.DefaultActor, executed[0].ContextMap()["actor"])
}

func TestChargeFailureLogCarriesOrderScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	f.deposit(t, userID, "10000")

	created, err := f.service.CreateInstantOrder(ctx, instantRequest(userID, 10, "10", models.ProductOptions))
	require.NoError(t, err)
	logs := observeLogs(t)

	_, err = f.service.ExecuteOrder(ctx, created.View.Order.ID, models.ExecuteRequest{ExecutionPrice: dec("10"), Actor: "ops"})
	require.NoError(t, err)

	warnings := logs.FilterMessage("charges not applied").AllUntimed()
	require.Len(t, warnings, 1)
	assert.Equal(t, created.View.Order.ID.String(), warnings[0].ContextMap()["order_id"])
	assert.Equal(t, "ops", warnings[0].ContextMap()["actor"])
}
