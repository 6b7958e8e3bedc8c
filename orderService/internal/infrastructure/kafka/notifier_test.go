package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/shared/config"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

func testOrder() models.Order {
	price := decimal.RequireFromString("100")
	return models.Order{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Symbol:   "INFY",
		Exchange: models.ExchangeNSE,
		Side:     models.SideBuy,
		Quantity: 10,
		Price:    &price,
		Category: models.CategoryInstant,
		Status:   models.StatusCancelled,
	}
}

func TestNotifierPublishesKeyedEnvelope(t *testing.T) {
	zapLogger.SetNopLogger()
	producerConfig := NewProducerConfig(config.KafkaConfig{ClientID: "order-settlement-test"})
	producer := mocks.NewAsyncProducer(t, producerConfig)

	order := testOrder()
	at := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	event := models.NewOrderCancelledEvent(order, decimal.RequireFromString("1000"), at)

	producer.ExpectInputWithMessageCheckerFunctionAndSucceed(func(message *sarama.ProducerMessage) error {
		if message.Topic != "order-events" {
			return errors.New("unexpected topic " + message.Topic)
		}

		key, err := message.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != order.ID.String() {
			return errors.New("message is not keyed by order id")
		}

		value, err := message.Value.Encode()
		if err != nil {
			return err
		}
		var decoded map[string]any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}
		if decoded["type"] != string(models.EventOrderCancelled) {
			return errors.New("unexpected event type")
		}
		if decoded["requestId"] != "req-1" {
			return errors.New("request id not propagated")
		}
		return nil
	})

	notifier := NewNotifier(producer, "order-events")
	ctx := zapLogger.ContextWithTraceID(context.Background(), "req-1")
	require.NoError(t, notifier.Notify(ctx, event))
	require.NoError(t, notifier.Close())
}

func TestNotifierSurvivesBrokerErrors(t *testing.T) {
	zapLogger.SetNopLogger()
	producerConfig := NewProducerConfig(config.KafkaConfig{ClientID: "order-settlement-test"})
	producer := mocks.NewAsyncProducer(t, producerConfig)
	producer.ExpectInputAndFail(sarama.ErrNotLeaderForPartition)
	producer.ExpectInputAndSucceed()

	notifier := NewNotifier(producer, "order-events")
	event := models.NewOrderCancelledEvent(testOrder(), decimal.Zero, time.Now())

	assert.NoError(t, notifier.Notify(context.Background(), event))
	assert.NoError(t, notifier.Notify(context.Background(), event))
	require.NoError(t, notifier.Close())
	require.NoError(t, notifier.Close())
}
