package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/shared/config"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

type envelope struct {
	Type       models.EventType `json:"type"`
	OrderID    uuid.UUID        `json:"orderId"`
	UserID     uuid.UUID        `json:"userId"`
	OccurredAt time.Time        `json:"occurredAt"`
	RequestID  string           `json:"requestId,omitempty"`
	Payload    models.Event     `json:"payload"`
}

// Notifier publishes order events keyed by order id, so every event of one
// order lands on the same partition in transition order.
type Notifier struct {
	producer sarama.AsyncProducer
	topic    string

	done chan struct{}
	once sync.Once
}

func NewProducerConfig(cfg config.KafkaConfig) *sarama.Config {
	producerConfig := sarama.NewConfig()
	producerConfig.ClientID = cfg.ClientID
	producerConfig.Producer.RequiredAcks = sarama.WaitForLocal
	producerConfig.Producer.Partitioner = sarama.NewHashPartitioner
	producerConfig.Producer.Return.Successes = false
	producerConfig.Producer.Return.Errors = true

	return producerConfig
}

func NewAsyncProducer(cfg config.KafkaConfig) (sarama.AsyncProducer, error) {
	producer, err := sarama.NewAsyncProducer(cfg.Brokers, NewProducerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("sarama.NewAsyncProducer: %w", err)
	}

	return producer, nil
}

func NewNotifier(producer sarama.AsyncProducer, topic string) *Notifier {
	notifier := &Notifier{
		producer: producer,
		topic:    topic,
		done:     make(chan struct{}),
	}
	go notifier.drainErrors()

	return notifier
}

func (n *Notifier) Notify(ctx context.Context, event models.Event) error {
	const op = "kafka.Notifier.Notify"

	payload, err := json.Marshal(envelope{
		Type:       event.Type(),
		OrderID:    event.AggregateID(),
		UserID:     event.UserID(),
		OccurredAt: event.OccurredAt(),
		RequestID:  zapLogger.TraceIDFromContext(ctx),
		Payload:    event,
	})
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	message := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(event.AggregateID().String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type())},
		},
	}

	select {
	case n.producer.Input() <- message:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

func (n *Notifier) drainErrors() {
	defer close(n.done)

	for producerErr := range n.producer.Errors() {
		zapLogger.Warn(context.Background(), "failed to publish order event",
			zap.String("topic", producerErr.Msg.Topic),
			zap.Error(producerErr.Err),
		)
	}
}

// Close flushes buffered messages and waits for the error drain to finish.
func (n *Notifier) Close() error {
	n.once.Do(func() {
		n.producer.AsyncClose()
		<-n.done
	})

	return nil
}

// LogNotifier stands in for Kafka when it is disabled.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event models.Event) error {
	ctx = zapLogger.ContextWithOrderID(ctx, event.AggregateID().String())
	ctx = zapLogger.ContextWithUserID(ctx, event.UserID().String())
	zapLogger.Info(ctx, "order event", zap.String("event_type", string(event.Type())))

	return nil
}
