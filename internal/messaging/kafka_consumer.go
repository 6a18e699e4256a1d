package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/yourusername/project-hub/pkg/logger"
)

// EventHandler обрабатывает сырое событие из Kafka
type EventHandler func(ctx context.Context, eventType string, payload []byte) error

// KafkaConsumer читает доменные события из Kafka и передает их обработчику
type KafkaConsumer struct {
	reader  *kafka.Reader
	logger  logger.Logger
	handler EventHandler
}

// envelope используется для извлечения типа события до полной десериализации
type envelope struct {
	Type string `json:"type"`
}

// NewKafkaConsumer создает нового потребителя для указанных топиков
func NewKafkaConsumer(brokers []string, topics []string, groupID string, handler EventHandler, log logger.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupTopics:    topics,
		GroupID:        groupID,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: time.Second,
	})

	return &KafkaConsumer{
		reader:  reader,
		logger:  log,
		handler: handler,
	}
}

// Close закрывает соединение потребителя
func (c *KafkaConsumer) Close() error {
	c.logger.Info("Closing Kafka consumer")
	return c.reader.Close()
}

// Run читает сообщения до отмены контекста. Ошибка обработчика
// логируется, но не останавливает потребление.
func (c *KafkaConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read Kafka message: %w", err)
		}

		var env envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			c.logger.Warn("Skipping malformed event", map[string]interface{}{
				"topic":  msg.Topic,
				"offset": msg.Offset,
				"error":  err.Error(),
			})
			continue
		}

		if err := c.handler(ctx, env.Type, msg.Value); err != nil {
			c.logger.Error("Failed to handle event", err, map[string]interface{}{
				"event_type": env.Type,
				"topic":      msg.Topic,
				"offset":     msg.Offset,
			})
		}
	}
}
