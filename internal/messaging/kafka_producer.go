package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/yourusername/project-hub/pkg/logger"
)

// KafkaProducer публикует доменные события в Kafka
type KafkaProducer struct {
	writer *kafka.Writer
	topics map[string]string
	logger logger.Logger
}

// NewKafkaProducer создает новый экземпляр KafkaProducer.
// topics отображает тип события в имя топика; события без явного
// топика публикуются в топик своего типа.
func NewKafkaProducer(brokers []string, topics map[string]string, log logger.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  5,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaProducer{
		writer: writer,
		topics: topics,
		logger: log,
	}
}

// Close закрывает соединение с Kafka
func (p *KafkaProducer) Close() error {
	p.logger.Info("Closing Kafka producer")
	return p.writer.Close()
}

// topicFor возвращает топик для типа события
func (p *KafkaProducer) topicFor(eventType string) string {
	if topic, ok := p.topics[eventType]; ok {
		return topic
	}
	return eventType
}

// publishEvent сериализует событие и отправляет его в топик
func (p *KafkaProducer) publishEvent(ctx context.Context, eventType, key string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	msg := kafka.Message{
		Topic: p.topicFor(eventType),
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event", err, map[string]interface{}{
			"event_type": eventType,
			"key":        key,
		})
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	p.logger.Debug("Event published", map[string]interface{}{
		"event_type": eventType,
		"key":        key,
	})
	return nil
}

// PublishTaskEvent публикует событие задачи
func (p *KafkaProducer) PublishTaskEvent(ctx context.Context, eventType string, event *TaskEvent) error {
	event.Type = eventType
	return p.publishEvent(ctx, eventType, event.ID, event)
}

// PublishProjectEvent публикует событие проекта
func (p *KafkaProducer) PublishProjectEvent(ctx context.Context, eventType string, event *ProjectEvent) error {
	event.Type = eventType
	return p.publishEvent(ctx, eventType, event.ID, event)
}

// PublishTeamMemberEvent публикует событие изменения команды
func (p *KafkaProducer) PublishTeamMemberEvent(ctx context.Context, eventType string, event *TeamMemberEvent) error {
	event.Type = eventType
	return p.publishEvent(ctx, eventType, event.ProjectID, event)
}

// PublishSprintEvent публикует событие спринта
func (p *KafkaProducer) PublishSprintEvent(ctx context.Context, eventType string, event *SprintEvent) error {
	event.Type = eventType
	return p.publishEvent(ctx, eventType, event.ID, event)
}

// PublishCommentEvent публикует событие комментария
func (p *KafkaProducer) PublishCommentEvent(ctx context.Context, eventType string, event *CommentEvent) error {
	event.Type = eventType
	return p.publishEvent(ctx, eventType, event.TaskID, event)
}

// PublishNotificationEvent публикует событие уведомления
func (p *KafkaProducer) PublishNotificationEvent(ctx context.Context, eventType string, event *NotificationEvent) error {
	event.Type = eventType
	return p.publishEvent(ctx, eventType, event.EntityID, event)
}
