package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Kafka реализует Notifier для Apache Kafka
type Kafka struct {
	config Config
	writer *kafka.Writer
}

// NewKafka создает новый Kafka notifier
func NewKafka(cfg Config) (*Kafka, error) {
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic name is required for Kafka")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker address is required for Kafka")
	}

	return &Kafka{
		config: cfg,
	}, nil
}

// Connect устанавливает соединение с Kafka
func (k *Kafka) Connect(ctx context.Context) error {
	// Создаем Writer для отправки событий
	k.writer = &kafka.Writer{
		Addr:         kafka.TCP(k.config.Brokers...),
		Topic:        k.config.Topic,
		Balancer:     &kafka.LeastBytes{}, // Балансировка по наименьшей загруженности
		RequiredAcks: kafka.RequireAll,    // Ждем подтверждения от всех реплик
		Async:        false,               // Синхронная отправка для надежности
		Compression:  kafka.Snappy,        // Сжатие данных
		MaxAttempts:  3,                   // Повторные попытки
		WriteTimeout: 10 * time.Second,
	}

	// Проверяем подключение
	return k.Ping(ctx)
}

// Close закрывает соединение с Kafka
func (k *Kafka) Close() error {
	if k.writer == nil {
		return nil
	}
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}

// Publish отправляет событие загрузки в Kafka topic
func (k *Kafka) Publish(ctx context.Context, event Event) error {
	if k.writer == nil {
		return fmt.Errorf("not connected to Kafka")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%s.%s", event.Schema, event.Table)), // Ключ по таблице: события одной таблицы в одной партиции
		Value: payload,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}

	err = k.writer.WriteMessages(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	return nil
}

// Ping проверяет доступность Kafka
func (k *Kafka) Ping(ctx context.Context) error {
	// Создаем временный connection для проверки доступности
	conn, err := kafka.DialContext(ctx, "tcp", k.config.Brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial Kafka broker: %w", err)
	}
	defer conn.Close()

	// Проверяем, что можем получить метаданные
	_, err = conn.ReadPartitions(k.config.Topic)
	if err != nil {
		return fmt.Errorf("failed to read topic partitions: %w", err)
	}

	return nil
}
