package notify

import (
	"context"
	"fmt"
	"time"
)

// Event представляет событие завершения загрузки таблицы. Публикуется
// в JSON для downstream-потребителей (оркестраторы, мониторинг).
type Event struct {
	Table     string    `json:"table"`
	Schema    string    `json:"schema"`
	Rows      int       `json:"rows"`
	Status    string    `json:"status"` // "success" | "failed"
	Timestamp time.Time `json:"timestamp"`
}

// Notifier представляет универсальный интерфейс публикации событий
// загрузки. Поддерживает Apache Kafka и RabbitMQ.
type Notifier interface {
	// Connect устанавливает соединение с брокером
	Connect(ctx context.Context) error

	// Publish отправляет событие загрузки
	Publish(ctx context.Context, event Event) error

	// Ping проверяет доступность брокера
	Ping(ctx context.Context) error

	// Close закрывает соединение с брокером
	Close() error
}

// Config содержит параметры подключения к брокеру событий
type Config struct {
	Type string // kafka, rabbitmq

	// Kafka специфичные параметры
	Brokers []string // Список Kafka brokers (например: ["localhost:9092"])
	Topic   string   // Имя Kafka topic

	// RabbitMQ специфичные параметры
	Host     string // Хост
	Port     int    // Порт
	User     string // Пользователь
	Password string // Пароль
	Queue    string // Имя очереди
	VHost    string // Virtual host (по умолчанию "/")
	UseTLS   bool   // Использовать TLS/SSL (amqps://)

	// RabbitMQ параметры очереди (должны совпадать с существующей очередью!)
	Durable    bool // Очередь переживает перезапуск RabbitMQ
	AutoDelete bool // Очередь удаляется когда нет consumer'ов
}

// New создает новый Notifier на основе конфигурации
func New(cfg Config) (Notifier, error) {
	switch cfg.Type {
	case "kafka":
		return NewKafka(cfg)
	case "rabbitmq":
		return NewRabbitMQ(cfg)
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s (supported: kafka, rabbitmq)", cfg.Type)
	}
}
