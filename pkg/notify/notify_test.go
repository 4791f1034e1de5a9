package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

// TestNotifierFactory проверяет создание notifier через фабрику
func TestNotifierFactory(t *testing.T) {
	kafkaCfg := Config{
		Type:    "kafka",
		Brokers: []string{"localhost:9092"},
		Topic:   "redbridge-loads",
	}
	if _, err := New(kafkaCfg); err != nil {
		t.Errorf("Failed to create Kafka notifier via factory: %v", err)
	}

	rabbitCfg := Config{
		Type:  "rabbitmq",
		Queue: "redbridge_loads",
	}
	if _, err := New(rabbitCfg); err != nil {
		t.Errorf("Failed to create RabbitMQ notifier via factory: %v", err)
	}

	if _, err := New(Config{Type: "msmq"}); err == nil {
		t.Error("Expected error for unsupported notifier type")
	}
}

// TestKafkaValidation проверяет валидацию параметров
func TestKafkaValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Type:    "kafka",
				Brokers: []string{"localhost:9092"},
				Topic:   "test",
			},
			wantErr: false,
		},
		{
			name: "missing topic",
			cfg: Config{
				Type:    "kafka",
				Brokers: []string{"localhost:9092"},
			},
			wantErr: true,
		},
		{
			name: "missing brokers",
			cfg: Config{
				Type:  "kafka",
				Topic: "test",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKafka(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewKafka() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestRabbitMQDefaults проверяет значения по умолчанию
func TestRabbitMQDefaults(t *testing.T) {
	r, err := NewRabbitMQ(Config{Type: "rabbitmq", Queue: "q"})
	if err != nil {
		t.Fatalf("NewRabbitMQ: %v", err)
	}
	if r.config.Host != "localhost" {
		t.Errorf("default host = %q", r.config.Host)
	}
	if r.config.Port != 5672 {
		t.Errorf("default port = %d", r.config.Port)
	}
	if r.config.VHost != "/" {
		t.Errorf("default vhost = %q", r.config.VHost)
	}

	tlsNotifier, err := NewRabbitMQ(Config{Type: "rabbitmq", Queue: "q", UseTLS: true})
	if err != nil {
		t.Fatalf("NewRabbitMQ: %v", err)
	}
	if tlsNotifier.config.Port != 5671 {
		t.Errorf("default amqps port = %d", tlsNotifier.config.Port)
	}

	if _, err := NewRabbitMQ(Config{Type: "rabbitmq"}); err == nil {
		t.Error("Expected error for missing queue name")
	}
}

// TestPublishRequiresConnect проверяет, что публикация без Connect
// возвращает ошибку, а не панику
func TestPublishRequiresConnect(t *testing.T) {
	event := Event{Table: "t", Schema: "public", Rows: 1, Status: "success", Timestamp: time.Now()}

	k, _ := NewKafka(Config{Type: "kafka", Brokers: []string{"localhost:9092"}, Topic: "t"})
	if err := k.Publish(context.Background(), event); err == nil {
		t.Error("Kafka Publish without Connect should fail")
	}

	r, _ := NewRabbitMQ(Config{Type: "rabbitmq", Queue: "q"})
	if err := r.Publish(context.Background(), event); err == nil {
		t.Error("RabbitMQ Publish without Connect should fail")
	}
}

// TestEventJSON проверяет формат публикуемого события
func TestEventJSON(t *testing.T) {
	at := time.Date(2021, 5, 6, 7, 8, 9, 0, time.UTC)
	payload, err := json.Marshal(Event{
		Table:     "events",
		Schema:    "public",
		Rows:      42,
		Status:    "success",
		Timestamp: at,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["table"] != "events" || decoded["schema"] != "public" {
		t.Errorf("unexpected payload: %s", payload)
	}
	if decoded["rows"] != float64(42) {
		t.Errorf("rows = %v", decoded["rows"])
	}
	if decoded["status"] != "success" {
		t.Errorf("status = %v", decoded["status"])
	}
}

// TestKafkaIntegration проверяет публикацию события в Kafka
// Требует запущенного Kafka сервера на localhost:9092
func TestKafkaIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Kafka integration test in short mode")
	}

	cfg := Config{
		Type:    "kafka",
		Brokers: []string{"localhost:9092"},
		Topic:   "redbridge-test-topic",
	}

	notifier, err := NewKafka(cfg)
	if err != nil {
		t.Fatalf("Failed to create Kafka notifier: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = notifier.Connect(ctx)
	if err != nil {
		t.Skipf("Skipping test: Kafka server not available: %v", err)
	}
	defer notifier.Close()

	err = notifier.Publish(ctx, Event{
		Table:     "events",
		Schema:    "public",
		Rows:      10,
		Status:    "success",
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		t.Errorf("Publish failed: %v", err)
	}
}
