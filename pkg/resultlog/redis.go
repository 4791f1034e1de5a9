package resultlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config описывает подключение к Redis для публикации результатов
// загрузки.
type Config struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	TTL      int    `yaml:"ttl,omitempty"` // секунды жизни ключа состояния
}

// LoadResult представляет итог загрузки таблицы, публикуемый в Redis
// после завершения (успешного или с ошибкой).
//
// Redis-ключи:
//
//	SET  redbridge:load:<schema>.<table>:state  <JSON>  EX <ttl>  — для GET-запросов оркестратора
//	PUB  redbridge:load:<schema>.<table>                          — для event-driven маршрутизации
type LoadResult struct {
	Table      string    `json:"table"`
	Schema     string    `json:"schema"`
	Status     string    `json:"status"` // "success" | "failed"
	Rows       int       `json:"rows"`
	Statements int       `json:"statements"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMs int64     `json:"duration_ms"`
	Error      *string   `json:"error,omitempty"`
}

// RedisPublisher публикует результат загрузки в Redis
type RedisPublisher struct {
	client *redis.Client
	config Config
}

// NewRedisPublisher создает новый Redis publisher на основе конфигурации
func NewRedisPublisher(config Config) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})
	return &RedisPublisher{client: client, config: config}
}

// Publish публикует результат загрузки:
//   - SET redbridge:load:<schema>.<table>:state <JSON> EX <ttl>  → для опроса (polling)
//   - PUBLISH redbridge:load:<schema>.<table> <JSON>             → для подписки (pub/sub)
//
// Вызывается независимо от результата выполнения (success или failed).
// execErr == nil означает успешную загрузку.
func (p *RedisPublisher) Publish(ctx context.Context, result LoadResult, execErr error) error {
	result = finalize(result, execErr)

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	ttl := time.Duration(p.config.TTL) * time.Second

	// SET ключ с TTL — оркестратор может GET для получения последнего состояния
	if err := p.client.Set(ctx, stateKey(result.Schema, result.Table), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}

	// PUBLISH событие — оркестратор может SUBSCRIBE для event-driven маршрутизации
	if err := p.client.Publish(ctx, eventChannel(result.Schema, result.Table), payload).Err(); err != nil {
		return fmt.Errorf("redis PUBLISH failed: %w", err)
	}

	return nil
}

// finalize заполняет статус, текст ошибки и длительность перед
// публикацией
func finalize(result LoadResult, execErr error) LoadResult {
	if execErr != nil {
		result.Status = "failed"
		errStr := execErr.Error()
		result.Error = &errStr
	} else {
		result.Status = "success"
	}
	result.DurationMs = result.FinishedAt.Sub(result.StartedAt).Milliseconds()
	return result
}

// eventChannel возвращает имя pub/sub канала для таблицы
func eventChannel(schema, table string) string {
	return fmt.Sprintf("redbridge:load:%s.%s", schema, table)
}

// stateKey возвращает ключ последнего опубликованного состояния
func stateKey(schema, table string) string {
	return eventChannel(schema, table) + ":state"
}

// Close закрывает соединение с Redis
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
