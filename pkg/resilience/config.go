package resilience

import (
	"fmt"
	"time"
)

// Config содержит конфигурацию circuit breaker на границе Data API.
// Breaker видит только транспортные ошибки вызовов; статусы выражений
// (FAILED, ABORTED) интерпретируются выше и отказом границы не считаются.
type Config struct {
	// Enabled - включить circuit breaker
	Enabled bool

	// Name - имя границы для callback и журналирования
	Name string

	// MaxFailures - число последовательных отказов до открытия
	MaxFailures int

	// OpenTimeout - пауза в открытом состоянии до пробного вызова
	OpenTimeout time.Duration

	// SuccessThreshold - число успешных пробных вызовов для закрытия
	SuccessThreshold int

	// IgnoredErrors - подстроки ошибок, не считающихся отказом сервиса.
	// Пустой список = паттерны по умолчанию (ошибки запроса Data API).
	IgnoredErrors []string

	// OnStateChange - callback при смене состояния
	OnStateChange func(name string, from, to State)
}

// Counts - счётчики вызовов текущего поколения состояния
type Counts struct {
	Calls                int
	Successes            int
	Failures             int
	ConsecutiveSuccesses int
	ConsecutiveFailures  int
}

// defaultIgnoredPatterns - ошибки запроса, которые о здоровье Data API
// не говорят: неверные параметры и отсутствующие ресурсы.
var defaultIgnoredPatterns = []string{
	"ValidationException",
	"ResourceNotFoundException",
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.MaxFailures <= 0 {
		return fmt.Errorf("max_failures must be > 0, got %d", c.MaxFailures)
	}

	if c.OpenTimeout <= 0 {
		return fmt.Errorf("open_timeout must be > 0, got %v", c.OpenTimeout)
	}

	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = 1
	}

	if c.Name == "" {
		c.Name = "data-api"
	}

	return nil
}

// DefaultConfig возвращает конфигурацию по умолчанию: breaker выключен,
// пороги настроены под ритм отправки и опроса выражений.
func DefaultConfig() Config {
	return Config{
		Enabled:          false,
		Name:             "data-api",
		MaxFailures:      5,
		OpenTimeout:      30 * time.Second,
		SuccessThreshold: 2,
	}
}

// EnableBreaker создает конфигурацию с включенным breaker
func EnableBreaker(maxFailures int, openTimeout time.Duration) Config {
	config := DefaultConfig()
	config.Enabled = true
	config.MaxFailures = maxFailures
	config.OpenTimeout = openTimeout
	return config
}
