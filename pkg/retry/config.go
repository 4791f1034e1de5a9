package retry

import (
	"fmt"
	"time"
)

// BackoffStrategy определяет стратегию задержки между повторами
type BackoffStrategy string

const (
	// BackoffConstant - постоянная задержка
	BackoffConstant BackoffStrategy = "constant"
	// BackoffLinear - линейное увеличение задержки
	BackoffLinear BackoffStrategy = "linear"
	// BackoffExponential - экспоненциальное увеличение задержки
	BackoffExponential BackoffStrategy = "exponential"
)

// Config содержит конфигурацию retry для вызовов Data API.
// Повторы применяются только на границе исполнителя (отправка и опрос
// выражений); кодирование и сборка SQL не повторяются никогда.
type Config struct {
	// Enabled - включить retry механизм
	Enabled bool

	// MaxAttempts - максимальное количество попыток (включая первую)
	// 0 = бесконечные попытки (не рекомендуется)
	MaxAttempts int

	// InitialDelay - начальная задержка перед первым retry
	InitialDelay time.Duration

	// MaxDelay - максимальная задержка между попытками
	MaxDelay time.Duration

	// BackoffStrategy - стратегия увеличения задержки
	BackoffStrategy BackoffStrategy

	// BackoffMultiplier - множитель для exponential backoff (обычно 2.0)
	BackoffMultiplier float64

	// Jitter - добавлять случайность к задержке (0.0 - 1.0)
	Jitter float64

	// RetryableErrors - список подстрок ошибок, для которых нужен retry.
	// Пустой список = паттерны по умолчанию (throttling и 5xx Data API).
	RetryableErrors []string

	// OnRetry - callback функция, вызываемая перед каждым retry
	OnRetry func(op string, attempt int, err error, delay time.Duration)

	// Dump - конфигурация дампа выражений, исчерпавших попытки
	Dump DumpConfig
}

// DumpConfig настраивает файловый дамп невыполненных выражений.
type DumpConfig struct {
	// Enabled - включить дамп
	Enabled bool

	// Directory - каталог, в котором сохраняются файлы дампа
	Directory string
}

// defaultRetryablePatterns — транзиентные ошибки Redshift Data API.
var defaultRetryablePatterns = []string{
	"ThrottlingException",
	"TooManyRequestsException",
	"Rate exceeded",
	"InternalServerException",
	"StatusCode: 500",
	"StatusCode: 503",
	"connection reset",
	"i/o timeout",
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must be >= 0, got %d", c.MaxAttempts)
	}

	if c.InitialDelay < 0 {
		return fmt.Errorf("initial_delay must be >= 0")
	}

	if c.MaxDelay < c.InitialDelay {
		return fmt.Errorf("max_delay (%v) must be >= initial_delay (%v)", c.MaxDelay, c.InitialDelay)
	}

	if c.BackoffStrategy != BackoffConstant &&
		c.BackoffStrategy != BackoffLinear &&
		c.BackoffStrategy != BackoffExponential {
		return fmt.Errorf("invalid backoff strategy: %s", c.BackoffStrategy)
	}

	if c.BackoffMultiplier <= 0 {
		c.BackoffMultiplier = 2.0
	}

	if c.Jitter < 0 || c.Jitter > 1.0 {
		return fmt.Errorf("jitter must be between 0.0 and 1.0, got %f", c.Jitter)
	}

	if c.Dump.Enabled && c.Dump.Directory == "" {
		return fmt.Errorf("dump directory is required when dump is enabled")
	}

	return nil
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		Enabled:           false,
		MaxAttempts:       3,
		InitialDelay:      1 * time.Second,
		MaxDelay:          30 * time.Second,
		BackoffStrategy:   BackoffExponential,
		BackoffMultiplier: 2.0,
		Jitter:            0.1,
		RetryableErrors:   nil,
		OnRetry:           nil,
		Dump: DumpConfig{
			Enabled:   false,
			Directory: "./dump",
		},
	}
}

// EnableRetry создает конфигурацию с включенным retry
func EnableRetry(maxAttempts int, initialDelay time.Duration) Config {
	config := DefaultConfig()
	config.Enabled = true
	config.MaxAttempts = maxAttempts
	config.InitialDelay = initialDelay
	return config
}

// EnableRetryWithDump создает конфигурацию с retry и файловым дампом
func EnableRetryWithDump(maxAttempts int, initialDelay time.Duration, dumpDir string) Config {
	config := EnableRetry(maxAttempts, initialDelay)
	config.Dump.Enabled = true
	config.Dump.Directory = dumpDir
	return config
}
