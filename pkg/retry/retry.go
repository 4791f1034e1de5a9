package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// Operation - функция которую можно retry
type Operation func(ctx context.Context) error

// Retryer выполняет retry логику на границе Data API
type Retryer struct {
	config Config
	dump   *StatementDump
}

// NewRetryer создает новый Retryer
func NewRetryer(config Config) (*Retryer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry config: %w", err)
	}

	var dump *StatementDump
	if config.Dump.Enabled {
		var err error
		dump, err = NewStatementDump(config.Dump.Directory)
		if err != nil {
			return nil, fmt.Errorf("failed to create statement dump: %w", err)
		}
	}

	return &Retryer{
		config: config,
		dump:   dump,
	}, nil
}

// Do выполняет операцию с retry. op - имя операции для callback и дампа.
func (r *Retryer) Do(ctx context.Context, op string, fn Operation) error {
	return r.doInternal(ctx, op, "", fn)
}

// DoWithDump выполняет операцию с retry и при исчерпании попыток
// сохраняет SQL выражения в файловый дамп.
func (r *Retryer) DoWithDump(ctx context.Context, op, sql string, fn Operation) error {
	return r.doInternal(ctx, op, sql, fn)
}

func (r *Retryer) doInternal(ctx context.Context, op, sql string, fn Operation) error {
	if !r.config.Enabled {
		// Retry отключен, просто выполняем операцию
		return fn(ctx)
	}

	var lastErr error
	attempts := 0

	for {
		attempts++

		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		// Неретраябельные ошибки возвращаем сразу: падение запроса
		// на стороне кластера повтором не лечится
		if !r.isRetryableError(err) {
			return err
		}

		// Проверяем достигли ли максимального количества попыток
		if r.config.MaxAttempts > 0 && attempts >= r.config.MaxAttempts {
			if r.dump != nil && sql != "" {
				r.dump.Add(StatementRecord{
					Timestamp: time.Now(),
					Operation: op,
					SQL:       sql,
					Error:     err.Error(),
					Attempts:  attempts,
				})
			}
			return fmt.Errorf("max retry attempts (%d) exceeded for %s: %w", r.config.MaxAttempts, op, lastErr)
		}

		if ctx.Err() != nil {
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		}

		delay := r.calculateDelay(attempts)

		if r.config.OnRetry != nil {
			r.config.OnRetry(op, attempts, err, delay)
		}

		// Ждем перед следующей попыткой
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}
}

// calculateDelay вычисляет задержку для текущей попытки
func (r *Retryer) calculateDelay(attempt int) time.Duration {
	var delay time.Duration

	switch r.config.BackoffStrategy {
	case BackoffConstant:
		delay = r.config.InitialDelay

	case BackoffLinear:
		// Linear: delay = initial * attempt
		delay = r.config.InitialDelay * time.Duration(attempt)

	case BackoffExponential:
		// Exponential: delay = initial * multiplier^(attempt-1)
		multiplier := math.Pow(r.config.BackoffMultiplier, float64(attempt-1))
		delay = time.Duration(float64(r.config.InitialDelay) * multiplier)

	default:
		delay = r.config.InitialDelay
	}

	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}

	// Добавляем jitter (случайность)
	if r.config.Jitter > 0 {
		jitter := time.Duration(float64(delay) * r.config.Jitter * (rand.Float64()*2 - 1))
		delay += jitter
		if delay < 0 {
			delay = r.config.InitialDelay
		}
	}

	return delay
}

// isRetryableError проверяет нужен ли retry для ошибки
func (r *Retryer) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	patterns := r.config.RetryableErrors
	if len(patterns) == 0 {
		patterns = defaultRetryablePatterns
	}

	errStr := err.Error()
	for _, pattern := range patterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// GetDump возвращает файловый дамп если он включен
func (r *Retryer) GetDump() *StatementDump {
	return r.dump
}
