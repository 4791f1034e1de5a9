package resilience

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrOpen - circuit открыт, вызовы Data API приостановлены
var ErrOpen = errors.New("circuit breaker is open")

// State - состояние circuit breaker
type State int

const (
	// StateClosed - нормальная работа, вызовы проходят
	StateClosed State = iota

	// StateHalfOpen - проверка восстановления пробными вызовами
	StateHalfOpen

	// StateOpen - вызовы отклоняются без обращения к сервису
	StateOpen
)

// String возвращает строковое представление состояния
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Breaker защищает границу Data API от каскадных сбоев: после серии
// транспортных отказов вызовы отклоняются сразу, без обращения к
// сервису, пока не истечёт пауза восстановления. Первый вызов после
// паузы проходит как пробный; его отказ открывает circuit заново.
type Breaker struct {
	cfg Config

	mu         sync.Mutex
	state      State
	generation uint64
	counts     Counts
	openUntil  time.Time
}

// New создает Breaker по конфигурации
func New(cfg Config) (*Breaker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid breaker config: %w", err)
	}
	return &Breaker{cfg: cfg}, nil
}

// Do выполняет вызов под защитой breaker. В открытом состоянии fn не
// вызывается и возвращается ErrOpen. Отмена контекста и ошибки
// вызывающей стороны (IgnoredErrors) отказом сервиса не считаются.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if !b.cfg.Enabled {
		return fn(ctx)
	}

	gen, err := b.admit()
	if err != nil {
		return err
	}

	err = fn(ctx)
	switch {
	case err == nil:
		b.record(gen, true)
	case b.callerFault(err):
		// Ошибка вызывающей стороны о здоровье сервиса не говорит.
	default:
		b.record(gen, false)
	}
	return err
}

// State возвращает текущее состояние с учётом истёкшей паузы
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance(time.Now())
	return b.state
}

// Counts возвращает счётчики текущего поколения состояния
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// IsOpen сообщает, отклоняются ли сейчас вызовы
func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// Reset возвращает breaker в закрытое состояние с нулевыми счётчиками
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateClosed {
		b.shift(StateClosed)
		return
	}
	b.generation++
	b.counts = Counts{}
}

// String - краткое представление для журнала
func (b *Breaker) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fmt.Sprintf("breaker %s: state=%s failures=%d/%d",
		b.cfg.Name, b.state, b.counts.ConsecutiveFailures, b.cfg.MaxFailures)
}

// admit решает, пропускать ли вызов, и фиксирует поколение состояния
func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance(time.Now())
	if b.state == StateOpen {
		return b.generation, ErrOpen
	}
	return b.generation, nil
}

// record учитывает результат вызова. Результаты, начатые в предыдущем
// поколении состояния, игнорируются.
func (b *Breaker) record(gen uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.generation {
		return
	}

	b.counts.Calls++
	if success {
		b.counts.Successes++
		b.counts.ConsecutiveSuccesses++
		b.counts.ConsecutiveFailures = 0
		if b.state == StateHalfOpen && b.counts.ConsecutiveSuccesses >= b.cfg.SuccessThreshold {
			b.shift(StateClosed)
		}
		return
	}

	b.counts.Failures++
	b.counts.ConsecutiveFailures++
	b.counts.ConsecutiveSuccesses = 0

	switch b.state {
	case StateClosed:
		if b.counts.ConsecutiveFailures >= b.cfg.MaxFailures {
			b.shift(StateOpen)
		}
	case StateHalfOpen:
		// Отказ пробного вызова открывает circuit заново
		b.shift(StateOpen)
	}
}

// advance переводит Open в HalfOpen по истечении паузы восстановления.
// Вызывается под mu.
func (b *Breaker) advance(now time.Time) {
	if b.state == StateOpen && now.After(b.openUntil) {
		b.shift(StateHalfOpen)
	}
}

// shift переводит breaker в новое состояние и сбрасывает счётчики.
// Вызывается под mu.
func (b *Breaker) shift(to State) {
	from := b.state
	if from == to {
		return
	}

	b.state = to
	b.generation++
	b.counts = Counts{}
	if to == StateOpen {
		b.openUntil = time.Now().Add(b.cfg.OpenTimeout)
	}

	if b.cfg.OnStateChange != nil {
		go b.cfg.OnStateChange(b.cfg.Name, from, to)
	}
}

// callerFault проверяет, относится ли ошибка к вызывающей стороне
func (b *Breaker) callerFault(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	patterns := b.cfg.IgnoredErrors
	if len(patterns) == 0 {
		patterns = defaultIgnoredPatterns
	}

	msg := err.Error()
	for _, pattern := range patterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
