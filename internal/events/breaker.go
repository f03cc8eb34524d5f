package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Tomas5220/f1-api/internal/metrics"
)

// ErrCircuitOpen is returned while publishing is suspended
var ErrCircuitOpen = errors.New("event publisher circuit open")

// CircuitState is the state of a BreakerPublisher
type CircuitState int

const (
	// CircuitClosed means events flow to the broker
	CircuitClosed CircuitState = iota
	// CircuitHalfOpen lets one event through to probe the broker
	CircuitHalfOpen
	// CircuitOpen means events are dropped until the cooldown passes
	CircuitOpen
)

// String returns string representation of circuit state
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "CLOSED"
	case CircuitHalfOpen:
		return "HALF_OPEN"
	case CircuitOpen:
		return "OPEN"
	default:
		return "UNKNOWN"
	}
}

// BreakerConfig defines when the breaker trips and how long it stays open
type BreakerConfig struct {
	MaxFailureCount   int
	FailureTimeWindow time.Duration
	CooldownPeriod    time.Duration
}

// DefaultBreakerConfig trips after five failures within a minute and
// retries after thirty seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailureCount:   5,
		FailureTimeWindow: time.Minute,
		CooldownPeriod:    30 * time.Second,
	}
}

// BreakerPublisher stops calling an unreachable broker so settlement does
// not wait on a publish timeout for every wager.
type BreakerPublisher struct {
	next   Publisher
	config BreakerConfig
	logger *logrus.Logger
	now    func() time.Time

	mu              sync.Mutex
	state           CircuitState
	failureCount    int
	lastFailureTime time.Time
	openedAt        time.Time
}

// NewBreakerPublisher wraps next with a circuit breaker
func NewBreakerPublisher(next Publisher, config BreakerConfig, logger *logrus.Logger) *BreakerPublisher {
	return &BreakerPublisher{
		next:   next,
		config: config,
		logger: logger,
		now:    time.Now,
		state:  CircuitClosed,
	}
}

// PublishWagerSettled forwards e unless the circuit is open
func (b *BreakerPublisher) PublishWagerSettled(ctx context.Context, e WagerSettled) error {
	if !b.allow() {
		metrics.RecordEventSkipped()
		return ErrCircuitOpen
	}

	err := b.next.PublishWagerSettled(ctx, e)
	if err != nil {
		b.recordFailure(err)
		return err
	}
	b.recordSuccess()
	return nil
}

// Close closes the wrapped publisher
func (b *BreakerPublisher) Close() error {
	return b.next.Close()
}

// State returns the current circuit state
func (b *BreakerPublisher) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *BreakerPublisher) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitOpen:
		if b.now().Sub(b.openedAt) < b.config.CooldownPeriod {
			return false
		}
		b.state = CircuitHalfOpen
		b.logger.Info("Event publisher breaker entering half-open state after cooldown")
		return true
	case CircuitHalfOpen:
		// one probe at a time
		return false
	default:
		return true
	}
}

func (b *BreakerPublisher) recordFailure(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if b.state == CircuitHalfOpen {
		b.openLocked(now, err)
		return
	}

	if now.Sub(b.lastFailureTime) > b.config.FailureTimeWindow {
		b.failureCount = 0
	}
	b.failureCount++
	b.lastFailureTime = now

	if b.failureCount >= b.config.MaxFailureCount {
		b.openLocked(now, err)
	}
}

func (b *BreakerPublisher) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != CircuitClosed {
		b.logger.WithField("old_state", b.state.String()).Info("Event publisher breaker closed")
	}
	b.state = CircuitClosed
	b.failureCount = 0
}

func (b *BreakerPublisher) openLocked(now time.Time, err error) {
	old := b.state
	b.state = CircuitOpen
	b.openedAt = now

	b.logger.WithFields(logrus.Fields{
		"old_state":       old.String(),
		"new_state":       b.state.String(),
		"failure_count":   b.failureCount,
		"cooldown_period": b.config.CooldownPeriod,
		"error":           err.Error(),
	}).Error("Event publisher breaker opened")
}
