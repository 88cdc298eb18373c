package resilience

import (
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(2, time.Second, 1)

	if err := b.Allow(); err != nil {
		t.Fatalf("Allow() on closed breaker: %v", err)
	}
	b.RecordFailure()
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("State() after one failure = %q, want closed", got)
	}

	b.RecordFailure()
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("State() after threshold = %q, want open", got)
	}
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("Allow() on open breaker = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	t.Parallel()

	current := time.Unix(1000, 0)
	b := NewCircuitBreaker(1, 10*time.Second, 1)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("Allow() while open = %v, want ErrCircuitOpen", err)
	}

	current = current.Add(11 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("Allow() after open timeout: %v", err)
	}
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("second half-open probe = %v, want ErrCircuitOpen", err)
	}

	b.RecordSuccess()
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("State() after probe success = %q, want closed", got)
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	current := time.Unix(1000, 0)
	b := NewCircuitBreaker(1, 10*time.Second, 1)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	current = current.Add(11 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("Allow() probe: %v", err)
	}

	b.RecordFailure()
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("Allow() after probe failure = %v, want ErrCircuitOpen", err)
	}
}
