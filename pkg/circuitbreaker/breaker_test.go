package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var changes []State
	cfg := DefaultConfig("reports")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Hour
	cfg.OnStateChange = func(_ string, to State) { changes = append(changes, to) }

	cb, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	boom := errors.New("broker down")
	for i := 0; i < 2; i++ {
		if err := cb.Execute(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: got %v, want %v", i, err, boom)
		}
	}
	if cb.State() != StateOpen {
		t.Fatalf("state = %s, want open", cb.State())
	}
	if len(changes) != 1 || changes[0] != StateOpen {
		t.Errorf("state changes = %v", changes)
	}

	called := false
	err = cb.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpen) || called {
		t.Errorf("open circuit should reject without calling, got %v (called %v)", err, called)
	}
}

func TestCancelledCallsDoNotTrip(t *testing.T) {
	cfg := DefaultConfig("reports")
	cfg.FailureThreshold = 1
	cb, _ := New(cfg, nil)

	for i := 0; i < 3; i++ {
		cb.Execute(context.Background(), func(context.Context) error { return context.Canceled })
	}
	if cb.State() != StateClosed {
		t.Errorf("state = %s, want closed", cb.State())
	}
}

func TestStateValue(t *testing.T) {
	tests := map[State]float64{StateClosed: 0, StateOpen: 1, StateHalfOpen: 2}
	for s, want := range tests {
		if got := s.Value(); got != want {
			t.Errorf("%s.Value() = %v, want %v", s, got, want)
		}
	}
}
