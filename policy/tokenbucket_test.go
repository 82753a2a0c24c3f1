package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/xraph/pace"
)

func TestNewTokenBucket_InvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		rate  float64
		burst int
	}{
		{"zero rate", 0, 1},
		{"negative rate", -5, 1},
		{"zero burst", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenBucket(tt.rate, tt.burst)
			if !errors.Is(err, pace.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestTokenBucket_BurstThenPaced(t *testing.T) {
	p, err := NewTokenBucket(50, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, n := range []string{"a", "b", "c"} {
		p.Intake(newTestItem(t, n))
	}

	// The burst admits immediately, in intake order.
	for _, want := range []string{"a", "b"} {
		if item := p.Next(); item == nil || item.Name() != want {
			t.Fatalf("expected %q from burst, got %v", want, item)
		}
	}

	// Bucket drained: declined with a positive wait.
	if item := p.Next(); item != nil {
		t.Fatalf("expected nil with bucket drained, got %q", item.Name())
	}
	wait, ok := p.RecommendedWait()
	if !ok || wait <= 0 {
		t.Fatalf("expected a positive wait with bucket drained, got %v ok=%v", wait, ok)
	}

	// After roughly one refill interval (1/50s) the head is admissible.
	time.Sleep(30 * time.Millisecond)
	if item := p.Next(); item == nil || item.Name() != "c" {
		t.Fatalf("expected %q after refill, got %v", "c", item)
	}
}

func TestTokenBucket_RecommendedWaitDoesNotConsume(t *testing.T) {
	p, err := NewTokenBucket(1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.Intake(newTestItem(t, "a"))

	// Probing the wait repeatedly must not burn the available token.
	for range 5 {
		p.RecommendedWait()
	}
	if item := p.Next(); item == nil || item.Name() != "a" {
		t.Fatalf("expected %q, got %v; RecommendedWait consumed a token", "a", item)
	}
}

func TestTokenBucket_EmptyQueue(t *testing.T) {
	p, err := NewTokenBucket(10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item := p.Next(); item != nil {
		t.Fatalf("expected nil from empty queue, got %q", item.Name())
	}
	if _, ok := p.RecommendedWait(); ok {
		t.Error("expected no wait recommendation for empty queue")
	}
}
