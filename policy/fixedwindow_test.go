package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/xraph/pace"
)

func TestNewFixedWindow_InvalidConfig(t *testing.T) {
	tests := []struct {
		name        string
		maxRequests int
		window      time.Duration
	}{
		{"zero maxRequests", 0, time.Second},
		{"negative maxRequests", -1, time.Second},
		{"zero window", 2, 0},
		{"negative window", 2, -time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFixedWindow(tt.maxRequests, tt.window)
			if !errors.Is(err, pace.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestFixedWindow_QuotaWithinWindow(t *testing.T) {
	p, err := NewFixedWindow(2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cur := time.Unix(1700000000, 0)
	p.now = func() time.Time { return cur }

	for _, n := range []string{"a", "b", "c", "d", "e"} {
		p.Intake(newTestItem(t, n))
	}

	// Two admissions open the window and exhaust its quota.
	for _, want := range []string{"a", "b"} {
		if item := p.Next(); item == nil || item.Name() != want {
			t.Fatalf("expected %q, got %v", want, item)
		}
	}
	if item := p.Next(); item != nil {
		t.Fatalf("expected nil with quota exhausted, got %q", item.Name())
	}

	// The recommended wait is the time until the window resets.
	cur = cur.Add(250 * time.Millisecond)
	wait, ok := p.RecommendedWait()
	if !ok {
		t.Fatal("expected a wait recommendation with quota exhausted")
	}
	if wait != 750*time.Millisecond {
		t.Errorf("expected 750ms until reset, got %v", wait)
	}
}

func TestFixedWindow_QuotaResetsAtBoundary(t *testing.T) {
	p, err := NewFixedWindow(2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cur := time.Unix(1700000000, 0)
	p.now = func() time.Time { return cur }

	for _, n := range []string{"a", "b", "c", "d", "e"} {
		p.Intake(newTestItem(t, n))
	}

	// Exhaust the first window.
	p.Next()
	p.Next()

	// Quota resets fully at the boundary even though the previous window
	// was exhausted.
	cur = cur.Add(time.Second)
	for _, want := range []string{"c", "d"} {
		if item := p.Next(); item == nil || item.Name() != want {
			t.Fatalf("expected %q after window reset, got %v", want, item)
		}
	}
	if item := p.Next(); item != nil {
		t.Fatalf("expected nil with second window exhausted, got %q", item.Name())
	}

	cur = cur.Add(time.Second)
	if item := p.Next(); item == nil || item.Name() != "e" {
		t.Fatalf("expected %q in third window, got %v", "e", item)
	}
}

func TestFixedWindow_EmptyQueue(t *testing.T) {
	p, err := NewFixedWindow(2, time.Second)
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

func TestFixedWindow_CompletionDoesNotRefundQuota(t *testing.T) {
	p, err := NewFixedWindow(1, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cur := time.Unix(1700000000, 0)
	p.now = func() time.Time { return cur }

	p.Intake(newTestItem(t, "a"))
	p.Intake(newTestItem(t, "b"))

	if p.Next() == nil {
		t.Fatal("expected first admission")
	}

	// An admitted item consumes one unit of window quota regardless of
	// how long it runs; completing it does not refund the unit.
	p.OnComplete()
	if item := p.Next(); item != nil {
		t.Fatalf("completion must not refund quota, got %q", item.Name())
	}
}
