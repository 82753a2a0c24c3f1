package work_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xraph/pace"
	"github.com/xraph/pace/work"
)

func TestNew_Defaults(t *testing.T) {
	item := work.New(func(_ context.Context) (any, error) { return nil, nil })

	if item.ID().IsNil() {
		t.Fatal("expected a non-nil item ID")
	}
	if !strings.HasPrefix(item.ID().String(), "item_") {
		t.Errorf("expected item_ prefix, got %q", item.ID())
	}
	if got := item.Result().Status; got != work.StatusPending {
		t.Errorf("expected pending result, got %v", got)
	}
}

func TestNew_MetadataIsCopied(t *testing.T) {
	md := map[string]any{"tenant": "acme"}
	item := work.New(func(_ context.Context) (any, error) { return nil, nil },
		work.WithMetadata(md),
	)

	md["tenant"] = "other"

	if got := item.Metadata()["tenant"]; got != "acme" {
		t.Errorf("expected metadata snapshot at creation, got %v", got)
	}
}

func TestExecute_Success(t *testing.T) {
	item := work.New(func(_ context.Context) (any, error) { return 42, nil })

	v, err := item.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Errorf("expected 42, got %v", v)
	}

	r := item.Result()
	if r.Status != work.StatusSucceeded || r.Value != 42 {
		t.Errorf("unexpected result: %+v", r)
	}
}

func TestExecute_Failure(t *testing.T) {
	boom := errors.New("boom")
	item := work.New(func(_ context.Context) (any, error) { return nil, boom })

	_, err := item.Execute(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	r := item.Result()
	if r.Status != work.StatusFailed || !errors.Is(r.Err, boom) {
		t.Errorf("unexpected result: %+v", r)
	}
}

func TestExecute_PanicIsCaptured(t *testing.T) {
	item := work.New(func(_ context.Context) (any, error) { panic("kaput") })

	_, err := item.Execute(context.Background())
	if err == nil || !strings.Contains(err.Error(), "kaput") {
		t.Fatalf("expected captured panic, got %v", err)
	}
	if got := item.Result().Status; got != work.StatusFailed {
		t.Errorf("expected failed result, got %v", got)
	}
}

func TestExecute_SecondCallRejected(t *testing.T) {
	var runs atomic.Int32
	item := work.New(func(_ context.Context) (any, error) {
		runs.Add(1)
		return "once", nil
	})

	if _, err := item.Execute(context.Background()); err != nil {
		t.Fatalf("first execute failed: %v", err)
	}

	_, err := item.Execute(context.Background())
	if !errors.Is(err, pace.ErrAlreadyExecuted) {
		t.Fatalf("expected ErrAlreadyExecuted, got %v", err)
	}
	if runs.Load() != 1 {
		t.Errorf("thunk ran %d times, expected 1", runs.Load())
	}

	// The stored result must be untouched by the rejected call.
	if r := item.Result(); r.Status != work.StatusSucceeded || r.Value != "once" {
		t.Errorf("result corrupted by second execute: %+v", r)
	}
}

func TestAwait_ManyObservers(t *testing.T) {
	release := make(chan struct{})
	item := work.New(func(_ context.Context) (any, error) {
		<-release
		return "done", nil
	})

	const observers = 8
	var wg sync.WaitGroup
	results := make([]any, observers)
	errs := make([]error, observers)

	for n := range observers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[n], errs[n] = item.Await(context.Background())
		}()
	}

	go item.Execute(context.Background()) //nolint:errcheck // outcome read via Await
	close(release)
	wg.Wait()

	for n := range observers {
		if errs[n] != nil {
			t.Fatalf("observer %d: unexpected error: %v", n, errs[n])
		}
		if results[n] != "done" {
			t.Errorf("observer %d: expected %q, got %v", n, "done", results[n])
		}
	}
}

func TestAwait_ContextCancelled(t *testing.T) {
	item := work.New(func(_ context.Context) (any, error) { return nil, nil })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := item.Await(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	// The item itself is still pending.
	if got := item.Result().Status; got != work.StatusPending {
		t.Errorf("expected pending, got %v", got)
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status work.Status
		want   string
	}{
		{work.StatusPending, "pending"},
		{work.StatusSucceeded, "succeeded"},
		{work.StatusFailed, "failed"},
		{work.Status(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}
