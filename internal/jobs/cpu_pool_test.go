package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func startPool(t *testing.T, cfg CPUWorkerPoolConfig, handlers map[string]TaskHandler) (*CPUWorkerPool, context.CancelFunc) {
	t.Helper()
	p := NewCPUWorkerPool(cfg)
	for name, h := range handlers {
		p.RegisterHandler(name, h)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go p.Start(ctx)
	t.Cleanup(cancel)
	return p, cancel
}

func TestCPUWorkerPool_RunPreservesOrder(t *testing.T) {
	p, _ := startPool(t, CPUWorkerPoolConfig{WorkerCount: 4}, map[string]TaskHandler{
		"square": func(ctx context.Context, unit *WorkUnit) (any, error) {
			n := unit.Payload.(int)
			// later units finish first
			time.Sleep(time.Duration(20-n) * time.Millisecond)
			return n * n, nil
		},
	})

	payloads := make([]any, 20)
	for i := range payloads {
		payloads[i] = i
	}
	results, err := p.Run(context.Background(), "square", payloads)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for i, r := range results {
		if !r.Success || r.Seq != i || r.Output.(int) != i*i {
			t.Errorf("result %d = %+v", i, r)
		}
	}
	if got := p.Status().Completed; got != 20 {
		t.Errorf("expected 20 completed units, got %d", got)
	}
}

func TestCPUWorkerPool_Failures(t *testing.T) {
	p, _ := startPool(t, CPUWorkerPoolConfig{WorkerCount: 2}, map[string]TaskHandler{
		"check": func(ctx context.Context, unit *WorkUnit) (any, error) {
			switch unit.Payload.(string) {
			case "fail":
				return nil, fmt.Errorf("bad input")
			case "panic":
				panic("boom")
			}
			return "ok", nil
		},
	})

	results, err := p.Run(context.Background(), "check", []any{"ok", "fail", "panic", "ok"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []bool{true, false, false, true}
	for i, r := range results {
		if r.Success != want[i] {
			t.Errorf("result %d success = %v, want %v (%v)", i, r.Success, want[i], r.Error)
		}
	}

	unknown, err := p.Run(context.Background(), "missing", []any{1})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if unknown[0].Success || unknown[0].Error == nil {
		t.Errorf("expected missing handler error, got %+v", unknown[0])
	}
}

func TestCPUWorkerPool_RunCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	p, _ := startPool(t, CPUWorkerPoolConfig{WorkerCount: 1}, map[string]TaskHandler{
		"block": func(ctx context.Context, unit *WorkUnit) (any, error) {
			<-release
			return nil, nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := p.Run(ctx, "block", []any{1, 2})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestCPUWorkerPool_SubmitQueueFull(t *testing.T) {
	// not started: nothing drains the queue
	p := NewCPUWorkerPool(CPUWorkerPoolConfig{Name: "articles", QueueSize: 1})

	if err := p.Submit(&WorkUnit{ID: "a"}); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	err := p.Submit(&WorkUnit{ID: "b"})
	if !errors.Is(err, ErrWorkerQueueFull) {
		t.Fatalf("expected ErrWorkerQueueFull, got %v", err)
	}

	status := p.Status()
	if status.Name != "articles" || status.QueueDepth != 1 || status.Type != "cpu" {
		t.Errorf("unexpected status %+v", status)
	}
}
