package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// CPUWorkerPool manages a pool of workers for CPU-bound tasks.
// All workers share a single queue; results are routed back to the job that
// submitted them.
type CPUWorkerPool struct {
	name        string
	logger      *slog.Logger
	workerCount int

	queue   chan *WorkUnit
	results chan workerResult

	handlers map[string]TaskHandler
	mu       sync.RWMutex

	// result channels of running jobs, by job ID
	jobs  map[string]chan WorkResult
	jobMu sync.Mutex

	inFlight  atomic.Int32
	completed atomic.Int64
}

// CPUWorkerPoolConfig configures a new CPU worker pool.
type CPUWorkerPoolConfig struct {
	Name        string
	Logger      *slog.Logger
	WorkerCount int // Number of worker goroutines (default: runtime.NumCPU())
	QueueSize   int // Queue size (default: 10000)
}

// NewCPUWorkerPool creates a new CPU worker pool.
func NewCPUWorkerPool(cfg CPUWorkerPoolConfig) *CPUWorkerPool {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.Name
	if name == "" {
		name = "cpu"
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 10000
	}

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	return &CPUWorkerPool{
		name:        name,
		logger:      logger.With("pool", name, "type", PoolTypeCPU, "workers", workerCount),
		workerCount: workerCount,
		queue:       make(chan *WorkUnit, queueSize),
		results:     make(chan workerResult, workerCount),
		handlers:    make(map[string]TaskHandler),
		jobs:        make(map[string]chan WorkResult),
	}
}

// RegisterHandler registers a handler for a task type.
// Must be called before Start.
func (p *CPUWorkerPool) RegisterHandler(taskName string, handler TaskHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[taskName] = handler
	p.logger.Debug("registered task handler", "task", taskName)
}

// Name returns the pool name.
func (p *CPUWorkerPool) Name() string {
	return p.name
}

// Start begins the pool's processing. Blocks until ctx cancelled.
func (p *CPUWorkerPool) Start(ctx context.Context) {
	p.logger.Debug("pool starting")

	for i := 0; i < p.workerCount; i++ {
		go p.worker(ctx, i)
	}
	go p.route(ctx)

	<-ctx.Done()
	p.logger.Debug("pool stopping")
}

func (p *CPUWorkerPool) worker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return

		case unit := <-p.queue:
			p.inFlight.Add(1)
			result := p.process(ctx, unit)
			p.inFlight.Add(-1)
			p.completed.Add(1)
			p.logger.Debug("worker completed unit", "worker_id", id, "unit_id", unit.ID, "task", unit.Task, "success", result.Success)

			select {
			case p.results <- workerResult{JobID: unit.JobID, Result: result}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// route forwards results to the job that submitted the unit.
func (p *CPUWorkerPool) route(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-p.results:
			p.jobMu.Lock()
			ch, ok := p.jobs[r.JobID]
			p.jobMu.Unlock()
			if !ok {
				p.logger.Warn("result for unknown job", "job_id", r.JobID, "unit_id", r.Result.WorkUnitID)
				continue
			}
			ch <- r.Result
		}
	}
}

// Submit adds a work unit to the pool's queue without blocking.
func (p *CPUWorkerPool) Submit(unit *WorkUnit) error {
	select {
	case p.queue <- unit:
		return nil
	default:
		p.logger.Warn("pool queue full", "unit_id", unit.ID, "job_id", unit.JobID)
		return fmt.Errorf("%w: %s", ErrWorkerQueueFull, p.name)
	}
}

// Run submits one unit per payload for task and waits for all of them. The
// results are returned in payload order. The pool must be started. If ctx
// is cancelled, Run returns the context error; results of units that did
// not complete are left zero.
func (p *CPUWorkerPool) Run(ctx context.Context, task string, payloads []any) ([]WorkResult, error) {
	jobID := uuid.NewString()
	ch := make(chan WorkResult, len(payloads))

	p.jobMu.Lock()
	p.jobs[jobID] = ch
	p.jobMu.Unlock()
	defer func() {
		p.jobMu.Lock()
		delete(p.jobs, jobID)
		p.jobMu.Unlock()
	}()

	results := make([]WorkResult, len(payloads))
	for i, payload := range payloads {
		unit := &WorkUnit{ID: uuid.NewString(), JobID: jobID, Seq: i, Task: task, Payload: payload}
		select {
		case p.queue <- unit:
		case <-ctx.Done():
			return results, ctx.Err()
		}
	}

	for range payloads {
		select {
		case r := <-ch:
			results[r.Seq] = r
		case <-ctx.Done():
			return results, ctx.Err()
		}
	}
	return results, nil
}

// Status returns current pool status.
func (p *CPUWorkerPool) Status() PoolStatus {
	return PoolStatus{
		Name:       p.name,
		Type:       string(PoolTypeCPU),
		Workers:    p.workerCount,
		InFlight:   int(p.inFlight.Load()),
		QueueDepth: len(p.queue),
		Completed:  p.completed.Load(),
	}
}

func (p *CPUWorkerPool) process(ctx context.Context, unit *WorkUnit) (result WorkResult) {
	result = WorkResult{WorkUnitID: unit.ID, Seq: unit.Seq}

	p.mu.RLock()
	handler, ok := p.handlers[unit.Task]
	p.mu.RUnlock()
	if !ok {
		result.Error = fmt.Errorf("no handler registered for task: %s", unit.Task)
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Error = fmt.Errorf("task %s panicked: %v", unit.Task, r)
			p.logger.Error("work unit panicked", "unit_id", unit.ID, "task", unit.Task, "panic", r)
		}
	}()

	out, err := handler(ctx, unit)
	if err != nil {
		result.Error = err
		return result
	}
	result.Success = true
	result.Output = out
	return result
}
