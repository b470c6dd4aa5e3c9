// Package jobs runs CPU-bound work on a fixed set of worker goroutines that
// share one queue. The batch runner uses it to extract the articles of an
// issue in parallel.
package jobs

import (
	"context"
	"errors"
)

// ErrWorkerQueueFull is returned by Submit when the pool's queue is full.
var ErrWorkerQueueFull = errors.New("worker queue full")

// PoolType indicates what kind of work a pool handles.
type PoolType string

const PoolTypeCPU PoolType = "cpu"

// WorkUnit is one task submitted to a pool.
type WorkUnit struct {
	ID    string
	JobID string
	Seq   int // position within the job; results are returned in this order
	Task  string

	Payload any
}

// WorkResult is the outcome of one work unit.
type WorkResult struct {
	WorkUnitID string
	Seq        int
	Success    bool
	Output     any
	Error      error
}

// TaskHandler processes a work unit.
// Implementations should be safe for concurrent use.
type TaskHandler func(ctx context.Context, unit *WorkUnit) (any, error)

// PoolStatus reports a pool's current state.
type PoolStatus struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Workers    int    `json:"workers"`
	InFlight   int    `json:"in_flight"`
	QueueDepth int    `json:"queue_depth"`
	Completed  int64  `json:"completed"`
}

// workerResult pairs a work result with its job ID for routing.
type workerResult struct {
	JobID  string
	Result WorkResult
}
