package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/gearbook/gearbook-api/pkg/logger"
)

// Task is a named background job. The name shows up in logs and stats.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Worker manages background tasks and scheduled scans
type Worker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	queue    chan Task
	asyncSem chan struct{}
	stats    WorkerStats
	statsMu  sync.RWMutex
}

// WorkerStats holds statistics about the worker
type WorkerStats struct {
	ActiveJobs    int   `json:"active_jobs"`
	FinishedJobs  int64 `json:"finished_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	QueueLength   int   `json:"queue_length"`
	MaxConcurrent int   `json:"max_concurrent"`
}

// NewWorker creates a worker with numWorkers concurrent queue processors
func NewWorker(numWorkers int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	asyncLimit := numWorkers * 2
	if asyncLimit < 10 {
		asyncLimit = 10
	}

	w := &Worker{
		ctx:      ctx,
		cancel:   cancel,
		queue:    make(chan Task, 100),
		asyncSem: make(chan struct{}, asyncLimit),
	}
	w.stats.MaxConcurrent = asyncLimit

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process()
	}

	return w
}

// Enqueue adds a task to be processed by the worker pool. A full queue runs
// the task inline rather than dropping it.
func (w *Worker) Enqueue(task Task) {
	select {
	case w.queue <- task:
	default:
		logger.Warn("Worker queue full, running task synchronously", "task", task.Name)
		w.runTask(task)
	}
}

// EnqueueAsync runs a task in its own goroutine, bounded by the semaphore
func (w *Worker) EnqueueAsync(task Task) {
	go func() {
		w.asyncSem <- struct{}{}
		defer func() { <-w.asyncSem }()

		w.wg.Add(1)
		defer w.wg.Done()

		w.runTask(task)
	}()
}

func (w *Worker) process() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case task, ok := <-w.queue:
			if !ok {
				return
			}
			w.runTask(task)
		}
	}
}

// ScheduleEvery runs a task at fixed intervals, starting one interval from now
func (w *Worker) ScheduleEvery(interval time.Duration, task Task) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.runTask(task)
			}
		}
	}()
}

// ScheduleEveryImmediate runs a task once at startup, then at fixed
// intervals. Use this for scans that should not wait a full interval after a
// process restart.
func (w *Worker) ScheduleEveryImmediate(interval time.Duration, task Task) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.runTask(task)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.runTask(task)
			}
		}
	}()
}

// runTask executes one task with panic recovery and stats tracking.
// FinishedJobs counts every run; FailedJobs is the errored subset.
func (w *Worker) runTask(task Task) {
	w.trackStart()
	defer w.trackEnd()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Task panic", "task", task.Name, "panic", r)
			w.trackFailure()
		}
	}()

	start := time.Now()
	if err := task.Run(w.ctx); err != nil {
		logger.Error("Task failed", "task", task.Name, "error", err)
		w.trackFailure()
		return
	}
	logger.Debug("Task completed", "task", task.Name, "duration", time.Since(start))
}

// Shutdown gracefully stops all workers
func (w *Worker) Shutdown() {
	w.cancel()
	close(w.queue)
	w.wg.Wait()
}

// Context returns the worker's context for checking cancellation
func (w *Worker) Context() context.Context {
	return w.ctx
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.QueueLength = len(w.queue)
	return stats
}

func (w *Worker) trackStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

func (w *Worker) trackEnd() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.FinishedJobs++
}

func (w *Worker) trackFailure() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.FailedJobs++
}
