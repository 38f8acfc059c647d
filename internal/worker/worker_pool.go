package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type Task func()

// WorkerPool runs submitted tasks on a fixed set of goroutines. A panicking
// task is recovered and logged.
type WorkerPool struct {
	tasks         chan Task
	wg            sync.WaitGroup
	activeWorkers atomic.Int32
	maxWorkers    int
	submitTimeout time.Duration
	logger        zerolog.Logger
	// mu охраняет stopped и закрытие канала tasks
	mu      sync.RWMutex
	stopped bool
}

func NewWorkerPool(maxWorkers, queueSize int, submitTimeout time.Duration, logger zerolog.Logger) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = maxWorkers * 10
	}
	return &WorkerPool{
		tasks:         make(chan Task, queueSize),
		maxWorkers:    maxWorkers,
		submitTimeout: submitTimeout,
		logger:        logger,
	}
}

func (wp *WorkerPool) Start() {
	wp.logger.Info().Int("max_workers", wp.maxWorkers).Msg("Starting worker pool")

	for i := 0; i < wp.maxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop дожидается выполнения всех задач из очереди.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.tasks)
	wp.mu.Unlock()

	wp.wg.Wait()
	wp.logger.Info().Msg("Worker pool stopped")
}

// Submit enqueues a task. It reports false when the pool is stopped or the
// queue stayed full for the submit timeout.
func (wp *WorkerPool) Submit(task Task) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.stopped {
		return false
	}

	select {
	case wp.tasks <- task:
		return true
	default:
	}

	wp.logger.Warn().Msg("Worker pool task queue is full")

	timer := time.NewTimer(wp.submitTimeout)
	defer timer.Stop()

	select {
	case wp.tasks <- task:
		return true
	case <-timer.C:
		wp.logger.Error().Msg("Failed to submit task to worker pool (timeout)")
		return false
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.tasks {
		wp.run(id, task)
	}

	wp.logger.Debug().Int("worker_id", id).Msg("Worker stopped")
}

func (wp *WorkerPool) run(id int, task Task) {
	wp.activeWorkers.Add(1)

	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error().
				Int("worker_id", id).
				Interface("panic", r).
				Msg("Worker recovered from panic")
		}

		wp.activeWorkers.Add(-1)
	}()

	task()
}

func (wp *WorkerPool) GetActiveWorkers() int {
	return int(wp.activeWorkers.Load())
}

func (wp *WorkerPool) GetQueueLength() int {
	return len(wp.tasks)
}
