package dining

import (
	"context"
	"log"
	"sync"
)

// Task is a unit of sync work.
type Task func(ctx context.Context) error

// WorkerPool fans menu fetches out across a fixed number of workers.
type WorkerPool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
	closeMux    sync.Mutex
}

func NewWorkerPool(workerCount int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches worker goroutines.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	log.Printf("[MenuSyncPool] Started %d workers", wp.workerCount)
}

// Submit adds a task to the queue.
func (wp *WorkerPool) Submit(task Task) {
	select {
	case wp.taskQueue <- task:
	case <-wp.ctx.Done():
		log.Println("[MenuSyncPool] Pool is shutting down, task rejected")
	}
}

// Wait blocks until all submitted tasks complete.
func (wp *WorkerPool) Wait() {
	wp.closeMux.Lock()
	if !wp.closed {
		close(wp.taskQueue)
		wp.closed = true
	}
	wp.closeMux.Unlock()

	wp.wg.Wait()
}

// Shutdown cancels outstanding work and waits for workers to exit.
func (wp *WorkerPool) Shutdown() {
	wp.cancel()
	wp.Wait()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case task, ok := <-wp.taskQueue:
			if !ok {
				return
			}
			if err := task(wp.ctx); err != nil {
				log.Printf("[MenuSyncWorker-%d] Task failed: %v", id, err)
			}
		case <-wp.ctx.Done():
			return
		}
	}
}
