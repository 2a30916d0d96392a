package notification

import (
	"context"
	"errors"
	"log"
	"sync"
)

var (
	ErrQueueFull   = errors.New("notification queue is full")
	ErrQueueClosed = errors.New("notification queue is closed")
)

// MemoryQueue delivers jobs with a pool of in-process workers.
// Jobs still buffered when the process dies are lost; use KafkaQueue
// when that matters.
type MemoryQueue struct {
	jobs      chan Job
	deliverer *Deliverer
	workers   int

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewMemoryQueue(deliverer *Deliverer, workers, size int) *MemoryQueue {
	if workers <= 0 {
		workers = 1
	}
	if size <= 0 {
		size = 1
	}
	return &MemoryQueue{
		jobs:      make(chan Job, size),
		deliverer: deliverer,
		workers:   workers,
	}
}

func (q *MemoryQueue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work(ctx)
	}
}

func (q *MemoryQueue) work(ctx context.Context) {
	defer q.wg.Done()
	for job := range q.jobs {
		if err := q.deliverer.Deliver(ctx, job); err != nil {
			log.Printf("notification_dropped id=%s type=%s to=%s error=%q", job.ID, job.Type, job.To, err.Error())
		}
	}
}

func (q *MemoryQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting jobs and waits for the buffered ones to be delivered.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}
