package notification

import (
	"context"
	"log"
	"sync"
	"time"
)

const enqueueTimeout = 5 * time.Second

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
}

// Pusher gets an in-app copy of every dispatched notification.
type Pusher interface {
	Push(email string, ev Event)
}

// Dispatcher is the fire-and-forget entry point used by the booking flow.
// Enqueueing happens off the request goroutine and errors are only logged.
type Dispatcher struct {
	queue  Queue
	pusher Pusher
	wg     sync.WaitGroup
}

func NewDispatcher(queue Queue, pusher Pusher) *Dispatcher {
	return &Dispatcher{queue: queue, pusher: pusher}
}

func (d *Dispatcher) NotifyBookingConfirmed(ctx context.Context, userEmail, bookingDetails string) {
	d.dispatch(ctx, NewBookingConfirmedJob(userEmail, bookingDetails))
}

func (d *Dispatcher) NotifyPaymentConfirmed(ctx context.Context, userEmail, paymentDetails string) {
	d.dispatch(ctx, NewPaymentConfirmedJob(userEmail, paymentDetails))
}

func (d *Dispatcher) dispatch(ctx context.Context, job Job) {
	if job.To == "" {
		log.Printf("notification_skipped type=%s reason=empty_recipient", job.Type)
		return
	}

	if d.pusher != nil {
		d.pusher.Push(job.To, Event{
			ID:        job.ID,
			Type:      job.Type,
			Title:     job.Subject,
			Message:   job.Body,
			CreatedAt: job.CreatedAt,
		})
	}

	// the request context is cancelled as soon as the response is written
	base := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		enqCtx, cancel := context.WithTimeout(base, enqueueTimeout)
		defer cancel()

		if err := d.queue.Enqueue(enqCtx, job); err != nil {
			log.Printf("notification_enqueue_failed id=%s type=%s to=%s error=%q", job.ID, job.Type, job.To, err.Error())
		}
	}()
}

// Wait blocks until every pending enqueue has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
