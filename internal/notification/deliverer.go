package notification

import (
	"context"
	"log"
	"time"
)

// Deliverer turns a Job into an email and retries failed sends.
type Deliverer struct {
	mailer      Mailer
	from        string
	maxAttempts int
	backoff     time.Duration
}

func NewDeliverer(mailer Mailer, from string, maxAttempts int, backoff time.Duration) *Deliverer {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Deliverer{mailer: mailer, from: from, maxAttempts: maxAttempts, backoff: backoff}
}

// Deliver returns the last send error once every attempt has failed.
func (d *Deliverer) Deliver(ctx context.Context, job Job) error {
	email := Email{From: d.from, To: job.To, Subject: job.Subject, Body: job.Body}

	var err error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if err = d.mailer.Send(ctx, email); err == nil {
			log.Printf("notification_sent id=%s type=%s to=%s attempt=%d", job.ID, job.Type, job.To, attempt)
			return nil
		}
		log.Printf("notification_send_failed id=%s type=%s to=%s attempt=%d/%d error=%q",
			job.ID, job.Type, job.To, attempt, d.maxAttempts, err.Error())

		if attempt == d.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.backoff * time.Duration(attempt)):
		}
	}
	return err
}
