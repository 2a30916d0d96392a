package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"staybook/internal/domain"
)

const (
	subjectBookingConfirmed = "Booking Confirmation"
	subjectPaymentConfirmed = "Payment Confirmation"
)

// Job is one email waiting for delivery. It is what travels through the
// in-memory queue and the Kafka topic.
type Job struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	To        string                  `json:"to"`
	Subject   string                  `json:"subject"`
	Body      string                  `json:"body"`
	CreatedAt time.Time               `json:"created_at"`
}

func NewBookingConfirmedJob(to, bookingDetails string) Job {
	return newJob(domain.NotifBookingConfirmed, to, subjectBookingConfirmed,
		fmt.Sprintf("Hello, your booking has been confirmed!\n\nDetails:\n%s", bookingDetails))
}

func NewPaymentConfirmedJob(to, paymentDetails string) Job {
	return newJob(domain.NotifPaymentConfirmed, to, subjectPaymentConfirmed,
		fmt.Sprintf("Hello, your payment has been confirmed!\n\nDetails:\n%s", paymentDetails))
}

func newJob(t domain.NotificationType, to, subject, body string) Job {
	return Job{
		ID:        uuid.NewString(),
		Type:      t,
		To:        to,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}
