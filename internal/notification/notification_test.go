package notification

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"staybook/internal/config"
	"staybook/internal/domain"
)

type fakeMailer struct {
	mu       sync.Mutex
	failures int
	sent     []Email
	calls    int
}

func (m *fakeMailer) Send(_ context.Context, e Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, e)
	return nil
}

func (m *fakeMailer) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Email(nil), m.sent...)
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []Job
	err  error
}

func (q *fakeQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type fakePusher struct {
	mu     sync.Mutex
	events map[string][]Event
}

func (p *fakePusher) Push(email string, ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = map[string][]Event{}
	}
	p.events[email] = append(p.events[email], ev)
}

func TestNewJobs_Templates(t *testing.T) {
	b := NewBookingConfirmedJob("a@b.c", "Listing: Loft")
	assert.Equal(t, domain.NotifBookingConfirmed, b.Type)
	assert.Equal(t, "Booking Confirmation", b.Subject)
	assert.Equal(t, "Hello, your booking has been confirmed!\n\nDetails:\nListing: Loft", b.Body)
	assert.NotEmpty(t, b.ID)

	p := NewPaymentConfirmedJob("a@b.c", "Amount: $600.00")
	assert.Equal(t, domain.NotifPaymentConfirmed, p.Type)
	assert.Equal(t, "Payment Confirmation", p.Subject)
	assert.Equal(t, "Hello, your payment has been confirmed!\n\nDetails:\nAmount: $600.00", p.Body)
	assert.NotEqual(t, b.ID, p.ID)
}

func TestDispatcher_EnqueuesAndPushes(t *testing.T) {
	q := &fakeQueue{}
	pusher := &fakePusher{}
	d := NewDispatcher(q, pusher)

	ctx, cancel := context.WithCancel(context.Background())
	d.NotifyBookingConfirmed(ctx, "guest@example.com", "booking details")
	d.NotifyPaymentConfirmed(ctx, "guest@example.com", "payment details")
	cancel()
	d.Wait()

	require.Len(t, q.jobs, 2)
	types := []domain.NotificationType{q.jobs[0].Type, q.jobs[1].Type}
	assert.ElementsMatch(t, []domain.NotificationType{domain.NotifBookingConfirmed, domain.NotifPaymentConfirmed}, types)
	assert.Len(t, pusher.events["guest@example.com"], 2)
}

func TestDispatcher_QueueFailureIsSwallowed(t *testing.T) {
	d := NewDispatcher(&fakeQueue{err: ErrQueueFull}, nil)

	assert.NotPanics(t, func() {
		d.NotifyBookingConfirmed(context.Background(), "guest@example.com", "x")
		d.Wait()
	})
}

func TestDispatcher_SkipsEmptyRecipient(t *testing.T) {
	q := &fakeQueue{}
	d := NewDispatcher(q, nil)

	d.NotifyPaymentConfirmed(context.Background(), "", "x")
	d.Wait()

	assert.Empty(t, q.jobs)
}

func TestDeliverer_RetriesThenSucceeds(t *testing.T) {
	m := &fakeMailer{failures: 2}
	d := NewDeliverer(m, "noreply@travelapp.com", 3, time.Millisecond)

	err := d.Deliver(context.Background(), NewBookingConfirmedJob("a@b.c", "x"))
	require.NoError(t, err)
	assert.Equal(t, 3, m.calls)
	require.Len(t, m.Sent(), 1)
	assert.Equal(t, "noreply@travelapp.com", m.Sent()[0].From)
	assert.Equal(t, "a@b.c", m.Sent()[0].To)
}

func TestDeliverer_GivesUp(t *testing.T) {
	m := &fakeMailer{failures: 10}
	d := NewDeliverer(m, "noreply@travelapp.com", 2, time.Millisecond)

	err := d.Deliver(context.Background(), NewBookingConfirmedJob("a@b.c", "x"))
	assert.Error(t, err)
	assert.Equal(t, 2, m.calls)
}

func TestMemoryQueue_DeliversBufferedJobsOnClose(t *testing.T) {
	m := &fakeMailer{failures: 1}
	q := NewMemoryQueue(NewDeliverer(m, "noreply@travelapp.com", 3, time.Millisecond), 2, 8)
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(context.Background(), NewBookingConfirmedJob("a@b.c", "1")))
	require.NoError(t, q.Enqueue(context.Background(), NewPaymentConfirmedJob("a@b.c", "2")))
	require.NoError(t, q.Close())

	assert.Len(t, m.Sent(), 2)
	assert.ErrorIs(t, q.Enqueue(context.Background(), NewBookingConfirmedJob("a@b.c", "3")), ErrQueueClosed)
}

func TestMemoryQueue_Full(t *testing.T) {
	q := NewMemoryQueue(NewDeliverer(&fakeMailer{}, "x", 1, time.Millisecond), 1, 1)

	require.NoError(t, q.Enqueue(context.Background(), NewBookingConfirmedJob("a@b.c", "1")))
	assert.ErrorIs(t, q.Enqueue(context.Background(), NewBookingConfirmedJob("a@b.c", "2")), ErrQueueFull)
}

func newCapturingMailer(t *testing.T) (*SMTPMailer, *string) {
	t.Helper()
	m, err := NewSMTPMailer("smtp.example.com", 2525, "user", "pass")
	require.NoError(t, err)

	var raw string
	m.send = func(_ context.Context, msg *mail.Msg) error {
		var buf bytes.Buffer
		if _, err := msg.WriteTo(&buf); err != nil {
			return err
		}
		raw = buf.String()
		return nil
	}
	return m, &raw
}

func TestSMTPMailer_BuildsMessage(t *testing.T) {
	m, raw := newCapturingMailer(t)

	err := m.Send(context.Background(), Email{
		From:    "noreply@travelapp.com",
		To:      "guest@example.com",
		Subject: "Booking Confirmation",
		Body:    "line1\nline2",
	})
	require.NoError(t, err)
	assert.Contains(t, *raw, "Subject: Booking Confirmation")
	assert.Contains(t, *raw, "<guest@example.com>")
	assert.Contains(t, *raw, "<noreply@travelapp.com>")
	assert.Contains(t, *raw, "line1")
	assert.Contains(t, *raw, "line2")
}

func TestSMTPMailer_EncodesNonASCIISubject(t *testing.T) {
	m, raw := newCapturingMailer(t)

	err := m.Send(context.Background(), Email{
		From:    "noreply@travelapp.com",
		To:      "guest@example.com",
		Subject: "Buchungsbestätigung",
		Body:    "ok",
	})
	require.NoError(t, err)
	assert.Contains(t, *raw, "=?UTF-8?")
	assert.NotContains(t, *raw, "Subject: Buchungsbestätigung")
}

func TestSMTPMailer_RejectsHeaderInjection(t *testing.T) {
	m, raw := newCapturingMailer(t)

	err := m.Send(context.Background(), Email{
		From:    "noreply@travelapp.com",
		To:      "guest@example.com\r\nBcc: attacker@example.com",
		Subject: "Booking Confirmation",
		Body:    "ok",
	})
	assert.Error(t, err)
	assert.Empty(t, *raw)
}

func TestSMTPMailer_WrapsError(t *testing.T) {
	m, err := NewSMTPMailer("smtp.example.com", 25, "", "")
	require.NoError(t, err)
	m.send = func(context.Context, *mail.Msg) error { return errors.New("refused") }

	err = m.Send(context.Background(), Email{From: "noreply@travelapp.com", To: "x@y.z"})
	assert.ErrorContains(t, err, "refused")
}

func TestNewSMTPMailer_RequiresHost(t *testing.T) {
	_, err := NewSMTPMailer("", 25, "", "")
	assert.Error(t, err)
}

func TestNewMailer_SelectsDriver(t *testing.T) {
	m, err := NewMailer(config.MailConfig{Driver: config.MailConsole})
	require.NoError(t, err)
	assert.IsType(t, &ConsoleMailer{}, m)

	m, err = NewMailer(config.MailConfig{Driver: config.MailSMTP, Host: "smtp.example.com", Port: 587})
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	_, err = NewMailer(config.MailConfig{Driver: "pigeon"})
	assert.Error(t, err)
}
