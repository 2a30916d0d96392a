package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/wneessen/go-mail"

	"staybook/internal/config"
)

type Email struct {
	From    string
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// ConsoleMailer only logs the email. Used in dev and by the seed.
type ConsoleMailer struct{}

func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{}
}

func (m *ConsoleMailer) Send(_ context.Context, e Email) error {
	log.Printf("[DEV-EMAIL] from=%s to=%s subject=%q body=%q", e.From, e.To, e.Subject, e.Body)
	return nil
}

// SMTPMailer sends through go-mail, which handles address parsing and
// header encoding.
type SMTPMailer struct {
	client *mail.Client
	send   func(ctx context.Context, msg *mail.Msg) error
}

func NewSMTPMailer(host string, port int, username, password string) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(15 * time.Second),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	m := &SMTPMailer{client: client}
	m.send = func(ctx context.Context, msg *mail.Msg) error {
		return m.client.DialAndSendWithContext(ctx, msg)
	}
	return m, nil
}

func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := buildMessage(e)
	if err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", e.To, err)
	}
	return nil
}

func buildMessage(e Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(e.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", e.From, err)
	}
	if err := msg.To(e.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", e.To, err)
	}
	msg.Subject(e.Subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, e.Body)
	return msg, nil
}

// NewMailer picks the transport named by cfg.Driver.
func NewMailer(cfg config.MailConfig) (Mailer, error) {
	switch cfg.Driver {
	case "", config.MailConsole:
		return NewConsoleMailer(), nil
	case config.MailSMTP:
		m, err := NewSMTPMailer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}
