package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/pkg/circuitbreaker"
)

type Service interface {
	SendWelcome(ctx context.Context, email string, name string) error
}

// NewService returns an SMTP backed sender, or a no-op sender when no relay
// is configured.
func NewService(cfg config.EmailConfig) Service {
	if !cfg.Enabled() {
		return NoopService{}
	}
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password)
	return &SMTPService{
		from: cfg.From,
		send: dialer.DialAndSend,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "smtp",
			MaxFailures: 3,
			Timeout:     time.Minute,
		}),
	}
}

// SMTPService stops dialing the relay for a minute after three failed
// sends in a row.
type SMTPService struct {
	from    string
	send    func(m ...*gomail.Message) error
	breaker *circuitbreaker.CircuitBreaker
}

func (s *SMTPService) SendWelcome(ctx context.Context, email string, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := welcomeMessage(s.from, email, name)
	if err := s.breaker.Execute(func() error { return s.send(msg) }); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func welcomeMessage(from, to, name string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to the hospital portal")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour account has been created. You can now sign in with %s.\n", name, to))
	return m
}

type NoopService struct{}

func (NoopService) SendWelcome(context.Context, string, string) error { return nil }
