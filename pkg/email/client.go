package email

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/salusapp/salus_backend/config"
)

// Client sends mail over SMTP. A disabled client accepts every Send
// call and returns ErrDisabled, so callers can treat delivery as
// optional without branching on configuration.
type Client struct {
	cfg Config
}

// NewFromCentral creates an email client from central config.
func NewFromCentral(cfg config.EmailConfig) (*Client, error) {
	return &Client{cfg: FromCentralConfig(cfg)}, nil
}

func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled {
		return ErrDisabled{}
	}

	msg, err := m.build(c.cfg.From)
	if err != nil {
		return err
	}

	d := gomail.NewDialer(c.cfg.SMTPHost, c.cfg.SMTPPort, c.cfg.SMTPUsername, c.cfg.SMTPPassword)
	if c.cfg.SMTPUseTLS {
		d.SSL = true
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	// gomail has no context support, so the dial-and-send runs in a
	// goroutine bounded by the config timeout or the ctx deadline,
	// whichever comes first.
	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	wait := c.cfg.SMTPTimeout()
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left > 0 && left < wait {
			wait = left
		}
	}

	select {
	case err := <-done:
		if err != nil {
			return ErrSend{Provider: "gomail/smtp", Err: err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}

func (m Message) build(from string) (*gomail.Message, error) {
	if strings.TrimSpace(from) == "" {
		return nil, ErrInvalidMessage{Reason: "from is required"}
	}
	to := make([]string, 0, len(m.To))
	for _, addr := range m.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		return nil, ErrInvalidMessage{Reason: "at least one recipient is required"}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return nil, ErrInvalidMessage{Reason: "subject is required"}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", strings.TrimSpace(from))
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", strings.TrimSpace(m.Subject))

	switch {
	case m.TextBody != "" && m.HTMLBody != "":
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case m.HTMLBody != "":
		msg.SetBody("text/html", m.HTMLBody)
	case m.TextBody != "":
		msg.SetBody("text/plain", m.TextBody)
	default:
		return nil, ErrInvalidMessage{Reason: "either TextBody or HTMLBody is required"}
	}

	return msg, nil
}
