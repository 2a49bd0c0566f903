package email

import (
	"context"
	"crypto/tls"
	"slices"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

// Message is one alert mail. When both bodies are set the HTML part is
// attached as an alternative to the text part.
type Message struct {
	To        []string
	Subject   string
	TextBody  string
	HTMLBody  string
	RequestID string
}

// Client delivers alert mail over SMTP, opening one connection per Send.
type Client struct {
	enabled bool
	from    string
	host    string
	timeout time.Duration
	send    func(...*gomail.Message) error
}

func New(cfg Config) (*Client, error) {
	c := &Client{
		enabled: cfg.Enabled,
		from:    strings.TrimSpace(cfg.From),
		host:    cfg.SMTPHost,
		timeout: cfg.SMTPTimeout(),
	}
	if !cfg.Enabled {
		return c, nil
	}
	if cfg.SMTPHost == "" {
		return nil, ErrInvalidMessage{Reason: "smtp host is required"}
	}

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	d.SSL = cfg.SMTPUseTLS
	d.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost}
	c.send = d.DialAndSend
	return c, nil
}

// Send gives up after the configured SMTP timeout or ctx, whichever ends
// first. The dial goroutine is left to finish on its own.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.enabled {
		return ErrDisabled{}
	}
	msg, err := compose(c.from, m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.send(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return ErrSend{Host: c.host, Err: err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func compose(from string, m Message) (*gomail.Message, error) {
	to := slices.DeleteFunc(trimAll(m.To), func(s string) bool { return s == "" })
	subject := strings.TrimSpace(m.Subject)

	switch {
	case from == "":
		return nil, ErrInvalidMessage{Reason: "from is required"}
	case len(to) == 0:
		return nil, ErrInvalidMessage{Reason: "at least one recipient is required"}
	case subject == "":
		return nil, ErrInvalidMessage{Reason: "subject is required"}
	case strings.TrimSpace(m.TextBody) == "" && strings.TrimSpace(m.HTMLBody) == "":
		return nil, ErrInvalidMessage{Reason: "a text or html body is required"}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetHeader("X-Priority", "1")
	if m.RequestID != "" {
		msg.SetHeader("X-Request-Id", m.RequestID)
	}

	switch {
	case m.TextBody == "":
		msg.SetBody("text/html", m.HTMLBody)
	case m.HTMLBody == "":
		msg.SetBody("text/plain", m.TextBody)
	default:
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	}
	return msg, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
