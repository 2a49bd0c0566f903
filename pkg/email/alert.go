package email

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Alijeyrad/simorq_frontdesk/pkg/reqctx"
)

// Sender delivers one message. *Client is the SMTP implementation.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Alerter mails upstream failures to the operators. Mails are throttled to
// one per MinInterval; alerts over the limit are only logged.
type Alerter struct {
	sender  Sender
	to      []string
	appName string
	timeout time.Duration
	limiter *rate.Limiter
	log     *slog.Logger
}

func NewAlerter(sender Sender, cfg Config, log *slog.Logger) *Alerter {
	if log == nil {
		log = slog.Default()
	}
	interval := cfg.MinInterval
	if interval <= 0 {
		interval = DefaultConfig().MinInterval
	}
	return &Alerter{
		sender:  sender,
		to:      cfg.To,
		appName: cfg.AppName,
		timeout: cfg.SMTPTimeout(),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		log:     log,
	}
}

// Alert sends in the background so the failing request is not held up by
// SMTP.
func (a *Alerter) Alert(ctx context.Context, message string, status int) {
	if !a.limiter.Allow() {
		a.log.DebugContext(ctx, "alert mail throttled", "status", status)
		return
	}
	m := BuildAlertMessage(AlertData{
		AppName:   a.appName,
		To:        a.to,
		Message:   message,
		Status:    status,
		RequestID: reqctx.RequestIDFromContext(ctx),
		At:        time.Now(),
	})

	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		if err := a.sender.Send(sendCtx, m); err != nil {
			a.log.WarnContext(sendCtx, "alert mail failed", "error", err)
		}
	}()
}

// AlertData is what one alert mail reports.
type AlertData struct {
	AppName   string
	To        []string
	Message   string
	Status    int
	RequestID string
	At        time.Time
}

func BuildAlertMessage(d AlertData) Message {
	appName := d.AppName
	if appName == "" {
		appName = "frontdesk"
	}
	statusText := "no response"
	if d.Status > 0 {
		statusText = fmt.Sprintf("%d %s", d.Status, http.StatusText(d.Status))
	}

	subject := fmt.Sprintf("[%s] clinic API failure: %s", appName, statusText)

	textBody := fmt.Sprintf(`The clinic API call failed.

Status:     %s
Message:    %s
Request ID: %s
Time:       %s
`, statusText, d.Message, d.RequestID, d.At.Format(time.RFC1123))

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #dc2626;">Clinic API failure</h2>
    <table>
        <tr><td><b>Status</b></td><td>%s</td></tr>
        <tr><td><b>Message</b></td><td>%s</td></tr>
        <tr><td><b>Request ID</b></td><td><code>%s</code></td></tr>
        <tr><td><b>Time</b></td><td>%s</td></tr>
    </table>
</body>
</html>`, html.EscapeString(statusText), html.EscapeString(d.Message), html.EscapeString(d.RequestID), d.At.Format(time.RFC1123))

	return Message{
		To:        d.To,
		Subject:   subject,
		TextBody:  textBody,
		HTMLBody:  htmlBody,
		RequestID: d.RequestID,
	}
}
