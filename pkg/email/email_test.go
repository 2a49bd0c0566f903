package email

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/Alijeyrad/simorq_frontdesk/config"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/reqctx"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	done chan struct{}
}

func (s *recordingSender) Send(_ context.Context, m Message) error {
	s.mu.Lock()
	s.sent = append(s.sent, m)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func TestAlerter_SendsAndThrottles(t *testing.T) {
	s := &recordingSender{done: make(chan struct{}, 4)}
	a := NewAlerter(s, Config{To: []string{"ops@clinic.test"}, AppName: "frontdesk", MinInterval: time.Hour}, nil)

	ctx := reqctx.WithRequestMeta(context.Background(), &reqctx.RequestMeta{RequestID: "req-1"})
	a.Alert(ctx, "Server error", 503)
	a.Alert(ctx, "Server error", 503)

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("alert mail was not sent")
	}
	select {
	case <-s.done:
		t.Fatal("second alert should be throttled")
	case <-time.After(50 * time.Millisecond):
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.sent, 1)
	m := s.sent[0]
	assert.Equal(t, []string{"ops@clinic.test"}, m.To)
	assert.Equal(t, "[frontdesk] clinic API failure: 503 Service Unavailable", m.Subject)
	assert.Contains(t, m.TextBody, "req-1")
	assert.Equal(t, "req-1", m.RequestID)
}

func TestBuildAlertMessage_EscapesHTML(t *testing.T) {
	m := BuildAlertMessage(AlertData{Message: "<script>", At: time.Now()})
	assert.Contains(t, m.Subject, "no response")
	assert.Contains(t, m.HTMLBody, "&lt;script&gt;")
	assert.Contains(t, m.TextBody, "<script>")
}

func TestCompose(t *testing.T) {
	_, err := compose("", Message{To: []string{"a@b.c"}, Subject: "s", TextBody: "b"})
	assert.ErrorAs(t, err, &ErrInvalidMessage{})

	_, err = compose("x@y.z", Message{To: []string{" "}, Subject: "s", TextBody: "b"})
	assert.ErrorAs(t, err, &ErrInvalidMessage{})

	_, err = compose("x@y.z", Message{To: []string{"a@b.c"}, Subject: "s"})
	assert.ErrorAs(t, err, &ErrInvalidMessage{})

	msg, err := compose("x@y.z", Message{To: []string{" a@b.c", ""}, Subject: "s", TextBody: "b", HTMLBody: "<b>b</b>", RequestID: "req-9"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.c"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"req-9"}, msg.GetHeader("X-Request-Id"))
}

func TestClient_Disabled(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	assert.ErrorAs(t, c.Send(context.Background(), Message{}), &ErrDisabled{})

	_, err = New(Config{Enabled: true})
	assert.Error(t, err, "enabled without a host")
}

func TestClient_Send(t *testing.T) {
	valid := Message{To: []string{"ops@clinic.test"}, Subject: "s", TextBody: "b"}
	newClient := func(send func(...*gomail.Message) error) *Client {
		c, err := New(Config{Enabled: true, From: "frontdesk@clinic.test", SMTPHost: "smtp.clinic.test", SMTPTimeoutSeconds: 5})
		require.NoError(t, err)
		c.send = send
		return c
	}

	var got []*gomail.Message
	c := newClient(func(m ...*gomail.Message) error {
		got = append(got, m...)
		return nil
	})
	require.NoError(t, c.Send(context.Background(), valid))
	require.Len(t, got, 1)
	assert.Equal(t, []string{"frontdesk@clinic.test"}, got[0].GetHeader("From"))

	refused := errors.New("connection refused")
	c = newClient(func(...*gomail.Message) error { return refused })
	err := c.Send(context.Background(), valid)
	var se ErrSend
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "smtp.clinic.test", se.Host)
	assert.ErrorIs(t, err, refused)

	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	c = newClient(func(...*gomail.Message) error {
		<-block
		return nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Send(ctx, valid), context.DeadlineExceeded)
}

func TestFromCentralConfig(t *testing.T) {
	c := &config.Config{}
	c.Alerts.Email.Enabled = true
	c.Alerts.Email.To = []string{"ops@clinic.test"}
	c.Alerts.Email.SMTP.Host = "smtp.clinic.test"
	c.Alerts.Email.MinIntervalSeconds = 60

	cfg := FromCentralConfig(c)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, time.Minute, cfg.MinInterval)
	assert.Equal(t, "frontdesk", cfg.AppName)
}
