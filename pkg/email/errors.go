package email

import "fmt"

// ErrDisabled is returned by Send when alert mail is switched off.
type ErrDisabled struct{}

func (ErrDisabled) Error() string { return "email is disabled" }

// ErrInvalidMessage reports a message that cannot be sent as built.
type ErrInvalidMessage struct{ Reason string }

func (e ErrInvalidMessage) Error() string { return "invalid email message: " + e.Reason }

// ErrSend wraps an SMTP delivery failure.
type ErrSend struct {
	Host string
	Err  error
}

func (e ErrSend) Error() string { return fmt.Sprintf("smtp send via %s failed: %v", e.Host, e.Err) }
func (e ErrSend) Unwrap() error { return e.Err }
