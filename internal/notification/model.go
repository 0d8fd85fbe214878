package notification

import (
	"fmt"
	"time"

	mail "github.com/wneessen/go-mail"
)

// Message is a plain-text mail
type Message struct {
	To      string
	Subject string
	Body    string
}

// build renders the message for delivery from the given sender address
func (m *Message) build(from string, now time.Time) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", from, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetDateWithValue(now)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	return msg, nil
}
