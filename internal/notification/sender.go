package notification

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	mail "github.com/wneessen/go-mail"
)

// DefaultSMTPTimeout bounds one delivery when SMTPConfig.Timeout is zero
const DefaultSMTPTimeout = 10 * time.Second

// Sender delivers outbound mail
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPConfig holds the mail server settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPSender delivers mail through an SMTP server, using STARTTLS when the server offers it
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates a sender for cfg
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSMTPTimeout
	}
	return &SMTPSender{cfg: cfg}
}

// Send delivers msg. Every network read and write stops at the context deadline or the
// configured timeout, whichever comes first.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := msg.build(s.cfg.From, time.Now())
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(s.cfg.Timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithDialContextFunc(dialWithDeadline),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to configure smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}

// dialWithDeadline connects and carries the context deadline onto the connection, so a
// server that accepts but never answers cannot block the caller
func dialWithDeadline(ctx context.Context, network, address string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

// LogSender writes mail to the log instead of delivering it. Used when no SMTP server is configured.
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender creates a sender that logs every message
func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send logs msg at info level
func (s *LogSender) Send(_ context.Context, msg *Message) error {
	s.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("mail not delivered: SMTP is not configured")
	return nil
}
