package notification

import (
	"context"
	"fmt"
)

// Service renders application mail and hands it to a Sender
type Service struct {
	sender Sender
}

// NewService creates a new notification service
func NewService(sender Sender) *Service {
	return &Service{sender: sender}
}

// SendPasswordResetOTP mails a one-time password reset code
func (s *Service) SendPasswordResetOTP(ctx context.Context, to, username, code string) error {
	return s.sender.Send(ctx, &Message{
		To:      to,
		Subject: "Password Reset OTP",
		Body: fmt.Sprintf("Hello %s,\n\nYour OTP is %s. It is valid for 10 minutes.\n\n"+
			"If you did not request this, please ignore this email.", username, code),
	})
}
