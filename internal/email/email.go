package email

import (
	"context"

	"go.uber.org/zap"
)

// Sender delivers guest-facing booking notifications. The current
// implementation only logs them; SMTP delivery is configured per deployment.
type Sender struct {
	logger *zap.Logger
	from   string
}

func NewSender(logger *zap.Logger, from string) *Sender {
	return &Sender{logger: logger, from: from}
}

// Send records an outgoing notification for the given recipient.
func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.Info("sending email",
		zap.String("from", s.from),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	return nil
}
