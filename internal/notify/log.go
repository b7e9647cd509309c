package notify

import (
	"context"

	"trusthire/internal/logger"

	"go.uber.org/zap"
)

// LogSender writes the code to the debug log. It is the delivery of last resort
// for development setups without SMTP or Twilio.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	logger.Debug("OTP issued",
		zap.String("channel", string(msg.Channel)),
		zap.String("destination", msg.Destination),
		zap.String("otp", msg.Code),
		zap.String("event", "otp_logged"),
	)
	return nil
}
