// Package notify delivers one-time codes to account owners over email and SMS.
package notify

import (
	"context"
	"errors"
	"fmt"

	"trusthire/internal/logger"

	"go.uber.org/zap"
)

//go:generate mockgen -source=sender.go -destination=mock/sender_mock.go -package=mock

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Message is a single code delivery to one destination.
type Message struct {
	Channel     Channel
	Destination string
	Code        string
	DisplayName string
}

// Sender delivers a message over one channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Recipient describes where an account's codes go.
type Recipient struct {
	Email string
	Phone *string
	Name  string
}

// Dispatcher fans a code out to every configured channel. Channels without a
// sender, and channels whose sender fails, fall back to the log sender.
type Dispatcher struct {
	email    Sender
	sms      Sender
	fallback Sender
}

// NewDispatcher accepts nil for channels that are not configured.
func NewDispatcher(email, sms Sender) *Dispatcher {
	return &Dispatcher{
		email:    email,
		sms:      sms,
		fallback: NewLogSender(),
	}
}

// DeliverCode returns the joined errors of failed channels. Callers treat a
// failure as non-fatal.
func (d *Dispatcher) DeliverCode(ctx context.Context, to Recipient, code string) error {
	name := to.Name
	if name == "" {
		name = "User"
	}

	var errs []error

	emailMsg := Message{Channel: ChannelEmail, Destination: to.Email, Code: code, DisplayName: name}
	if err := d.deliver(ctx, d.email, emailMsg); err != nil {
		errs = append(errs, err)
	}

	if to.Phone != nil && *to.Phone != "" {
		smsMsg := Message{Channel: ChannelSMS, Destination: *to.Phone, Code: code, DisplayName: name}
		if err := d.deliver(ctx, d.sms, smsMsg); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (d *Dispatcher) deliver(ctx context.Context, sender Sender, msg Message) error {
	if sender == nil {
		return d.fallback.Send(ctx, msg)
	}

	err := sender.Send(ctx, msg)
	if err == nil {
		return nil
	}

	logger.Warn("OTP delivery failed, falling back to log",
		zap.String("channel", string(msg.Channel)),
		zap.String("destination", msg.Destination),
		zap.Error(err),
		zap.String("event", "otp_delivery_failed"),
	)
	_ = d.fallback.Send(ctx, msg)

	return fmt.Errorf("%s delivery: %w", msg.Channel, err)
}
