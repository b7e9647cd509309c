package notify

import (
	"context"
	"fmt"

	"trusthire/internal/config"
	"trusthire/internal/logger"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// messageCreator is the slice of the Twilio API the SMS sender uses.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSSender delivers codes through Twilio.
type SMSSender struct {
	api      messageCreator
	from     string
	validity string
}

func NewSMSSender(cfg *config.TwilioConfig, validity string) *SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &SMSSender{api: client.Api, from: cfg.PhoneNumber, validity: validity}
}

func (s *SMSSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.Destination)
	params.SetFrom(s.from)
	params.SetBody(fmt.Sprintf("Your TrustHire OTP is: %s. Valid for %s.", msg.Code, s.validity))

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send otp sms: %w", err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	logger.Info("OTP SMS sent",
		zap.String("destination", msg.Destination),
		zap.String("sid", sid),
		zap.String("event", "otp_sms_sent"),
	)
	return nil
}
