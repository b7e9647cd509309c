package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"trusthire/internal/config"
	"trusthire/internal/logger"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const otpSubject = "Your TrustHire OTP for Email Verification"

var otpEmailTemplate = template.Must(template.New("otp").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #f97316;">TrustHire</h1>
  <p>Hello <strong>{{.Name}}</strong>,</p>
  <p>Thank you for registering with TrustHire. To complete your email verification, use the following one-time password:</p>
  <p style="font-size: 36px; font-weight: bold; letter-spacing: 5px; font-family: 'Courier New', monospace;">{{.Code}}</p>
  <p><strong>Valid for {{.Validity}} only.</strong> Do not share this code with anyone.</p>
  <p>If you did not register for a TrustHire account, please ignore this email.</p>
</div>`))

// EmailSender delivers codes over SMTP.
type EmailSender struct {
	client   *mail.Client
	from     string
	validity string
}

func NewEmailSender(cfg *config.SMTPConfig, validity string) (*EmailSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.User
	}

	return &EmailSender{client: client, from: from, validity: validity}, nil
}

func (s *EmailSender) Send(ctx context.Context, msg Message) error {
	body, err := renderOTPEmail(msg, s.validity)
	if err != nil {
		return err
	}

	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.Destination); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(otpSubject)
	m.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("Your TrustHire OTP is: %s. Valid for %s.", msg.Code, s.validity))
	m.AddAlternativeString(mail.TypeTextHTML, body)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	logger.Info("OTP email sent",
		zap.String("destination", msg.Destination),
		zap.String("event", "otp_email_sent"),
	)
	return nil
}

func renderOTPEmail(msg Message, validity string) (string, error) {
	var buf bytes.Buffer
	err := otpEmailTemplate.Execute(&buf, struct {
		Name     string
		Code     string
		Validity string
	}{
		Name:     msg.DisplayName,
		Code:     msg.Code,
		Validity: validity,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render otp email: %w", err)
	}
	return buf.String(), nil
}
