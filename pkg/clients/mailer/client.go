package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Client defines the interface for sending plain-text mail to the administrator
type Client interface {
	Send(ctx context.Context, subject, body string) error
}

// Config describes the SMTP session. Host, port and credentials come from
// the environment.
type Config struct {
	Host     string
	Port     int
	Auth     string
	Username string
	Password string
	From     string
	To       string
	Timeout  time.Duration
}

type clientImpl struct {
	cfg    Config
	logger *zap.Logger
}

// NewClient creates a new SMTP client
func NewClient(cfg Config, logger *zap.Logger) Client {
	cfg.Auth = strings.ToUpper(cfg.Auth)
	if cfg.Auth == "" {
		cfg.Auth = string(mail.SMTPAuthLogin)
	}
	return &clientImpl{
		cfg:    cfg,
		logger: logger,
	}
}

func (c *clientImpl) Send(ctx context.Context, subject, body string) error {
	msg, err := newMessage(c.cfg.From, c.cfg.To, subject, body)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(c.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithSMTPAuth(mail.SMTPAuthType(c.cfg.Auth)),
		mail.WithUsername(c.cfg.Username),
		mail.WithPassword(c.cfg.Password),
	}
	if c.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(c.cfg.Timeout))
	}

	client, err := mail.NewClient(c.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("error creating SMTP client: %w", err)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("error sending mail via %s:%d: %w", c.cfg.Host, c.cfg.Port, err)
	}

	c.logger.Info("mail sent",
		zap.String("smtp_host", c.cfg.Host),
		zap.String("subject", subject),
	)
	return nil
}

func newMessage(from, to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("error setting sender %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("error setting recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}
