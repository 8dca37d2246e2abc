package twilio

import (
	"context"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Client defines the interface for sending SMS alerts through Twilio
type Client interface {
	SendSMS(ctx context.Context, to, body string) error
}

// messageCreator is the slice of the Twilio REST API the client uses.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type clientImpl struct {
	api     messageCreator
	from    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a new Twilio client. A positive timeout bounds each send.
func NewClient(accountSid, authToken, from string, timeout time.Duration, logger *zap.Logger) Client {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &clientImpl{
		api:     client.Api,
		from:    from,
		timeout: timeout,
		logger:  logger,
	}
}

func (c *clientImpl) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// The SDK call takes no context; abandon it when ctx ends.
	type result struct {
		resp *openapi.ApiV2010Message
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := c.api.CreateMessage(params)
		done <- result{resp, err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return fmt.Errorf("error sending SMS: %w", ctx.Err())
	case r = <-done:
	}
	if r.err != nil {
		return fmt.Errorf("error sending SMS: %w", r.err)
	}
	resp := r.resp

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	c.logger.Info("sent SMS alert", zap.String("sid", sid))
	return nil
}
