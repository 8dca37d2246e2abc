package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/newtglobalgit/dmap-saas-request/pkg/clients/mailer"
	"github.com/newtglobalgit/dmap-saas-request/pkg/clients/twilio"
	"github.com/newtglobalgit/dmap-saas-request/pkg/models"
)

// Notifier tells the administrator about a new request
type Notifier interface {
	Notify(ctx context.Context, req models.ResourceRequest) error
}

type notifierImpl struct {
	mailer     mailer.Client
	sms        twilio.Client
	adminPhone string
	logger     *zap.Logger
}

// NewNotifier creates a notifier. sms may be nil when no SMS alert is configured.
func NewNotifier(mailClient mailer.Client, sms twilio.Client, adminPhone string, logger *zap.Logger) Notifier {
	return &notifierImpl{
		mailer:     mailClient,
		sms:        sms,
		adminPhone: adminPhone,
		logger:     logger,
	}
}

// Notify emails the administrator. The SMS alert is best effort and only
// sent once the email went out.
func (n *notifierImpl) Notify(ctx context.Context, req models.ResourceRequest) error {
	if err := n.mailer.Send(ctx, NotificationSubject(req), NotificationBody(req)); err != nil {
		return &NotifyError{Err: err}
	}

	if n.sms != nil && n.adminPhone != "" {
		msg := fmt.Sprintf("DMAP SaaS: new cloud resource request from %s (%s). Check your email to approve.",
			req.FullName, req.Company)
		if err := n.sms.SendSMS(ctx, n.adminPhone, msg); err != nil {
			n.logger.Warn("SMS alert failed", zap.Error(err))
		}
	}

	return nil
}

// NotificationSubject is the subject line of the administrator email.
func NotificationSubject(req models.ResourceRequest) string {
	return "DMAP SaaS - Cloud Resource Request from " + req.FullName
}

// NotificationBody is the plain-text body of the administrator email.
func NotificationBody(req models.ResourceRequest) string {
	return fmt.Sprintf(`DMAP SaaS - Cloud Resource Request

New resource request received:

Full Name: %s
Email: %s
Phone: %s
Company: %s
Designation: %s

Please review and approve/reject this request.
`, req.FullName, req.Email, req.PhoneOrDefault(), req.Company, req.Designation)
}
