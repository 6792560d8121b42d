package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"ecotrack-backend/internal/models"
)

// EmailSender is the part of the Resend client this package needs.
type EmailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendNotifier emails each new record to the admin address.
type ResendNotifier struct {
	emails EmailSender
	from   string
	to     string
	log    *zap.Logger
}

// NewResendNotifier builds a notifier backed by the Resend API.
func NewResendNotifier(apiKey, from, to string, log *zap.Logger) *ResendNotifier {
	return NewResendNotifierWithSender(resend.NewClient(apiKey).Emails, from, to, log)
}

func NewResendNotifierWithSender(emails EmailSender, from, to string, log *zap.Logger) *ResendNotifier {
	return &ResendNotifier{emails: emails, from: from, to: to, log: log}
}

func (n *ResendNotifier) Notify(ctx context.Context, id string, record models.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	summary := Summary(id, record)
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: subject(record),
		Text:    summary,
		Html: fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
	<h2 style="color: #166534;">EcoTrack feedback</h2>
	<p style="white-space: pre-line;">%s</p>
</div>`, html.EscapeString(summary)),
	}

	sent, err := n.emails.Send(params)
	if err != nil {
		return fmt.Errorf("notify.Resend: send email: %w", err)
	}
	n.log.Info("feedback email sent", zap.String("feedback_id", id), zap.String("email_id", sent.Id))
	return nil
}

func subject(record models.Feedback) string {
	parts := []string{"New EcoTrack feedback"}
	if c := record.String(models.FieldCategory); c != "" {
		parts = append(parts, c)
	}
	if rating, ok := record.Rating(); ok {
		parts = append(parts, fmt.Sprintf("%d/5", rating))
	}
	return strings.Join(parts, " · ")
}
