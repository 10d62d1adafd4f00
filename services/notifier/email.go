package notifier

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"sjsage522/slotwatcher/logger"
	"sjsage522/slotwatcher/pkg/errors"
)

// EmailNotifier sends the alert through SendGrid, one message per recipient
type EmailNotifier struct {
	from *mail.Email
	to   []*mail.Email
	send func(ctx context.Context, msg *mail.SGMailV3) (int, error)
}

// NewEmailNotifier creates a SendGrid notifier
func NewEmailNotifier(apiKey, from string, to []string) *EmailNotifier {
	client := sendgrid.NewSendClient(apiKey)

	n := &EmailNotifier{
		from: mail.NewEmail("slotwatcher", from),
		send: func(ctx context.Context, msg *mail.SGMailV3) (int, error) {
			resp, err := client.SendWithContext(ctx, msg)
			if err != nil {
				return 0, err
			}
			return resp.StatusCode, nil
		},
	}
	for _, addr := range to {
		n.to = append(n.to, mail.NewEmail("", addr))
	}
	return n
}

// Notify emails every recipient and fails on the first error
func (e *EmailNotifier) Notify(ctx context.Context, title, body string) error {
	for _, to := range e.to {
		msg := mail.NewSingleEmail(e.from, title, to, body, "<p>"+body+"</p>")

		status, err := e.send(ctx, msg)
		if err != nil {
			return errors.NewNotify("email", "sendgrid send failed", err)
		}
		if status >= 400 {
			return errors.NewNotify("email", fmt.Sprintf("sendgrid returned status %d", status), nil)
		}
		logger.ForNotifier().Debug().Str("to", to.Address).Int("status", status).Msg("Email sent")
	}
	return nil
}
