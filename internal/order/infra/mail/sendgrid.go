package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridSender struct {
	apiKey string
	from   string
	log    *slog.Logger
}

func NewSendGridSender(apiKey, from string, log *slog.Logger) *SendGridSender {
	return &SendGridSender{apiKey: apiKey, from: from, log: log}
}

func (s *SendGridSender) Send(ctx context.Context, to, subject, body string) error {
	if s.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	from := sgmail.NewEmail("Furnistore", s.from)
	recipient := sgmail.NewEmail("", to)
	message := sgmail.NewSingleEmail(from, subject, recipient, body, fmt.Sprintf("<pre>%s</pre>", body))

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", resp.StatusCode, resp.Body)
	}

	s.log.Info("order mail sent",
		slog.Int("status", resp.StatusCode),
		slog.String("to", to),
		slog.String("subject", subject))
	return nil
}
