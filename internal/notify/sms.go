package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"educenter/internal/config"
	"educenter/internal/domain"
	"educenter/internal/logger"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSSender sends payment reminders through Twilio.
type SMSSender struct {
	api  messageCreator
	from string
}

func NewSMSSender(cfg config.TwilioConfig) *SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &SMSSender{api: client.Api, from: cfg.FromNumber}
}

func (s *SMSSender) SendOverdueReminder(ctx context.Context, inv domain.Invoice) error {
	to := strings.TrimSpace(inv.BillToPhone)
	if to == "" {
		return fmt.Errorf("invoice %d has no phone number", inv.ID)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(OverdueMessage(inv))

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send sms for invoice %d: %w", inv.ID, err)
	}

	log := logger.WithContext(ctx).With("invoice_id", inv.ID)
	if resp != nil && resp.Sid != nil {
		log.Info("overdue reminder sent", "sid", *resp.Sid)
	} else {
		log.Info("overdue reminder sent")
	}
	return nil
}

// OverdueMessage renders the reminder text. Amounts are whole dong.
func OverdueMessage(inv domain.Invoice) string {
	return fmt.Sprintf("Invoice %s for %s is overdue (due %s). Remaining balance: %s VND.",
		inv.Number, inv.StudentName, inv.DueDate, groupThousands(inv.RemainingAmount))
}

func groupThousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// LogSender stands in when Twilio is not configured.
type LogSender struct{}

func (LogSender) SendOverdueReminder(ctx context.Context, inv domain.Invoice) error {
	logger.WithContext(ctx).Info("overdue reminder (sms disabled)",
		"invoice_id", inv.ID, "to", inv.BillToPhone, "message", OverdueMessage(inv))
	return nil
}
