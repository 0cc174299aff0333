// Package email delivers the daily metrics digest over SMTP.
package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/broddo-baggins/ovenai-insights/internal/metrics"
	"github.com/broddo-baggins/ovenai-insights/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// DigestSender renders and sends the daily metrics digest.
type DigestSender struct {
	host       string
	port       int
	username   string
	password   string
	fromName   string
	fromEmail  string
	recipients []string
}

// NewDigestSender creates a sender from SMTP config. Returns nil when
// email is disabled or no recipients are configured; a nil sender skips
// delivery silently.
func NewDigestSender(cfg config.SMTPConfig) *DigestSender {
	if !cfg.IsEmailEnabled() || len(cfg.GetDigestRecipients()) == 0 {
		return nil
	}

	return &DigestSender{
		host:       cfg.GetSMTPHost(),
		port:       cfg.GetSMTPPort(),
		username:   cfg.GetSMTPUsername(),
		password:   cfg.GetSMTPPassword(),
		fromName:   cfg.GetEmailFromName(),
		fromEmail:  cfg.GetEmailFromAddress(),
		recipients: cfg.GetDigestRecipients(),
	}
}

// SendDigest renders the digest for the given snapshot and trend and
// mails it to every configured recipient.
func (s *DigestSender) SendDigest(ctx context.Context, snapshot metrics.MessageMetrics, trend []metrics.TrendPoint) error {
	if s == nil {
		return nil
	}

	date := snapshot.LastUpdated.Format("Monday, 2 January 2006")

	rows := make([]trendRow, 0, len(trend))
	for _, day := range trend {
		rows = append(rows, trendRow{
			Date:           day.Date,
			FirstMessages:  day.FirstMessages,
			RepliesStarted: day.RepliesStarted,
			ConversionRate: day.ConversionRate,
		})
	}

	content, err := renderEmailTemplate("digest.html", digestEmailData{
		baseEmailData: baseEmailData{
			Title:   "Daily messaging digest",
			Heading: "Daily messaging digest",
		},
		Date:                     date,
		FirstMessagesSentToday:   snapshot.FirstMessagesSentToday,
		RepliesToFirstMessages:   snapshot.RepliesToFirstMessages,
		MeetingsScheduled:        snapshot.MeetingsScheduledFromMessages,
		LeadsProcessedToday:      snapshot.LeadsProcessedToday,
		LeadsQueued:              snapshot.LeadsQueuedForTomorrow,
		ActiveConversations:      snapshot.TotalActiveConversations,
		ResponseRate:             snapshot.ResponseRate,
		MeetingConversionRate:    snapshot.MeetingConversionRate,
		AverageResponseTimeHours: snapshot.AverageResponseTimeHours,
		Trend:                    rows,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Messaging digest for %s", snapshot.LastUpdated.Format("2006-01-02"))
	for _, recipient := range s.recipients {
		if err := s.send(ctx, recipient, subject, content); err != nil {
			return fmt.Errorf("digest to %s: %w", recipient, err)
		}
	}

	return nil
}

func (s *DigestSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
