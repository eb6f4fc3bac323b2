package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wingops/registry-workspace-sync/internal/models"
)

// SendFunc delivers one rendered report to its recipients. The engine never
// sees the transport; wiring in SES, SMTP, or a chat webhook is a deployment
// concern.
type SendFunc func(ctx context.Context, recipients []string, subject string, body string) error

// Reporter renders the per-run summary and hands it to the configured
// transport. With no transport it degrades to logging the report, which
// keeps run output useful in environments without outbound mail.
type Reporter struct {
	send SendFunc
}

// NewReporter creates a Reporter using the given transport. A nil transport
// selects log-only delivery.
func NewReporter(send SendFunc) *Reporter {
	return &Reporter{send: send}
}

// Send delivers a run report.
func (r *Reporter) Send(ctx context.Context, summary models.NotificationSummary) error {
	if len(summary.Recipients) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	body := summary.Body()
	if r.send == nil {
		logrus.WithFields(logrus.Fields{
			"recipients": summary.Recipients,
			"subject":    summary.Subject,
		}).Info("run report (no mail transport configured)\n" + body)
		return nil
	}

	if err := r.send(ctx, summary.Recipients, summary.Subject, body); err != nil {
		return fmt.Errorf("delivering run report: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"recipients": summary.Recipients,
		"subject":    summary.Subject,
	}).Info("run report delivered")
	return nil
}
