package notify

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wingops/registry-workspace-sync/internal/models"
)

func sampleSummary() models.NotificationSummary {
	return models.NotificationSummary{
		Recipients: []string{"it@wing.org"},
		Subject:    "Membership sync report: 3 lifecycle actions, 1 failures",
		RunAt:      time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC),
		Summary: models.RunSummary{
			Suspended: 2,
			Archived:  1,
			Failures:  1,
			FailureCodes: map[int]int{
				404: 1,
			},
		},
		Errors: []string{"member 42 (gone@squadron.org): user not found [404]"},
	}
}

func TestSendRendersReportBody(t *testing.T) {
	var gotRecipients []string
	var gotSubject, gotBody string
	reporter := NewReporter(func(ctx context.Context, recipients []string, subject string, body string) error {
		gotRecipients = recipients
		gotSubject = subject
		gotBody = body
		return nil
	})

	if err := reporter.Send(context.Background(), sampleSummary()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(gotRecipients) != 1 || gotRecipients[0] != "it@wing.org" {
		t.Fatalf("unexpected recipients %v", gotRecipients)
	}
	if !strings.Contains(gotSubject, "1 failures") {
		t.Fatalf("unexpected subject %q", gotSubject)
	}
	for _, want := range []string{"Suspended:   2", "HTTP 404: 1", "gone@squadron.org"} {
		if !strings.Contains(gotBody, want) {
			t.Fatalf("expected body to contain %q, got:\n%s", want, gotBody)
		}
	}
}

func TestSendWithoutRecipientsFails(t *testing.T) {
	reporter := NewReporter(nil)
	summary := sampleSummary()
	summary.Recipients = nil

	if err := reporter.Send(context.Background(), summary); err == nil {
		t.Fatalf("expected error for missing recipients")
	}
}

func TestSendWrapsTransportError(t *testing.T) {
	reporter := NewReporter(func(ctx context.Context, recipients []string, subject string, body string) error {
		return fmt.Errorf("relay refused")
	})

	err := reporter.Send(context.Background(), sampleSummary())
	if err == nil || !strings.Contains(err.Error(), "relay refused") {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestSendFallsBackToLogging(t *testing.T) {
	reporter := NewReporter(nil)
	if err := reporter.Send(context.Background(), sampleSummary()); err != nil {
		t.Fatalf("expected log-only delivery to succeed, got %v", err)
	}
}
