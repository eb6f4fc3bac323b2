package config

import (
	"os"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Google: GoogleConfig{
			AdminEmail:      "admin@squadron.org",
			Domain:          "squadron.org",
			ArchiveOrgUnit:  "/Archived Members",
			ActiveOrgUnit:   "/Members",
			CredentialsFile: "/etc/regsync/creds.json",
		},
		Registry: RegistryConfig{SnapshotFile: "/var/lib/regsync/snapshot.json"},
		Lifecycle: LifecycleConfig{
			SuspensionGraceDays: 7,
			DaysBeforeArchive:   365,
			DaysBeforeDelete:    1825,
		},
		Run: RunConfig{
			BatchSize:     100,
			BudgetSeconds: 330,
			RetryAttempts: 3,
		},
		Checkpoint: CheckpointConfig{FilePath: "checkpoint.json"},
	}
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("DRY_RUN")
	os.Unsetenv("BATCH_SIZE")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !cfg.Run.DryRun {
		t.Fatalf("expected dry-run on by default")
	}
	if cfg.Run.BatchSize != 100 || cfg.Run.BudgetSeconds != 330 {
		t.Fatalf("unexpected run defaults %+v", cfg.Run)
	}
	if cfg.Lifecycle.SuspensionGraceDays != 7 || cfg.Lifecycle.DaysBeforeArchive != 365 || cfg.Lifecycle.DaysBeforeDelete != 1825 {
		t.Fatalf("unexpected lifecycle defaults %+v", cfg.Lifecycle)
	}
	if cfg.Google.ArchiveOrgUnit != "/Archived Members" {
		t.Fatalf("unexpected archive org unit %q", cfg.Google.ArchiveOrgUnit)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected log defaults %+v", cfg.Log)
	}
	if cfg.Checkpoint.Enabled || cfg.Checkpoint.FilePath != "checkpoint.json" {
		t.Fatalf("unexpected checkpoint defaults %+v", cfg.Checkpoint)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	os.Setenv("GOOGLE_ADMIN_EMAIL", "admin@squadron.org")
	os.Setenv("DRY_RUN", "false")
	os.Setenv("BATCH_SIZE", "25")
	os.Setenv("SCHEDULE", "0 3 * * *")
	defer func() {
		os.Unsetenv("GOOGLE_ADMIN_EMAIL")
		os.Unsetenv("DRY_RUN")
		os.Unsetenv("BATCH_SIZE")
		os.Unsetenv("SCHEDULE")
	}()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Google.AdminEmail != "admin@squadron.org" {
		t.Fatalf("expected admin email from env, got %q", cfg.Google.AdminEmail)
	}
	if cfg.Run.DryRun {
		t.Fatalf("expected dry-run overridden off")
	}
	if cfg.Run.BatchSize != 25 {
		t.Fatalf("expected batch size 25, got %d", cfg.Run.BatchSize)
	}
	if cfg.Schedule != "0 3 * * *" {
		t.Fatalf("expected schedule from env, got %q", cfg.Schedule)
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsMissingFields(t *testing.T) {
	cfg := validConfig()
	cfg.Google.AdminEmail = ""
	cfg.Registry.SnapshotFile = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"google.admin_email", "registry.snapshot_file"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in error, got %v", want, err)
		}
	}
}

func TestValidateRejectsMalformedEmail(t *testing.T) {
	cfg := validConfig()
	cfg.Google.AdminEmail = "not-an-email"

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "google.admin_email") {
		t.Fatalf("expected email validation error, got %v", err)
	}
}

func TestValidateLambdaRequiresSecret(t *testing.T) {
	cfg := validConfig()
	cfg.IsLambda = true
	cfg.Google.CredentialsFile = ""

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "google.credentials_secret") {
		t.Fatalf("expected credentials secret required in lambda mode, got %v", err)
	}
}

func TestValidateNotifyNeedsRecipients(t *testing.T) {
	cfg := validConfig()
	cfg.Notify.Enabled = true

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "notify.recipients") {
		t.Fatalf("expected recipients required when notify enabled, got %v", err)
	}
}

func TestValidateCheckpointTableWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.Checkpoint.Enabled = true
	cfg.Checkpoint.TableName = ""
	cfg.Checkpoint.Region = ""

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "checkpoint.table_name") {
		t.Fatalf("expected table name required, got %v", err)
	}
}
