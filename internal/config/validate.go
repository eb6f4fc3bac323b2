package config

import (
	"fmt"
	"net/mail"
	"strings"
)

// Validate ensures configuration is complete and well-formed.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	var errs []string

	requireEmail := func(value string, field string) {
		if value == "" {
			errs = append(errs, fmt.Sprintf("%s is required", field))
			return
		}
		if _, err := mail.ParseAddress(value); err != nil {
			errs = append(errs, fmt.Sprintf("%s must be a valid email", field))
		}
	}

	requireNonEmpty := func(value string, field string) {
		if value == "" {
			errs = append(errs, fmt.Sprintf("%s is required", field))
		}
	}

	requireEmail(cfg.Google.AdminEmail, "google.admin_email")
	requireNonEmpty(cfg.Google.Domain, "google.domain")
	requireNonEmpty(cfg.Google.ArchiveOrgUnit, "google.archive_org_unit")
	requireNonEmpty(cfg.Registry.SnapshotFile, "registry.snapshot_file")

	if cfg.IsLambda {
		requireNonEmpty(cfg.Google.CredentialsSecret, "google.credentials_secret")
	} else {
		requireNonEmpty(cfg.Google.CredentialsFile, "google.credentials_file")
	}

	if cfg.Run.BatchSize <= 0 {
		errs = append(errs, "run.batch_size must be positive")
	}
	if cfg.Run.BudgetSeconds <= 0 {
		errs = append(errs, "run.budget_seconds must be positive")
	}
	if cfg.Run.RetryAttempts <= 0 {
		errs = append(errs, "run.retry_attempts must be positive")
	}
	if cfg.Lifecycle.SuspensionGraceDays < 0 {
		errs = append(errs, "lifecycle.suspension_grace_days must not be negative")
	}
	if cfg.Lifecycle.DaysBeforeArchive <= 0 {
		errs = append(errs, "lifecycle.days_before_archive must be positive")
	}
	if cfg.Lifecycle.DaysBeforeDelete <= 0 {
		errs = append(errs, "lifecycle.days_before_delete must be positive")
	}

	if cfg.Checkpoint.Enabled {
		requireNonEmpty(cfg.Checkpoint.TableName, "checkpoint.table_name")
		requireNonEmpty(cfg.Checkpoint.Region, "checkpoint.region")
	} else {
		requireNonEmpty(cfg.Checkpoint.FilePath, "checkpoint.file_path")
	}

	if cfg.Notify.Enabled {
		if len(cfg.Notify.Recipients) == 0 {
			errs = append(errs, "notify.recipients is required when notify is enabled")
		}
		for _, recipient := range cfg.Notify.Recipients {
			requireEmail(recipient, "notify.recipients")
		}
	}

	if cfg.Groups.RecruitingMailbox != "" {
		requireEmail(cfg.Groups.RecruitingMailbox, "groups.recruiting_mailbox")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
