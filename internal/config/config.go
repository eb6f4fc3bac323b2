package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment variables, and defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("run.dry_run", true)
	v.SetDefault("run.batch_size", 100)
	v.SetDefault("run.budget_seconds", 330)
	v.SetDefault("run.retry_attempts", 3)
	v.SetDefault("run.retry_backoff_ms", 500)
	v.SetDefault("run.inter_call_delay_ms", 250)
	v.SetDefault("lifecycle.suspension_grace_days", 7)
	v.SetDefault("lifecycle.days_before_archive", 365)
	v.SetDefault("lifecycle.days_before_delete", 1825)
	v.SetDefault("google.archive_org_unit", "/Archived Members")
	v.SetDefault("google.active_org_unit", "/Members")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("checkpoint.enabled", false)
	v.SetDefault("checkpoint.table_name", "sync-checkpoints")
	v.SetDefault("checkpoint.region", "eu-west-1")
	v.SetDefault("checkpoint.file_path", "checkpoint.json")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "RegistryWorkspaceSync")
	v.SetDefault("notify.enabled", false)
	v.SetDefault("groups.duty_positions", []string{"commander", "deputy-commander", "recruiting-officer"})

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("google.admin_email", "GOOGLE_ADMIN_EMAIL")
	_ = v.BindEnv("google.domain", "GOOGLE_DOMAIN")
	_ = v.BindEnv("google.archive_org_unit", "GOOGLE_ARCHIVE_ORG_UNIT")
	_ = v.BindEnv("google.active_org_unit", "GOOGLE_ACTIVE_ORG_UNIT")
	_ = v.BindEnv("google.credentials_file", "GOOGLE_CREDENTIALS_FILE")
	_ = v.BindEnv("google.credentials_secret", "GOOGLE_CREDENTIALS_SECRET")
	_ = v.BindEnv("registry.snapshot_file", "REGISTRY_SNAPSHOT_FILE")
	_ = v.BindEnv("run.dry_run", "DRY_RUN")
	_ = v.BindEnv("run.batch_size", "BATCH_SIZE")
	_ = v.BindEnv("run.budget_seconds", "BUDGET_SECONDS")
	_ = v.BindEnv("run.retry_attempts", "RETRY_ATTEMPTS")
	_ = v.BindEnv("run.inter_call_delay_ms", "INTER_CALL_DELAY_MS")
	_ = v.BindEnv("lifecycle.suspension_grace_days", "SUSPENSION_GRACE_DAYS")
	_ = v.BindEnv("lifecycle.days_before_archive", "DAYS_BEFORE_ARCHIVE")
	_ = v.BindEnv("lifecycle.days_before_delete", "DAYS_BEFORE_DELETE")
	_ = v.BindEnv("groups.recruiting_mailbox", "GROUPS_RECRUITING_MAILBOX")
	_ = v.BindEnv("notify.enabled", "NOTIFY_ENABLED")
	_ = v.BindEnv("notify.recipients", "NOTIFY_RECIPIENTS")
	_ = v.BindEnv("checkpoint.enabled", "CHECKPOINT_ENABLED")
	_ = v.BindEnv("checkpoint.table_name", "CHECKPOINT_TABLE_NAME")
	_ = v.BindEnv("checkpoint.region", "CHECKPOINT_REGION")
	_ = v.BindEnv("checkpoint.endpoint", "CHECKPOINT_ENDPOINT")
	_ = v.BindEnv("checkpoint.file_path", "CHECKPOINT_FILE_PATH")
	_ = v.BindEnv("metrics.enabled", "METRICS_ENABLED")
	_ = v.BindEnv("metrics.namespace", "METRICS_NAMESPACE")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.format", "LOG_FORMAT")
	_ = v.BindEnv("schedule", "SCHEDULE")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// Explicitly map values to avoid tag mismatch issues.
	cfg.Google.AdminEmail = v.GetString("google.admin_email")
	cfg.Google.Domain = v.GetString("google.domain")
	cfg.Google.ArchiveOrgUnit = v.GetString("google.archive_org_unit")
	cfg.Google.ActiveOrgUnit = v.GetString("google.active_org_unit")
	cfg.Google.CredentialsFile = v.GetString("google.credentials_file")
	cfg.Google.CredentialsSecret = v.GetString("google.credentials_secret")

	cfg.Registry.SnapshotFile = v.GetString("registry.snapshot_file")

	cfg.Run.DryRun = v.GetBool("run.dry_run")
	cfg.Run.BatchSize = v.GetInt("run.batch_size")
	cfg.Run.BudgetSeconds = v.GetInt("run.budget_seconds")
	cfg.Run.RetryAttempts = v.GetInt("run.retry_attempts")
	cfg.Run.RetryBackoffMs = v.GetInt("run.retry_backoff_ms")
	cfg.Run.InterCallDelayMs = v.GetInt("run.inter_call_delay_ms")

	cfg.Lifecycle.SuspensionGraceDays = v.GetInt("lifecycle.suspension_grace_days")
	cfg.Lifecycle.DaysBeforeArchive = v.GetInt("lifecycle.days_before_archive")
	cfg.Lifecycle.DaysBeforeDelete = v.GetInt("lifecycle.days_before_delete")

	cfg.Groups.RecruitingMailbox = v.GetString("groups.recruiting_mailbox")
	cfg.Groups.DutyPositions = v.GetStringSlice("groups.duty_positions")

	cfg.Notify.Enabled = v.GetBool("notify.enabled")
	cfg.Notify.Recipients = v.GetStringSlice("notify.recipients")

	cfg.Checkpoint.Enabled = v.GetBool("checkpoint.enabled")
	cfg.Checkpoint.TableName = v.GetString("checkpoint.table_name")
	cfg.Checkpoint.Region = v.GetString("checkpoint.region")
	cfg.Checkpoint.Endpoint = v.GetString("checkpoint.endpoint")
	cfg.Checkpoint.FilePath = v.GetString("checkpoint.file_path")

	cfg.Metrics.Enabled = v.GetBool("metrics.enabled")
	cfg.Metrics.Namespace = v.GetString("metrics.namespace")

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	cfg.Schedule = v.GetString("schedule")

	cfg.IsLambda = os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""

	return cfg, nil
}
