package config

// Config holds all configuration for a reconciliation run. It is built once
// at startup and passed into the engine; nothing reads configuration
// ambiently after that.
type Config struct {
	Google     GoogleConfig     `json:"google"`
	Registry   RegistryConfig   `json:"registry"`
	Lifecycle  LifecycleConfig  `json:"lifecycle"`
	Run        RunConfig        `json:"run"`
	Groups     GroupsConfig     `json:"groups"`
	Notify     NotifyConfig     `json:"notify"`
	Checkpoint CheckpointConfig `json:"checkpoint"`
	Metrics    MetricsConfig    `json:"metrics"`
	Log        LogConfig        `json:"log"`
	Schedule   string           `json:"schedule,omitempty"`
	IsLambda   bool             `json:"-"`
}

// GoogleConfig holds Google Workspace settings.
type GoogleConfig struct {
	AdminEmail        string `json:"admin_email"`
	Domain            string `json:"domain"`
	ArchiveOrgUnit    string `json:"archive_org_unit"`
	ActiveOrgUnit     string `json:"active_org_unit"`
	CredentialsFile   string `json:"credentials_file,omitempty"`
	CredentialsSecret string `json:"credentials_secret,omitempty"`
}

// RegistryConfig holds settings for the registry snapshot handoff.
type RegistryConfig struct {
	SnapshotFile string `json:"snapshot_file"`
}

// LifecycleConfig holds the day thresholds driving account transitions.
type LifecycleConfig struct {
	SuspensionGraceDays int `json:"suspension_grace_days"`
	DaysBeforeArchive   int `json:"days_before_archive"`
	DaysBeforeDelete    int `json:"days_before_delete"`
}

// RunConfig holds batching, budgeting and pacing settings.
type RunConfig struct {
	DryRun           bool `json:"dry_run"`
	BatchSize        int  `json:"batch_size"`
	BudgetSeconds    int  `json:"budget_seconds"`
	RetryAttempts    int  `json:"retry_attempts"`
	RetryBackoffMs   int  `json:"retry_backoff_ms"`
	InterCallDelayMs int  `json:"inter_call_delay_ms"`
}

// GroupsConfig holds settings for derived squadron groups.
type GroupsConfig struct {
	RecruitingMailbox string   `json:"recruiting_mailbox"`
	DutyPositions     []string `json:"duty_positions"`
}

// NotifyConfig holds run-report delivery settings.
type NotifyConfig struct {
	Enabled    bool     `json:"enabled"`
	Recipients []string `json:"recipients"`
}

// CheckpointConfig holds settings for the DynamoDB checkpoint store. When
// disabled, a local JSON file store is used instead.
type CheckpointConfig struct {
	Enabled   bool   `json:"enabled"`
	TableName string `json:"table_name"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
}

// MetricsConfig holds CloudWatch metric settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}
