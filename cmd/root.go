package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wingops/registry-workspace-sync/internal/config"
	"github.com/wingops/registry-workspace-sync/internal/log"
	"github.com/wingops/registry-workspace-sync/internal/models"
)

var (
	cfgFile       string
	flagDryRun    bool
	flagSnapshot  string
	flagAdmin     string
	flagDomain    string
	flagCreds     string
	flagSchedule  string
	flagLogLevel  string
	flagLogFormat string

	lambdaHandler func(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error)
	runReconcile  func(ctx context.Context, cfg *config.Config) (*models.RunResult, error)
)

// SetLambdaHandler registers the Lambda handler used in Lambda mode.
func SetLambdaHandler(handler func(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error)) {
	lambdaHandler = handler
}

// SetRunReconcile registers the reconciliation runner used by the CLI.
func SetRunReconcile(handler func(ctx context.Context, cfg *config.Config) (*models.RunResult, error)) {
	runReconcile = handler
}

var rootCmd = &cobra.Command{
	Use:   "regsync",
	Short: "Reconcile the membership registry with Google Workspace accounts and groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		overrideConfigFromFlags(cmd, cfg)
		if err := config.Validate(cfg); err != nil {
			return err
		}

		logger := log.NewLogger(cfg.Log.Level, cfg.Log.Format)
		logrus.SetFormatter(logger.Formatter)
		logrus.SetLevel(logger.Level)
		logrus.SetOutput(logger.Out)

		if runReconcile == nil {
			return fmt.Errorf("reconciliation engine is not configured")
		}

		if cfg.Schedule != "" {
			return runOnSchedule(cmd.Context(), cfg)
		}

		result, err := runReconcile(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

// Execute runs the CLI or Lambda handler depending on environment.
func Execute() {
	if isLambda() {
		if lambdaHandler == nil {
			logrus.Fatal("lambda handler is not configured")
		}
		lambda.Start(lambdaHandler)
		return
	}

	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

// runOnSchedule keeps the process resident and fires a run on the configured
// cron expression. Each firing is an independent run; overlap is rejected by
// the engine's own guard.
func runOnSchedule(ctx context.Context, cfg *config.Config) error {
	scheduler := cron.New()
	_, err := scheduler.AddFunc(cfg.Schedule, func() {
		result, runErr := runReconcile(ctx, cfg)
		if runErr != nil {
			logrus.WithError(runErr).Error("scheduled run failed")
			return
		}
		printResult(result)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
	}

	logrus.WithField("schedule", cfg.Schedule).Info("running on schedule, press Ctrl+C to stop")
	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()
	return nil
}

func printResult(result *models.RunResult) {
	logrus.WithFields(logrus.Fields{
		"dry_run":        result.DryRun,
		"duration_ms":    result.DurationMs,
		"budget_expired": result.BudgetExpired,
	}).Info(result.Summary.String())

	for _, action := range result.MemberActions {
		prefix := ""
		if !action.Executed && action.Error == nil {
			prefix = "[planned] "
		}
		logrus.WithFields(action.LogFields()).Infof("  %s%s %s", prefix, action.Action, action.Email)
	}
	if result.Checkpoint.MemberCursor != "" || result.Checkpoint.OrgCursor != "" {
		logrus.WithFields(logrus.Fields{
			"member_cursor": result.Checkpoint.MemberCursor,
			"org_cursor":    result.Checkpoint.OrgCursor,
		}).Info("partial pass, next run resumes from checkpoint")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", true, "Preview changes without applying")
	rootCmd.PersistentFlags().StringVar(&flagSnapshot, "snapshot", "", "Path to the registry snapshot file")
	rootCmd.PersistentFlags().StringVar(&flagAdmin, "google-admin", "", "Google Workspace admin email for impersonation")
	rootCmd.PersistentFlags().StringVar(&flagDomain, "google-domain", "", "Google Workspace primary domain")
	rootCmd.PersistentFlags().StringVar(&flagCreds, "google-creds", "", "Path to Google service account JSON")
	rootCmd.PersistentFlags().StringVar(&flagSchedule, "schedule", "", "Cron expression; keeps the process resident and runs on schedule")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text, json, or pretty")
}

func isLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

func overrideConfigFromFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("dry-run") {
		cfg.Run.DryRun = flagDryRun
	}
	if cmd.Flags().Changed("snapshot") {
		cfg.Registry.SnapshotFile = flagSnapshot
	}
	if cmd.Flags().Changed("google-admin") {
		cfg.Google.AdminEmail = flagAdmin
	}
	if cmd.Flags().Changed("google-domain") {
		cfg.Google.Domain = flagDomain
	}
	if cmd.Flags().Changed("google-creds") {
		cfg.Google.CredentialsFile = flagCreds
	}
	if cmd.Flags().Changed("schedule") {
		cfg.Schedule = flagSchedule
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = flagLogFormat
	}
}
