package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/sirupsen/logrus"

	"github.com/wingops/registry-workspace-sync/cmd"
	"github.com/wingops/registry-workspace-sync/internal/checkpoint"
	"github.com/wingops/registry-workspace-sync/internal/config"
	"github.com/wingops/registry-workspace-sync/internal/directory"
	store "github.com/wingops/registry-workspace-sync/internal/dynamodb"
	"github.com/wingops/registry-workspace-sync/internal/interfaces"
	"github.com/wingops/registry-workspace-sync/internal/metrics"
	"github.com/wingops/registry-workspace-sync/internal/models"
	"github.com/wingops/registry-workspace-sync/internal/notify"
	"github.com/wingops/registry-workspace-sync/internal/reconcile"
	"github.com/wingops/registry-workspace-sync/internal/registry"
	"github.com/wingops/registry-workspace-sync/internal/secrets"
)

func main() {
	cmd.SetLambdaHandler(HandleRequest)
	cmd.SetRunReconcile(runReconcile)
	cmd.Execute()
}

// HandleRequest is the AWS Lambda handler.
func HandleRequest(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error) {
	if event.Source != "" || event.DetailType != "" {
		if !isScheduledEvent(event) {
			return models.NewErrorResponse(fmt.Errorf("unsupported event source")), nil
		}
	}
	cfg, err := config.Load("")
	if err != nil {
		return models.NewErrorResponse(err), nil
	}

	cfg.Run.DryRun = event.IsDryRun(cfg.Run.DryRun)
	if err := config.Validate(cfg); err != nil {
		return models.NewErrorResponse(err), nil
	}

	result, err := runReconcile(ctx, cfg)
	if err != nil {
		return models.NewErrorResponse(err), nil
	}

	return models.NewSuccessResponse(result), nil
}

func isScheduledEvent(event models.LambdaEvent) bool {
	return event.Source == "aws.events" && event.DetailType == "Scheduled Event"
}

var runReconcile = func(ctx context.Context, cfg *config.Config) (*models.RunResult, error) {
	credentials, err := secrets.ResolveServiceAccountKey(cfg.Google.CredentialsSecret, cfg.Google.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("google credentials: %w", err)
	}

	client, err := directory.NewClient(ctx, credentials, cfg.Google.AdminEmail, cfg.Google.ArchiveOrgUnit, cfg.Google.ActiveOrgUnit)
	if err != nil {
		return nil, err
	}

	importer, err := registry.NewFileImporter(cfg.Registry.SnapshotFile)
	if err != nil {
		return nil, err
	}

	checkpoints, err := newCheckpointStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	engine := reconcile.NewEngine(client, checkpoints, importer, cfg)

	if cfg.Notify.Enabled {
		engine.SetNotifier(notify.NewReporter(nil))
	}

	if cfg.Metrics.Enabled {
		awsCfg, cfgErr := awsconfig.LoadDefaultConfig(ctx)
		if cfgErr != nil {
			logrus.WithError(cfgErr).Warn("AWS config load failed, metrics disabled")
		} else {
			engine.SetMetrics(metrics.NewEmitter(awsCfg, cfg.Metrics.Namespace))
		}
	}

	return engine.Run(ctx)
}

// newCheckpointStore selects DynamoDB when enabled and falls back to the
// local file store for CLI use.
func newCheckpointStore(ctx context.Context, cfg *config.Config) (interfaces.CheckpointStore, error) {
	if cfg.Checkpoint.Enabled {
		dynamoStore, err := store.NewStore(ctx, cfg.Checkpoint)
		if err != nil {
			return nil, fmt.Errorf("dynamodb checkpoint store: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"table":  cfg.Checkpoint.TableName,
			"region": cfg.Checkpoint.Region,
		}).Info("checkpointing to DynamoDB")
		return dynamoStore, nil
	}
	fileStore, err := checkpoint.NewFileStore(cfg.Checkpoint.FilePath)
	if err != nil {
		return nil, fmt.Errorf("file checkpoint store: %w", err)
	}
	logrus.WithField("path", cfg.Checkpoint.FilePath).Info("checkpointing to local file")
	return fileStore, nil
}
