package metrics

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/wingops/registry-workspace-sync/internal/models"
)

// CloudWatchAPI defines the CloudWatch client interface used for metrics.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Emitter publishes per-run reconciliation counters to CloudWatch.
type Emitter struct {
	client    CloudWatchAPI
	namespace string
}

// NewEmitter creates a CloudWatch metrics emitter.
func NewEmitter(cfg aws.Config, namespace string) *Emitter {
	return &Emitter{
		client:    cloudwatch.NewFromConfig(cfg),
		namespace: namespace,
	}
}

// EmitSummary publishes the run summary counters as one metric batch.
func (e *Emitter) EmitSummary(ctx context.Context, summary models.RunSummary) error {
	metrics := []types.MetricDatum{
		metricDatum("MembersProcessed", summary.MembersProcessed),
		metricDatum("Reactivated", summary.Reactivated),
		metricDatum("Suspended", summary.Suspended),
		metricDatum("Archived", summary.Archived),
		metricDatum("Deleted", summary.Deleted),
		metricDatum("OrgsProcessed", summary.OrgsProcessed),
		metricDatum("GroupsCreated", summary.GroupsCreated),
		metricDatum("GroupsUpdated", summary.GroupsUpdated),
		metricDatum("GroupMembersAdded", summary.MembersAdded),
		metricDatum("GroupMembersRemoved", summary.MembersRemoved),
		metricDatum("Failures", summary.Failures),
	}

	_, err := e.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(e.namespace),
		MetricData: metrics,
	})
	return err
}

func metricDatum(name string, value int) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Unit:       types.StandardUnitCount,
		Value:      aws.Float64(float64(value)),
	}
}
