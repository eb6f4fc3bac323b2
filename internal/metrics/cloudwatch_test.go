package metrics

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"github.com/wingops/registry-workspace-sync/internal/models"
)

type mockCloudWatch struct {
	input *cloudwatch.PutMetricDataInput
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.input = params
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestEmitSummary(t *testing.T) {
	client := &mockCloudWatch{}
	emitter := &Emitter{client: client, namespace: "RegistrySync"}

	summary := models.RunSummary{
		MembersProcessed: 42,
		Reactivated:      1,
		Suspended:        3,
		Archived:         2,
		Deleted:          1,
		OrgsProcessed:    4,
		GroupsCreated:    1,
		MembersAdded:     5,
		MembersRemoved:   2,
		Failures:         1,
	}

	if err := emitter.EmitSummary(context.Background(), summary); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if client.input == nil {
		t.Fatalf("expected metric input to be sent")
	}
	if *client.input.Namespace != "RegistrySync" {
		t.Fatalf("expected namespace RegistrySync, got %s", aws.ToString(client.input.Namespace))
	}
	if len(client.input.MetricData) != 11 {
		t.Fatalf("expected 11 metrics, got %d", len(client.input.MetricData))
	}

	byName := map[string]float64{}
	for _, datum := range client.input.MetricData {
		byName[aws.ToString(datum.MetricName)] = aws.ToFloat64(datum.Value)
	}
	if byName["Suspended"] != 3 || byName["Failures"] != 1 {
		t.Fatalf("unexpected metric values %v", byName)
	}
}
