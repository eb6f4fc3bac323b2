// Package dynamodb persists the run checkpoint in a DynamoDB table so
// reconciliation progress survives process restarts between scheduled runs.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/wingops/registry-workspace-sync/internal/config"
	"github.com/wingops/registry-workspace-sync/internal/models"
)

// DynamoAPI defines the DynamoDB operations the store uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Store implements the CheckpointStore interface using DynamoDB.
type Store struct {
	client    DynamoAPI
	tableName string
}

// NewStore creates a new DynamoDB-backed CheckpointStore.
func NewStore(ctx context.Context, cfg config.CheckpointConfig) (*Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.Endpoint != "" {
		// Local development: use static credentials and custom endpoint.
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	var clientOpts []func(*dynamodb.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &Store{
		client:    dynamodb.NewFromConfig(awsCfg, clientOpts...),
		tableName: cfg.TableName,
	}, nil
}

// GetCheckpoint returns the stored checkpoint, or nil on first run.
func (s *Store) GetCheckpoint(ctx context.Context, domain string) (*models.RunCheckpoint, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: "SYNC#" + domain},
			"sk": &types.AttributeValueMemberS{Value: "CHECKPOINT"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting checkpoint: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var checkpoint models.RunCheckpoint
	if err := attributevalue.UnmarshalMap(result.Item, &checkpoint); err != nil {
		return nil, fmt.Errorf("unmarshaling checkpoint: %w", err)
	}

	return &checkpoint, nil
}

// SaveCheckpoint overwrites the stored checkpoint.
func (s *Store) SaveCheckpoint(ctx context.Context, checkpoint models.RunCheckpoint) error {
	if checkpoint.RunAt.IsZero() {
		checkpoint.RunAt = time.Now().UTC()
	}
	item, err := attributevalue.MarshalMap(checkpoint)
	if err != nil {
		return fmt.Errorf("marshaling checkpoint: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}

	return nil
}
