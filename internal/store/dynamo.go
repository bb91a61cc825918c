package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/TebanMT/POC-SENTRY/internal/core"
)

// DynamoAPI is the subset of the DynamoDB client the gateway needs.
type DynamoAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Dynamo is the gateway to the session-credential table. It exposes the
// lookup-by-secondary-index and get/put primitives and nothing else; the
// records themselves are provisioned by an out-of-scope flow.
type Dynamo struct {
	api     DynamoAPI
	table   string
	keyAttr string
}

var _ core.CredentialStore = (*Dynamo)(nil)

func NewDynamo(api DynamoAPI, table string) *Dynamo {
	return &Dynamo{api: api, table: table, keyAttr: "id"}
}

// QueryByIndex looks records up via a secondary index. An empty attribute
// value short-circuits to an empty result without issuing a call.
func (d *Dynamo) QueryByIndex(ctx context.Context, indexName, attributeName, attributeValue string) ([]core.Record, error) {
	if attributeValue == "" {
		log.Error().Str("index", indexName).Msg("index lookup with empty attribute value")
		return nil, nil
	}

	out, err := d.api.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(d.table),
		IndexName:              aws.String(indexName),
		KeyConditionExpression: aws.String("#attr = :val"),
		ExpressionAttributeNames: map[string]string{
			"#attr": attributeName,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":val": &types.AttributeValueMemberS{Value: attributeValue},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("querying %s by %s: %w: %w", d.table, indexName, core.ErrUpstreamUnavailable, err)
	}

	records := make([]core.Record, 0, len(out.Items))
	for _, item := range out.Items {
		var rec core.Record
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("decoding record from %s: %w: %w", d.table, core.ErrConfiguration, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetItem fetches a record by primary key.
func (d *Dynamo) GetItem(ctx context.Context, key string) (core.Record, bool, error) {
	out, err := d.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			d.keyAttr: &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("getting %s from %s: %w: %w", key, d.table, core.ErrUpstreamUnavailable, err)
	}
	if len(out.Item) == 0 {
		return nil, false, nil
	}

	var rec core.Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, false, fmt.Errorf("decoding record %s: %w: %w", key, core.ErrConfiguration, err)
	}
	return rec, true, nil
}

// DeleteItem removes a record by primary key. Deleting an absent key is not
// an error.
func (d *Dynamo) DeleteItem(ctx context.Context, key string) error {
	if _, err := d.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			d.keyAttr: &types.AttributeValueMemberS{Value: key},
		},
	}); err != nil {
		return fmt.Errorf("deleting %s from %s: %w: %w", key, d.table, core.ErrUpstreamUnavailable, err)
	}
	return nil
}

// PutItem writes a record. Provisioning tooling only, never the request path.
func (d *Dynamo) PutItem(ctx context.Context, key string, record core.Record) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", key, err)
	}
	item[d.keyAttr] = &types.AttributeValueMemberS{Value: key}

	if _, err := d.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("putting %s into %s: %w: %w", key, d.table, core.ErrUpstreamUnavailable, err)
	}
	return nil
}
