package store

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/TebanMT/POC-SENTRY/internal/core"
)

type fakeDynamoAPI struct {
	query      func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	getItem    func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	putItem    func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	deleteItem func(*dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error)
}

func (f *fakeDynamoAPI) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return f.query(params)
}

func (f *fakeDynamoAPI) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return f.getItem(params)
}

func (f *fakeDynamoAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return f.putItem(params)
}

func (f *fakeDynamoAPI) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return f.deleteItem(params)
}

func TestQueryByIndex(t *testing.T) {
	var gotInput *dynamodb.QueryInput
	api := &fakeDynamoAPI{
		query: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			gotInput = in
			return &dynamodb.QueryOutput{
				Items: []map[string]types.AttributeValue{
					{
						"keycloakId": &types.AttributeValueMemberS{Value: "u-42"},
						"gtwToken":   &types.AttributeValueMemberS{Value: "bearer-1"},
						"gtwexpires": &types.AttributeValueMemberN{Value: "4102444800"},
					},
				},
			}, nil
		},
	}
	d := NewDynamo(api, "sessions")

	records, err := d.QueryByIndex(context.Background(), "keycloakIdIndex", "keycloakId", "u-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0]["gtwToken"] != "bearer-1" {
		t.Errorf("got token %v", records[0]["gtwToken"])
	}

	if got := aws.ToString(gotInput.TableName); got != "sessions" {
		t.Errorf("got table %q", got)
	}
	if got := aws.ToString(gotInput.IndexName); got != "keycloakIdIndex" {
		t.Errorf("got index %q", got)
	}
	if got := gotInput.ExpressionAttributeNames["#attr"]; got != "keycloakId" {
		t.Errorf("got attribute name %q", got)
	}
	val, ok := gotInput.ExpressionAttributeValues[":val"].(*types.AttributeValueMemberS)
	if !ok || val.Value != "u-42" {
		t.Errorf("got attribute value %v", gotInput.ExpressionAttributeValues[":val"])
	}
}

func TestQueryByIndexEmptyValueShortCircuits(t *testing.T) {
	api := &fakeDynamoAPI{
		query: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			t.Error("no call must be issued for an empty attribute value")
			return nil, nil
		},
	}
	d := NewDynamo(api, "sessions")

	records, err := d.QueryByIndex(context.Background(), "keycloakIdIndex", "keycloakId", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records, want none", len(records))
	}
}

func TestQueryByIndexUpstreamError(t *testing.T) {
	api := &fakeDynamoAPI{
		query: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	d := NewDynamo(api, "sessions")

	_, err := d.QueryByIndex(context.Background(), "keycloakIdIndex", "keycloakId", "u-42")
	if !errors.Is(err, core.ErrUpstreamUnavailable) {
		t.Fatalf("got err %v, want ErrUpstreamUnavailable", err)
	}
}

func TestGetItem(t *testing.T) {
	api := &fakeDynamoAPI{
		getItem: func(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			key, ok := in.Key["id"].(*types.AttributeValueMemberS)
			if !ok || key.Value != "rec-1" {
				t.Errorf("got key %v", in.Key)
			}
			return &dynamodb.GetItemOutput{
				Item: map[string]types.AttributeValue{
					"id":       &types.AttributeValueMemberS{Value: "rec-1"},
					"gtwToken": &types.AttributeValueMemberS{Value: "bearer-1"},
				},
			}, nil
		},
	}
	d := NewDynamo(api, "sessions")

	rec, found, err := d.GetItem(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("record not found")
	}
	if rec["gtwToken"] != "bearer-1" {
		t.Errorf("got token %v", rec["gtwToken"])
	}
}

func TestGetItemAbsent(t *testing.T) {
	api := &fakeDynamoAPI{
		getItem: func(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{}, nil
		},
	}
	d := NewDynamo(api, "sessions")

	_, found, err := d.GetItem(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("absent record reported as found")
	}
}

func TestPutItem(t *testing.T) {
	var gotInput *dynamodb.PutItemInput
	api := &fakeDynamoAPI{
		putItem: func(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			gotInput = in
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	d := NewDynamo(api, "sessions")

	err := d.PutItem(context.Background(), "rec-1", core.Record{"gtwToken": "bearer-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key, ok := gotInput.Item["id"].(*types.AttributeValueMemberS)
	if !ok || key.Value != "rec-1" {
		t.Errorf("got key attribute %v", gotInput.Item["id"])
	}
	token, ok := gotInput.Item["gtwToken"].(*types.AttributeValueMemberS)
	if !ok || token.Value != "bearer-1" {
		t.Errorf("got token attribute %v", gotInput.Item["gtwToken"])
	}
}

func TestDeleteItem(t *testing.T) {
	var gotInput *dynamodb.DeleteItemInput
	api := &fakeDynamoAPI{
		deleteItem: func(in *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) {
			gotInput = in
			return &dynamodb.DeleteItemOutput{}, nil
		},
	}
	d := NewDynamo(api, "sessions")

	if err := d.DeleteItem(context.Background(), "rec-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key, ok := gotInput.Key["id"].(*types.AttributeValueMemberS)
	if !ok || key.Value != "rec-1" {
		t.Errorf("got key %v", gotInput.Key)
	}
}
