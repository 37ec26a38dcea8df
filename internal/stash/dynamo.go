package stash

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore persists stash values in one DynamoDB table with a composite
// key: keyspace as partition key, sku as sort key.
type DynamoStore struct {
	db        *dynamodb.Client
	tableName string
}

type dynamoItem struct {
	Keyspace string `dynamodbav:"keyspace"`
	Key      string `dynamodbav:"sku"`
	Value    Value  `dynamodbav:"value"`
}

// NewDynamoStore builds a client from the ambient AWS config. DYNAMO_ENDPOINT
// overrides the endpoint for local setups.
func NewDynamoStore(ctx context.Context, tableName string) (*DynamoStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := os.Getenv("DYNAMO_ENDPOINT")
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &DynamoStore{db: client, tableName: tableName}, nil
}

func (s *DynamoStore) Get(ctx context.Context, keyspace string, key string) (Value, bool, error) {
	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"keyspace": &types.AttributeValueMemberS{Value: keyspace},
			"sku":      &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, false, err
	}
	if out.Item == nil {
		return nil, false, nil
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, false, err
	}
	return item.Value, true, nil
}

func (s *DynamoStore) Set(ctx context.Context, keyspace string, key string, value Value) error {
	item, err := attributevalue.MarshalMap(dynamoItem{
		Keyspace: keyspace,
		Key:      key,
		Value:    value,
	})
	if err != nil {
		return err
	}

	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	return err
}
