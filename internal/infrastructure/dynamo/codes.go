package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/signup-api/internal/domain"
)

// CodeStore keeps one pending verification per recipient.
// PK: recipient. expires_at is the table TTL attribute; DynamoDB removes expired
// items lazily, so readers must still check expiry.
type CodeStore struct {
	client    *dynamodb.Client
	tableName string
}

func NewCodeStore(client *dynamodb.Client, tableName string) *CodeStore {
	return &CodeStore{client: client, tableName: tableName}
}

func (s *CodeStore) Get(ctx context.Context, recipient string) (*domain.PendingVerification, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            strKey("recipient", recipient),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	var v domain.PendingVerification
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *CodeStore) Set(ctx context.Context, v *domain.PendingVerification) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	return err
}

func (s *CodeStore) Delete(ctx context.Context, recipient string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       strKey("recipient", recipient),
	})
	return err
}
