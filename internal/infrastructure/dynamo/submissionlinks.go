package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/aqarmatch/api/internal/domain"
)

// SubmissionLinkRepo provides typed DynamoDB operations for the
// submission_links table. The token hash is the partition key so public
// submissions resolve with a single GetItem.
type SubmissionLinkRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSubmissionLinkRepo(client *dynamodb.Client, tableName string) *SubmissionLinkRepo {
	return &SubmissionLinkRepo{client: client, tableName: tableName}
}

func (r *SubmissionLinkRepo) Put(ctx context.Context, l *domain.SubmissionLink) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal submission link: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *SubmissionLinkRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.SubmissionLink, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("token_hash", tokenHash),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("submission link not found: %w", domain.ErrNotFound)
	}
	var l domain.SubmissionLink
	if err := attributevalue.UnmarshalMap(out.Item, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByLinkID resolves a link through the link_id GSI; used by the
// authenticated management endpoints, which never see token hashes.
func (r *SubmissionLinkRepo) GetByLinkID(ctx context.Context, linkID string) (*domain.SubmissionLink, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("link_id-index"),
		KeyConditionExpression: aws.String("link_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: linkID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("submission link not found: %w", domain.ErrNotFound)
	}
	var l domain.SubmissionLink
	if err := attributevalue.UnmarshalMap(out.Items[0], &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *SubmissionLinkRepo) ListByUser(ctx context.Context, userID string) ([]domain.SubmissionLink, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var links []domain.SubmissionLink
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// Deactivate disables a link without deleting it, so past submissions
// keep their provenance.
func (r *SubmissionLinkRepo) Deactivate(ctx context.Context, tokenHash string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldEnable:    false,
		fieldUpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("token_hash", tokenHash),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
