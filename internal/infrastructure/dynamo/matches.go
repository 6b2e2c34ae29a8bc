package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/aqarmatch/api/internal/domain"
)

// MatchRepo provides typed DynamoDB operations for the matches table.
//
// The table's primary key IS the natural key: offer_id (HASH) plus
// request_id (RANGE). PutNew writes with attribute_not_exists so that of
// two concurrent reconciliations discovering the same pair, exactly one
// insert succeeds; the loser gets domain.ErrConflict.
type MatchRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewMatchRepo(client *dynamodb.Client, tableName string) *MatchRepo {
	return &MatchRepo{client: client, tableName: tableName}
}

// PutNew inserts a match only if no row exists for its (offer_id,
// request_id) pair. A lost race surfaces as domain.ErrConflict.
func (r *MatchRepo) PutNew(ctx context.Context, m *domain.Match) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal match: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(offer_id)"),
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return fmt.Errorf("match already exists for pair: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

// GetByPair looks up a match by its natural key.
func (r *MatchRepo) GetByPair(ctx context.Context, offerID, requestID string) (*domain.Match, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("offer_id", offerID, "request_id", requestID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("match not found: %w", domain.ErrNotFound)
	}
	var m domain.Match
	if err := attributevalue.UnmarshalMap(out.Item, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID resolves a match through the match_id GSI.
func (r *MatchRepo) GetByID(ctx context.Context, matchID string) (*domain.Match, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("match_id-index"),
		KeyConditionExpression: aws.String("match_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: matchID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("match not found: %w", domain.ErrNotFound)
	}
	var m domain.Match
	if err := attributevalue.UnmarshalMap(out.Items[0], &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateStatus changes a match's status, the only mutable field.
func (r *MatchRepo) UpdateStatus(ctx context.Context, offerID, requestID, status string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldStatus:    status,
		fieldUpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey("offer_id", offerID, "request_id", requestID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// ScanAll loads every match, following pagination.
func (r *MatchRepo) ScanAll(ctx context.Context) ([]domain.Match, error) {
	var matches []domain.Match
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Match
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		matches = append(matches, page...)
		if out.LastEvaluatedKey == nil {
			return matches, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
