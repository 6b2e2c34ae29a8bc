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

// TeamRepo provides typed DynamoDB operations for the teams table.
// Members are stored as a list attribute on the team item.
type TeamRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewTeamRepo(client *dynamodb.Client, tableName string) *TeamRepo {
	return &TeamRepo{client: client, tableName: tableName}
}

func (r *TeamRepo) Put(ctx context.Context, t *domain.Team) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal team: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *TeamRepo) Get(ctx context.Context, teamID string) (*domain.Team, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("team_id", teamID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("team not found: %w", domain.ErrNotFound)
	}
	var t domain.Team
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepo) Scan(ctx context.Context) ([]domain.Team, error) {
	var teams []domain.Team
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Team
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		teams = append(teams, page...)
		if out.LastEvaluatedKey == nil {
			return teams, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// SetMembers replaces the team's member list.
func (r *TeamRepo) SetMembers(ctx context.Context, teamID string, members []domain.TeamMember) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldMembers:   members,
		fieldUpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("team_id", teamID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
