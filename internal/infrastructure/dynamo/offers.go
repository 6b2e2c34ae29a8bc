package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/aqarmatch/api/internal/domain"
)

// OfferRepo provides typed DynamoDB operations for the offers table.
type OfferRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOfferRepo(client *dynamodb.Client, tableName string) *OfferRepo {
	return &OfferRepo{client: client, tableName: tableName}
}

func (r *OfferRepo) Put(ctx context.Context, o *domain.Offer) error {
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal offer: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *OfferRepo) Get(ctx context.Context, offerID string) (*domain.Offer, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("offer_id", offerID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("offer not found: %w", domain.ErrNotFound)
	}
	var o domain.Offer
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OfferRepo) Update(ctx context.Context, offerID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("offer_id", offerID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *OfferRepo) Delete(ctx context.Context, offerID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("offer_id", offerID),
	})
	return err
}

// ScanAll loads the entire offers table, following pagination. The
// reconciler deliberately loads everything: candidate filtering happens
// by scoring, not at the storage layer.
func (r *OfferRepo) ScanAll(ctx context.Context) ([]domain.Offer, error) {
	var offers []domain.Offer
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Offer
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		offers = append(offers, page...)
		if out.LastEvaluatedKey == nil {
			return offers, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// List scans the offers table applying the given filter. Range bounds
// use overlap semantics against the offer's own intervals.
func (r *OfferRepo) List(ctx context.Context, f domain.OfferFilter) ([]domain.Offer, error) {
	var conds []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	addStr := func(attr, val string) {
		nameKey := "#" + attr
		valueKey := ":" + attr
		names[nameKey] = attr
		values[valueKey] = &types.AttributeValueMemberS{Value: val}
		conds = append(conds, nameKey+" = "+valueKey)
	}
	addNum := func(attr, op string, val float64) {
		nameKey := "#" + attr
		valueKey := ":" + attr
		names[nameKey] = attr
		values[valueKey] = &types.AttributeValueMemberN{Value: strconv.FormatFloat(val, 'f', -1, 64)}
		conds = append(conds, nameKey+" "+op+" "+valueKey)
	}

	if f.Type != "" {
		addStr("type", f.Type)
	}
	if f.Usage != "" {
		addStr("usage", f.Usage)
	}
	if f.City != "" {
		addStr("city", f.City)
	}
	if f.District != "" {
		addStr("district", f.District)
	}
	if f.BrokerID != "" {
		addStr("created_by_id", f.BrokerID)
	}
	if f.MinPrice != nil {
		addNum("price_to", ">=", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		addNum("price_from", "<=", *f.MaxPrice)
	}
	if f.MinArea != nil {
		addNum("area_to", ">=", *f.MinArea)
	}
	if f.MaxArea != nil {
		addNum("area_from", "<=", *f.MaxArea)
	}

	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	if len(conds) > 0 {
		input.FilterExpression = aws.String(strings.Join(conds, " AND "))
		input.ExpressionAttributeNames = names
		input.ExpressionAttributeValues = values
	}

	var offers []domain.Offer
	var startKey map[string]types.AttributeValue
	for {
		input.ExclusiveStartKey = startKey
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		var page []domain.Offer
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		offers = append(offers, page...)
		if out.LastEvaluatedKey == nil {
			return offers, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
