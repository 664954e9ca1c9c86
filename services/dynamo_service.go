package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoService is a thin wrapper over the DynamoDB client shared by all
// stores. It owns marshalling and expression plumbing; domain knowledge
// stays in the stores.
type DynamoService struct {
	Client *dynamodb.Client
}

// InitializeDynamoDBClient builds a DynamoDB client for the given region.
func InitializeDynamoDBClient(region string) *dynamodb.Client {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load AWS config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

// PutItem marshals and stores an item, overwriting any existing document
// with the same key.
func (ds *DynamoService) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item for table %q: %w", tableName, err)
	}
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &tableName,
		Item:      marshaled,
	})
	if err != nil {
		return fmt.Errorf("put item in table %q: %w", tableName, err)
	}
	return nil
}

// PutItemIfAbsent stores an item only when no document with the same
// partition key exists. Returns ErrConflict when the key is taken; this is
// the storage-level uniqueness backstop under concurrent writers.
func (ds *DynamoService) PutItemIfAbsent(ctx context.Context, tableName string, item interface{}, keyAttr string) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item for table %q: %w", tableName, err)
	}
	cond := fmt.Sprintf("attribute_not_exists(%s)", keyAttr)
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &tableName,
		Item:                marshaled,
		ConditionExpression: &cond,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("key %s already exists in table %q: %w", keyAttr, tableName, ErrConflict)
		}
		return fmt.Errorf("conditional put in table %q: %w", tableName, err)
	}
	return nil
}

// GetItem retrieves a document by key. A missing document returns
// (nil, nil); callers translate that into their own not-found error.
func (ds *DynamoService) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get item from table %q: %w", tableName, err)
	}
	return output.Item, nil
}

// QueryItems runs a key-condition query. indexName may be empty to query
// the base table; limit <= 0 means no limit.
func (ds *DynamoService) QueryItems(
	ctx context.Context,
	tableName string,
	indexName string,
	keyConditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
	limit int32,
) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:                 &tableName,
		KeyConditionExpression:    &keyConditionExpression,
		ExpressionAttributeValues: expressionAttributeValues,
		ExpressionAttributeNames:  expressionAttributeNames,
	}
	if indexName != "" {
		input.IndexName = &indexName
	}
	if limit > 0 {
		input.Limit = &limit
	}

	var items []map[string]types.AttributeValue
	for {
		output, err := ds.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query table %q: %w", tableName, err)
		}
		items = append(items, output.Items...)
		if output.LastEvaluatedKey == nil || (limit > 0 && int32(len(items)) >= limit) {
			break
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
	return items, nil
}

// ScanItems performs a filtered scan. Small tables only; the discovery feed
// is the single caller.
func (ds *DynamoService) ScanItems(
	ctx context.Context,
	tableName string,
	filterExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.ScanInput{
		TableName:                 &tableName,
		ExpressionAttributeValues: expressionAttributeValues,
		ExpressionAttributeNames:  expressionAttributeNames,
	}
	if filterExpression != "" {
		input.FilterExpression = &filterExpression
	}

	var items []map[string]types.AttributeValue
	for {
		output, err := ds.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan table %q: %w", tableName, err)
		}
		items = append(items, output.Items...)
		if output.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
	return items, nil
}

// UpdateItem applies an update expression and returns the document's new
// attributes. An optional condition expression turns a failed condition
// into ErrConflict.
func (ds *DynamoService) UpdateItem(
	ctx context.Context,
	tableName string,
	key map[string]types.AttributeValue,
	updateExpression string,
	conditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) (map[string]types.AttributeValue, error) {
	if len(key) == 0 {
		return nil, errors.New("update item: key cannot be empty")
	}
	if updateExpression == "" {
		return nil, errors.New("update item: update expression cannot be empty")
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 &tableName,
		Key:                       key,
		UpdateExpression:          &updateExpression,
		ExpressionAttributeValues: expressionAttributeValues,
		ExpressionAttributeNames:  expressionAttributeNames,
		ReturnValues:              types.ReturnValueAllNew,
	}
	if conditionExpression != "" {
		input.ConditionExpression = &conditionExpression
	}

	output, err := ds.Client.UpdateItem(ctx, input)
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, fmt.Errorf("condition failed updating table %q: %w", tableName, ErrConflict)
		}
		return nil, fmt.Errorf("update item in table %q: %w", tableName, err)
	}
	if output.Attributes == nil {
		return map[string]types.AttributeValue{}, nil
	}
	return output.Attributes, nil
}

// DeleteItem removes a document by key.
func (ds *DynamoService) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &tableName,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("delete item from table %q: %w", tableName, err)
	}
	return nil
}

// StringAttr builds a string attribute value.
func StringAttr(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

// NumberAttr builds a numeric attribute value.
func NumberAttr(v int) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", v)}
}
