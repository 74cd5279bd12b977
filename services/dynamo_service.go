package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"shelterlink_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoService.
// *dynamodb.Client satisfies it; tests may substitute a fake.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type DynamoService struct {
	Client DynamoAPI
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient(region string) *dynamodb.Client {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

// StringKey builds a single-attribute string key for GetItem/DeleteItem.
func StringKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// GetItem retrieves an item from DynamoDB. A missing item is reported as
// (nil, nil) so callers can decide whether absence is an error.
func (ds *DynamoService) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", tableName, err)
	}
	return output.Item, nil
}

// PutItem marshals and inserts an item into DynamoDB
func (ds *DynamoService) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &tableName,
		Item:      marshaledItem,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	return nil
}

// UpdateItem applies an update expression to a single item
func (ds *DynamoService) UpdateItem(
	ctx context.Context,
	tableName string,
	updateExpression string,
	key map[string]types.AttributeValue,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) (map[string]types.AttributeValue, error) {
	if len(key) == 0 {
		return nil, errors.New("update failed: key cannot be empty")
	}
	if updateExpression == "" {
		return nil, errors.New("update failed: updateExpression cannot be empty")
	}

	// REMOVE expressions carry no attribute values
	var expAttrValues map[string]types.AttributeValue
	if len(expressionAttributeValues) > 0 {
		expAttrValues = expressionAttributeValues
	}

	output, err := ds.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &tableName,
		Key:                       key,
		UpdateExpression:          &updateExpression,
		ExpressionAttributeValues: expAttrValues,
		ExpressionAttributeNames:  expressionAttributeNames,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update item in table '%s': %w", tableName, err)
	}

	if output.Attributes == nil {
		return map[string]types.AttributeValue{}, nil
	}
	return output.Attributes, nil
}

// DeleteItem removes an item from DynamoDB and reports whether it existed
func (ds *DynamoService) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (bool, error) {
	output, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    &tableName,
		Key:          key,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete item from table '%s': %w", tableName, err)
	}
	return len(output.Attributes) > 0, nil
}

// ScanAll reads every item of a table into result, a pointer to a slice of structs
func (ds *DynamoService) ScanAll(ctx context.Context, tableName string, result interface{}) error {
	output, err := ds.Client.Scan(ctx, &dynamodb.ScanInput{TableName: &tableName})
	if err != nil {
		return fmt.Errorf("failed to scan table '%s': %w", tableName, err)
	}
	if err := attributevalue.UnmarshalListOfMaps(output.Items, result); err != nil {
		return fmt.Errorf("failed to unmarshal scan result: %w", err)
	}
	return nil
}

// ScanWithValues scans a table with a filter expression, e.g.
// "donor_id = :uid" with {":uid": ...}
func (ds *DynamoService) ScanWithValues(
	ctx context.Context,
	tableName string,
	filterExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	result interface{},
) error {
	output, err := ds.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 &tableName,
		FilterExpression:          aws.String(filterExpression),
		ExpressionAttributeValues: expressionAttributeValues,
	})
	if err != nil {
		return fmt.Errorf("failed to scan table '%s': %w", tableName, err)
	}
	if err := attributevalue.UnmarshalListOfMaps(output.Items, result); err != nil {
		return fmt.Errorf("failed to unmarshal scan result: %w", err)
	}
	return nil
}

// AppendToStringList appends a value to a list attribute of an item,
// creating the list when the attribute is still missing. The append is a
// single UpdateItem call, so concurrent appends cannot lose each other.
func (ds *DynamoService) AppendToStringList(ctx context.Context, tableName string, key map[string]types.AttributeValue, attribute, value string) error {
	updateExpression := fmt.Sprintf("SET %s = list_append(if_not_exists(%s, :empty), :newItem)", attribute, attribute)

	_, err := ds.UpdateItem(ctx, tableName, updateExpression, key,
		map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":newItem": &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberS{Value: value},
			}},
		}, nil,
	)
	if err != nil {
		return fmt.Errorf("failed to append to %s list: %w", attribute, err)
	}
	return nil
}

// RemoveFromStringList removes the first occurrence of a value from a list
// attribute. A value that is not present is a no-op, which keeps cleanup
// steps retryable. The read-index-REMOVE sequence is not atomic; callers
// serialize removals per item.
func (ds *DynamoService) RemoveFromStringList(ctx context.Context, tableName string, key map[string]types.AttributeValue, attribute, value string) error {
	item, err := ds.GetItem(ctx, tableName, key)
	if err != nil {
		return fmt.Errorf("failed to fetch item for list removal: %w", err)
	}
	if item == nil {
		return nil
	}

	itemIndex := utils.IndexOfListMember(item, attribute, value)
	if itemIndex < 0 {
		return nil
	}

	updateExpression := fmt.Sprintf("REMOVE %s[%d]", attribute, itemIndex)
	if _, err := ds.UpdateItem(ctx, tableName, updateExpression, key, nil, nil); err != nil {
		return fmt.Errorf("failed to remove value from %s list: %w", attribute, err)
	}
	return nil
}
