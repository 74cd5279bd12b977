package utils

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string attribute from a DynamoDB item
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractStringList extracts a list of string members from a DynamoDB item
func ExtractStringList(item map[string]types.AttributeValue, field string) []string {
	attr, ok := item[field]
	if !ok {
		return nil
	}
	list, ok := attr.(*types.AttributeValueMemberL)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(list.Value))
	for _, member := range list.Value {
		if s, ok := member.(*types.AttributeValueMemberS); ok {
			values = append(values, s.Value)
		}
	}
	return values
}

// IndexOfListMember returns the position of a string value inside a list
// attribute, or -1 when the attribute is missing or the value is not there
func IndexOfListMember(item map[string]types.AttributeValue, field, value string) int {
	attr, ok := item[field]
	if !ok {
		return -1
	}
	list, ok := attr.(*types.AttributeValueMemberL)
	if !ok {
		return -1
	}
	for i, member := range list.Value {
		if s, ok := member.(*types.AttributeValueMemberS); ok && s.Value == value {
			return i
		}
	}
	return -1
}
