package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
)

func sampleItem() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"uid": &types.AttributeValueMemberS{Value: "donor-1"},
		"age": &types.AttributeValueMemberN{Value: "42"},
		"match_ids": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "m-1"},
			&types.AttributeValueMemberS{Value: "m-2"},
			&types.AttributeValueMemberN{Value: "7"},
		}},
	}
}

func TestExtractString(t *testing.T) {
	item := sampleItem()
	assert.Equal(t, "donor-1", ExtractString(item, "uid"))
	assert.Equal(t, "", ExtractString(item, "missing"))
	// Wrong member type yields the zero value
	assert.Equal(t, "", ExtractString(item, "age"))
}

func TestExtractStringList(t *testing.T) {
	item := sampleItem()
	// Non-string members are skipped
	assert.Equal(t, []string{"m-1", "m-2"}, ExtractStringList(item, "match_ids"))
	assert.Nil(t, ExtractStringList(item, "missing"))
	assert.Nil(t, ExtractStringList(item, "uid"))
}

func TestIndexOfListMember(t *testing.T) {
	item := sampleItem()
	assert.Equal(t, 0, IndexOfListMember(item, "match_ids", "m-1"))
	assert.Equal(t, 1, IndexOfListMember(item, "match_ids", "m-2"))
	assert.Equal(t, -1, IndexOfListMember(item, "match_ids", "m-9"))
	assert.Equal(t, -1, IndexOfListMember(item, "missing", "m-1"))
	assert.Equal(t, -1, IndexOfListMember(item, "uid", "donor-1"))
}
