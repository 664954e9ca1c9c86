package utils

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string from a DynamoDB attribute map.
func ExtractString(attrs map[string]types.AttributeValue, field string) string {
	if attr, ok := attrs[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractInt safely extracts a numeric attribute, defaulting to zero.
func ExtractInt(attrs map[string]types.AttributeValue, field string) int {
	if attr, ok := attrs[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberN); ok {
			if n, err := strconv.Atoi(v.Value); err == nil {
				return n
			}
		}
	}
	return 0
}

// ExtractBool safely extracts a boolean attribute, defaulting to false.
func ExtractBool(attrs map[string]types.AttributeValue, field string) bool {
	if attr, ok := attrs[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberBOOL); ok {
			return v.Value
		}
	}
	return false
}
