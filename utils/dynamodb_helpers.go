package utils

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// StringKey builds a single-attribute DynamoDB key map
func StringKey(field, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		field: &types.AttributeValueMemberS{Value: value},
	}
}

// CompositeKey builds a partition+sort DynamoDB key map
func CompositeKey(pkField, pkValue, skField, skValue string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		pkField: &types.AttributeValueMemberS{Value: pkValue},
		skField: &types.AttributeValueMemberS{Value: skValue},
	}
}
