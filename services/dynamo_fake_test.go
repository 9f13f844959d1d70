package services

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is a scripted DynamoAPI. Each method records its call and
// delegates to the matching hook; unset hooks return the empty-store answer
// (no item, no rows, successful write).
type fakeDynamo struct {
	putFn        func(table string, item interface{}) error
	putCondFn    func(table string, item interface{}, condition string, values map[string]types.AttributeValue, names map[string]string) error
	getFn        func(table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error)
	updateFn     func(table, expr string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error)
	updateCondFn func(table, expr, condition string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error)
	deleteFn     func(table string, key map[string]types.AttributeValue) error
	queryFn      func(table, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error)
	queryIndexFn func(table, index, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error)
	queryOptsFn  func(table, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32, ascending bool) ([]map[string]types.AttributeValue, error)
	scanFn       func(table, filter string, values map[string]types.AttributeValue, names map[string]string) ([]map[string]types.AttributeValue, error)
	transactFn   func(items []types.TransactWriteItem) error

	puts      []recordedPut
	updates   []recordedUpdate
	deletes   []string
	transacts [][]types.TransactWriteItem
}

type recordedPut struct {
	Table     string
	Item      interface{}
	Condition string
	Values    map[string]types.AttributeValue
	Names     map[string]string
}

type recordedUpdate struct {
	Table      string
	Expression string
	Key        map[string]types.AttributeValue
}

var _ DynamoAPI = (*fakeDynamo)(nil)

func (f *fakeDynamo) PutItem(ctx context.Context, table string, item interface{}) error {
	f.puts = append(f.puts, recordedPut{Table: table, Item: item})
	if f.putFn != nil {
		return f.putFn(table, item)
	}
	return nil
}

func (f *fakeDynamo) PutItemWithCondition(ctx context.Context, table string, item interface{}, condition string, values map[string]types.AttributeValue, names map[string]string) error {
	f.puts = append(f.puts, recordedPut{Table: table, Item: item, Condition: condition, Values: values, Names: names})
	if f.putCondFn != nil {
		return f.putCondFn(table, item, condition, values, names)
	}
	return nil
}

func (f *fakeDynamo) GetItem(ctx context.Context, table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	if f.getFn != nil {
		return f.getFn(table, key)
	}
	return nil, ErrItemNotFound
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, table, expr string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	f.updates = append(f.updates, recordedUpdate{Table: table, Expression: expr, Key: key})
	if f.updateFn != nil {
		return f.updateFn(table, expr, key, values, names)
	}
	return map[string]types.AttributeValue{}, nil
}

func (f *fakeDynamo) UpdateItemWithCondition(ctx context.Context, table, expr, condition string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	f.updates = append(f.updates, recordedUpdate{Table: table, Expression: expr, Key: key})
	if f.updateCondFn != nil {
		return f.updateCondFn(table, expr, condition, key, values, names)
	}
	return map[string]types.AttributeValue{}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, table string, key map[string]types.AttributeValue) error {
	f.deletes = append(f.deletes, table)
	if f.deleteFn != nil {
		return f.deleteFn(table, key)
	}
	return nil
}

func (f *fakeDynamo) QueryItems(ctx context.Context, table, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	if f.queryFn != nil {
		return f.queryFn(table, keyCondition, values, names, limit)
	}
	return nil, nil
}

func (f *fakeDynamo) QueryItemsWithIndex(ctx context.Context, table, index, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	if f.queryIndexFn != nil {
		return f.queryIndexFn(table, index, keyCondition, values, names, limit)
	}
	return nil, nil
}

func (f *fakeDynamo) QueryItemsWithOptions(ctx context.Context, table, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32, ascending bool) ([]map[string]types.AttributeValue, error) {
	if f.queryOptsFn != nil {
		return f.queryOptsFn(table, keyCondition, values, names, limit, ascending)
	}
	return nil, nil
}

func (f *fakeDynamo) ScanItems(ctx context.Context, table, filter string, values map[string]types.AttributeValue, names map[string]string) ([]map[string]types.AttributeValue, error) {
	if f.scanFn != nil {
		return f.scanFn(table, filter, values, names)
	}
	return nil, nil
}

func (f *fakeDynamo) TransactWriteItems(ctx context.Context, items []types.TransactWriteItem) error {
	f.transacts = append(f.transacts, items)
	if f.transactFn != nil {
		return f.transactFn(items)
	}
	return nil
}

// mustMarshal turns a document into the attribute map a real query would
// have returned.
func mustMarshal(t *testing.T, v interface{}) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		t.Fatalf("failed to marshal %T: %v", v, err)
	}
	return item
}
